package grid

import (
	"fmt"
	"strings"
)

// HSL is a hue/saturation/lightness color triple (degrees, percent,
// percent).
type HSL struct {
	H int
	S int
	L int
}

// String renders the color in CSS "hsl(h s% l%)" form.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d %d%% %d%%)", c.H, c.S, c.L)
}

// Palette is the fixed, ordered list of person colors. High contrast,
// chosen for dark backgrounds.
var Palette = []HSL{
	{265, 85, 75},
	{20, 90, 70},
	{200, 85, 65},
	{140, 70, 65},
	{350, 75, 72},
	{45, 95, 70},
	{300, 70, 72},
	{185, 70, 70},
	{10, 85, 68},
	{80, 70, 68},
	{230, 80, 72},
	{0, 0, 80},
}

// FallbackColor is used for labels that never received an assignment.
var FallbackColor = Palette[len(Palette)-1]

// hueDistance is the circular distance between two hues in degrees.
func hueDistance(h1, h2 int) int {
	d := h1 - h2
	if d < 0 {
		d = -d
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// AssignColors maps each label to a palette color. The first label gets
// palette entry 0; each following label gets the unused entry whose
// minimum circular hue distance to the already-assigned hues is maximal
// (greedy max-min), ties broken by lowest palette index. When the palette
// runs out, remaining labels cycle through it by index.
func AssignColors(labels []string) map[string]HSL {
	colors := make(map[string]HSL)

	var uniq []string
	seen := make(map[string]bool)
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	if len(uniq) == 0 {
		return colors
	}

	used := make(map[int]bool)
	used[0] = true
	colors[uniq[0]] = Palette[0]

	for i := 1; i < len(uniq); i++ {
		bestIdx, bestScore := -1, -1
		for pi := range Palette {
			if used[pi] {
				continue
			}
			score := 999
			for ui := range used {
				if d := hueDistance(Palette[ui].H, Palette[pi].H); d < score {
					score = d
				}
			}
			if score > bestScore {
				bestScore = score
				bestIdx = pi
			}
		}
		idx := bestIdx
		if idx == -1 {
			// Palette exhausted; cycle deterministically.
			idx = i % len(Palette)
		}
		used[idx] = true
		colors[uniq[i]] = Palette[idx]
	}
	return colors
}
