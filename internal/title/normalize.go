// Package title cleans raw calendar summaries into display titles and
// extracts role tags (lecture/practical/seminar/...) from them.
//
// The cleanup is an ordered sequence of rewrites that was tuned against
// course-catalog naming conventions; the step order is significant and
// must not be reordered.
package title

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Vocabulary is the fixed set of role keywords recognized as tags.
var Vocabulary = []string{
	"hoorcollege",
	"practicum",
	"werkcollege",
	"workshop",
	"seminar",
	"tutorial",
	"lecture",
	"les",
	"groepswerk",
	"groepsopdracht",
	"lab",
}

var (
	reZeroWidth  = regexp.MustCompile("\u200B")
	reCtrlRuns   = regexp.MustCompile(`[\r\n\t]+`)
	reMultiSpace = regexp.MustCompile(`\s{2,}`)

	// Leading course code: "E702210A Gevorderd prog", "AE2111-I ...",
	// or a bare alphanumeric token up to 12 chars, followed by a separator.
	reLeadCode = regexp.MustCompile(`(?i)^(?:(?:[A-Z]{1,4}\d{1,6}[A-Z0-9\-/.]*)|[A-Z0-9]{2,12})(?:[-_/.]?(?:I{1,3}|[A-Z]{1,4}|\d{1,3}))?[\s:\-–—|]+`)
	// Leading CODE-CODE pair: "WI2480-LR: ...".
	reLeadPair = regexp.MustCompile(`(?i)^[A-Z0-9]{1,6}[-_/][A-Z0-9]{1,8}\s*[-|:]\s*`)
	// Leading role keyword: "Lecture: ...", "Hoorcollege - ...".
	reLeadRole = regexp.MustCompile(`(?i)^(lecture|hoorcollege|le(c|cture)|practicum|les|workshop|seminar)\b[\s:\-–—]+`)
	// Role keywords anywhere; these survive as tags, not in the title.
	reInlineRole = regexp.MustCompile(`(?i)\b(hoorcollege|practicum|werkcollege|workshop|seminar|tutorial|lecture|les|groepswerk|lab)\b`)
	// Leading short bracketed code: "(GR01)", "[A]", "(Lec)".
	reLeadBracket = regexp.MustCompile(`(?i)^[(\[]\s*[A-Za-z0-9\-_]{1,8}\s*[)\]]\s*`)
	// Inline group tokens: "GR04", "groep 2", "group-12".
	reGroupWord = regexp.MustCompile(`(?i)\b(?:gr(?:oup|oup?g|oe?p)?|grp|groep)\s*[-_\s]?\d{1,3}\b`)
	reGroupCode = regexp.MustCompile(`(?i)\bGR\d{1,3}\b`)
	// Standalone course-like tokens anywhere: "B001625A", "AE2111-I".
	reCourseTok = regexp.MustCompile(`(?i)\b[A-Z]{1,4}\d{2,6}[A-Z0-9\-_/.]*\b`)
	// Trailing room/location/group metadata after a dash or pipe.
	reTrailMeta = regexp.MustCompile(`(?i)[-|–—]\s*(room|zaal|grp|group|gr|auditorium|loc|locatie|aula)?\s*[:#]?\s*[A-Za-z0-9\-\s]{1,25}$`)
	reTrailRole = regexp.MustCompile(`(?i)\s*[-|–—]\s*(hoorcollege|werkcollege|praktijk|tutorial)\s*$`)

	reLeadSep    = regexp.MustCompile(`^[:\-–—|\s]+`)
	reLeadQuote  = regexp.MustCompile(`^["'“‘]+\s*`)
	reTrailQuote = regexp.MustCompile(`\s+["'”’]+$`)
	reEdgePunct  = regexp.MustCompile(`^[,.;:\-]+|[,.;:\-]+$`)
	reSepRuns    = regexp.MustCompile(`[\s,;:]{2,}`)

	reDotSplit  = regexp.MustCompile(`\s*\.\s*`)
	reTrailDot  = regexp.MustCompile(`\s*\.\s*$`)
	reDoubleDot = regexp.MustCompile(`\s*\.\s*\.\s*`)

	reGuardStrip  = regexp.MustCompile(`[^A-Za-z0-9À-ž\s\-:,.!?'"]`)
	reLeadNumCode = regexp.MustCompile(`^\d{2,6}\s+`)

	reTag = regexp.MustCompile(`(?i)\b(?:` + strings.Join(Vocabulary, "|") + `)\b`)
)

// placeholders are tokens that sometimes appear alone as a summary and
// carry no usable title information.
var placeholders = map[string]bool{
	"tba":       true,
	"geen":      true,
	"afgelast":  true,
	"canceled":  true,
	"canceled.": true,
	"vrij":      true,
	"geen les":  true,
}

// Clean rewrites a raw summary into a compact display title. If the
// cleanup destroys too much information it falls back to a milder
// rewrite, and ultimately to the untouched input.
func Clean(raw string) string {
	if raw == "" {
		return "Lesson"
	}

	s := reZeroWidth.ReplaceAllString(raw, "")
	s = strings.TrimSpace(reCtrlRuns.ReplaceAllString(s, " "))
	s = reMultiSpace.ReplaceAllString(s, " ")

	original := s

	s = reLeadCode.ReplaceAllString(s, "")
	s = reLeadPair.ReplaceAllString(s, "")
	s = reLeadRole.ReplaceAllString(s, "")
	s = reInlineRole.ReplaceAllString(s, "")
	s = reLeadBracket.ReplaceAllString(s, "")
	s = reGroupWord.ReplaceAllString(s, "")
	s = reGroupCode.ReplaceAllString(s, "")
	s = reCourseTok.ReplaceAllString(s, "")
	s = reTrailMeta.ReplaceAllString(s, "")
	s = reTrailRole.ReplaceAllString(s, "")
	s = reLeadSep.ReplaceAllString(s, "")
	s = reLeadQuote.ReplaceAllString(s, "")
	s = reTrailQuote.ReplaceAllString(s, "")
	s = reEdgePunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(reSepRuns.ReplaceAllString(s, " "))

	s = dedupePhrases(s)

	s = reTrailDot.ReplaceAllString(s, "")
	s = reDoubleDot.ReplaceAllString(s, " . ")
	s = strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))

	if invalid(s) {
		// Milder fallback: only a strict leading numeric code is removed
		// from the (whitespace-normalized) original.
		fallback := strings.TrimSpace(reLeadNumCode.ReplaceAllString(original, ""))
		if !invalid(fallback) {
			return fallback
		}
		return original
	}

	return s
}

// dedupePhrases drops repeated identical sub-phrases separated by periods,
// e.g. "Elektriciteit . Elektriciteit" -> "Elektriciteit". The containment
// check is case-insensitive and keeps first-occurrence order.
func dedupePhrases(s string) string {
	var acc string
	for _, part := range reDotSplit.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(strings.ToLower(acc), strings.ToLower(part)) {
			continue
		}
		if acc != "" {
			acc += " . "
		}
		acc += part
	}
	return acc
}

// invalid reports whether a cleaned title carries too little information
// to be shown: shorter than 3 meaningful characters, or a placeholder.
func invalid(t string) bool {
	if t == "" {
		return true
	}
	stripped := strings.TrimSpace(reGuardStrip.ReplaceAllString(t, ""))
	if utf8.RuneCountInString(stripped) < 3 {
		return true
	}
	return placeholders[strings.ToLower(t)]
}

// Tags scans the original raw text for role keywords and returns the set
// of matches, lowercased and sorted. Extraction always runs over the raw
// text so it is independent of the cleanup rewrites.
func Tags(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	for _, m := range reTag.FindAllString(raw, -1) {
		seen[strings.ToLower(m)] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
