// Package capture rasterizes the served week page into a PNG using a
// headless Chromium instance. The SVG itself is produced by
// internal/render; this is only the final pixel step.
package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultTimeout = 30 * time.Second

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL of the week page to capture, e.g. "http://127.0.0.1:8080/week.svg".
	URL string

	// OutputPath is where the PNG is written, e.g. "./cache/preview.png".
	OutputPath string

	// Width / Height are the viewport dimensions in pixels; use the
	// layout's canvas geometry so nothing is clipped.
	Width  int
	Height int

	// Timeout bounds the whole capture. Zero means a sane default.
	Timeout time.Duration
}

// WeekPNG navigates to the week page, waits for the SVG root to become
// visible, and writes a full screenshot at the requested resolution.
func WeekPNG(parentCtx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("capture: viewport size is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible("svg", chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(250 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
