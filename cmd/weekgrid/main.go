package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"weekgrid/internal/capture"
	"weekgrid/internal/config"
	"weekgrid/internal/grid"
	"weekgrid/internal/ics"
	appLog "weekgrid/internal/log"
	"weekgrid/internal/model"
	"weekgrid/internal/render"
	"weekgrid/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	out        string
	date       string
	png        bool
}

func main() {
	appLog.Info("weekgrid starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"group", conf.GroupName,
		"hours", fmt.Sprintf("%02d-%02d", conf.Hours.Start, conf.Hours.End),
		"weekdays_only", conf.WeekdaysOnly,
		"refresh", conf.RefreshCron,
		"people", len(conf.People),
		"once", flags.once,
	)

	if err := os.MkdirAll(conf.CacheDir, 0o755); err != nil {
		appLog.Error("failed to create cache dir", err, "dir", conf.CacheDir)
		os.Exit(1)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if err := runOnce(ctx, conf, flags); err != nil {
			appLog.Error("one-shot render failed", err)
			os.Exit(1)
		}
		appLog.Info("weekgrid exiting")
		return
	}

	runDaemon(ctx, conf)
	appLog.Info("weekgrid exiting")
}

// runOnce renders the current (or requested) week to an SVG file and
// exits. With -png a headless Chromium pass rasterizes it as well.
func runOnce(ctx context.Context, conf *config.Config, flags flagConfig) error {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", conf.Timezone, err)
	}

	ref := time.Now().In(loc)
	if flags.date != "" {
		ref, err = time.ParseInLocation("2006-01-02", flags.date, loc)
		if err != nil {
			return fmt.Errorf("parse -date: %w", err)
		}
	}
	weekStart := ics.Monday(ref)

	layout, svg := buildWeek(ctx, conf, weekStart, loc)

	out := flags.out
	if out == "" {
		out = filepath.Join(conf.CacheDir, "week.svg")
	}
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write SVG: %w", err)
	}
	appLog.Info("wrote week SVG",
		"path", out,
		"week_start", weekStart.Format("2006-01-02"),
		"blocks", len(layout.Blocks),
		"size", fmt.Sprintf("%dx%d", layout.Geometry.Width, layout.Geometry.Height),
	)

	if !flags.png {
		return nil
	}

	// Serve the SVG on a local listener just long enough for Chromium to
	// fetch it.
	srv := &http.Server{
		Addr: conf.Listen,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
			_, _ = w.Write([]byte(svg))
		}),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("temporary SVG server failed", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	time.Sleep(100 * time.Millisecond)

	pngPath := out[:len(out)-len(filepath.Ext(out))] + ".png"
	err = capture.WeekPNG(ctx, capture.Options{
		URL:        "http://" + conf.Listen + "/week.svg",
		OutputPath: pngPath,
		Width:      layout.Geometry.Width,
		Height:     layout.Geometry.Height,
	})
	if err != nil {
		return err
	}
	appLog.Info("wrote week PNG", "path", pngPath)
	return nil
}

// runDaemon starts the HTTP server and a cron schedule that prerenders
// the current week and captures the PNG preview.
func runDaemon(ctx context.Context, conf *config.Config) {
	go func() {
		if err := web.StartServer(conf); err != nil {
			appLog.Error("web server stopped", err)
		}
	}()

	refresh := func() {
		if err := prerender(ctx, conf); err != nil {
			appLog.Error("scheduled prerender failed", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, refresh); err != nil {
		appLog.Error("invalid refresh cron expression", err, "expr", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	// Run one refresh immediately so the preview exists before the first
	// cron tick.
	go refresh()

	<-ctx.Done()
}

// prerender writes the current week's SVG to the cache directory and
// rasterizes it via the running web server.
func prerender(ctx context.Context, conf *config.Config) error {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", conf.Timezone, err)
	}
	weekStart := ics.Monday(time.Now().In(loc))

	layout, svg := buildWeek(ctx, conf, weekStart, loc)

	svgPath := filepath.Join(conf.CacheDir, "week.svg")
	if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write SVG: %w", err)
	}

	err = capture.WeekPNG(ctx, capture.Options{
		URL:        "http://" + conf.Listen + "/week.svg",
		OutputPath: filepath.Join(conf.CacheDir, "preview.png"),
		Width:      layout.Geometry.Width,
		Height:     layout.Geometry.Height,
	})
	if err != nil {
		return err
	}
	appLog.Info("prerender complete",
		"week_start", weekStart.Format("2006-01-02"),
		"blocks", len(layout.Blocks),
	)
	return nil
}

// buildWeek runs fetch + layout + render for one week.
func buildWeek(ctx context.Context, conf *config.Config, weekStart time.Time, loc *time.Location) (grid.WeekLayout, string) {
	people := make([]model.Person, 0, len(conf.People))
	sources := make([]ics.Source, 0, len(conf.People))
	for _, pc := range conf.People {
		id := pc.ID
		if id == "" {
			id = pc.Name
		}
		people = append(people, model.Person{ID: id, DisplayName: pc.Name, Initials: pc.Initials})
		if pc.ICS != "" {
			sources = append(sources, ics.Source{PersonID: id, URL: pc.ICS})
		}
	}

	provider := ics.NewProvider(filepath.Join(conf.CacheDir, "ics"))
	in := grid.WeekInput{
		WeekStart:    weekStart,
		Hours:        model.HourWindow{Start: conf.Hours.Start, End: conf.Hours.End},
		People:       people,
		Occurrences:  provider.WeekOccurrences(ctx, sources, weekStart, loc),
		WeekdaysOnly: conf.WeekdaysOnly,
	}

	layout := grid.BuildWeek(in, render.Measurer{})
	svg := render.WeekSVG(layout, render.Options{
		GroupName:    conf.GroupName,
		WeekStartISO: weekStart.Format("2006-01-02"),
		Members:      len(people),
		Hours:        in.Hours,
	})
	return layout, svg
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./weekgrid.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Render one week and exit")
	flag.StringVar(&cfg.out, "out", "", "Output SVG path for -once (default <cache_dir>/week.svg)")
	flag.StringVar(&cfg.date, "date", "", "Target date (YYYY-MM-DD) selecting the week for -once")
	flag.BoolVar(&cfg.png, "png", false, "Also rasterize a PNG in -once mode (requires Chromium)")

	flag.Parse()

	return cfg
}
