// presence-pulse is a terminal Discord presence card.
//
// It polls the Lanyard API (api.lanyard.rest) for a Discord user's live
// status and activities, then renders a profile card in the terminal:
// status-colored name, the featured activity, collapsible secondary
// activities, and a Spotify now-playing block with a live progress bar.
//
// Usage:
//
//	presence-pulse [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/presence-pulse/config.toml)
//	-user string    Discord user ID to track (overrides config)
//	-once           Fetch once, print a plain card to stdout, and exit
//	-no-art         Disable album-art / activity-icon rendering
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/app"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/art"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/cache"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors/presence"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/config"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/lanyard"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/prefs"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/terminal"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/widgets"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// snapshotCacheKey is where the last good snapshot is persisted for the
// warm start.
const snapshotCacheKey = "presence:last"

// cachedSnapshot is the persisted form of the last good poll result.
type cachedSnapshot struct {
	Presence  *lanyard.Presence `json:"presence"`
	FetchedAt time.Time         `json:"fetched_at"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		userID      = flag.String("user", "", "Discord user ID to track (overrides config)")
		runOnce     = flag.Bool("once", false, "Fetch once, print a plain card to stdout, and exit")
		noArt       = flag.Bool("no-art", false, "Disable album-art rendering")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("presence-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *userID != "" {
		cfg.Lanyard.UserID = *userID
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, logClose, err := setupLogging(cfg, *verbose, *runOnce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logClose()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := lanyard.NewClient(lanyard.ClientConfig{
		BaseURL:   cfg.Lanyard.BaseURL,
		Timeout:   cfg.Lanyard.Timeout.Duration,
		UserAgent: "presence-pulse/" + version,
	})
	collector := presence.New(presence.Config{
		UserID:   cfg.Lanyard.UserID,
		Interval: cfg.Lanyard.PollInterval.Duration,
	}, client)

	if *runOnce {
		os.Exit(runOncePass(ctx, collector))
	}

	store, err := cache.NewStore(cache.StoreConfig{
		Dir:        filepath.Join(cfg.General.CacheDir, "store"),
		DefaultTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
		store = nil
	}

	artEnabled := cfg.Display.ArtEnabled && !*noArt

	os.Exit(runTUI(ctx, logger, cfg, collector, store, artEnabled))
}

// setupLogging builds the slog logger: stderr plus a log file under the
// cache dir, unless running in once mode where only stderr is used.
func setupLogging(cfg *config.Config, verbose, once bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}

	logPath := cfg.General.LogFile
	if logPath == "" {
		logPath = filepath.Join(cfg.General.CacheDir, "presence-pulse.log")
	}
	if !once {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// runTUI wires the collector runner into the bubbletea program and blocks
// until it exits.
func runTUI(ctx context.Context, logger *slog.Logger, cfg *config.Config, collector *presence.Collector, store *cache.Store, artEnabled bool) int {
	prefsStore := prefs.NewStore(cfg.Display.PrefsFile)
	p, err := prefsStore.Load()
	if err != nil {
		logger.Warn("failed to load preferences, using defaults", "error", err)
	}

	opts := widgets.PresenceOptions{Prefs: p}
	if artEnabled {
		opts.ArtFetcher = art.NewFetcher(store)
		opts.ArtRenderer = art.NewRenderer(terminal.DetectCapabilities(), cfg.Display.ArtProtocol)
	}
	card := widgets.NewPresenceWidget(opts)

	if store != nil {
		if snap, ok := cache.GetTyped[cachedSnapshot](store, snapshotCacheKey); ok {
			card.Restore(snap.Presence, snap.FetchedAt)
			logger.Debug("restored cached snapshot", "fetched_at", snap.FetchedAt)
		}
	}

	registry := collectors.NewRegistry()
	if err := registry.Register(collector); err != nil {
		logger.Error("failed to register collector", "error", err)
		return 1
	}

	raw := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
	ui := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
	go persistAndForward(store, raw, ui)

	runner := collectors.NewRunner(registry, raw)
	runner.SetLogger(logger)
	if err := runner.Start(ctx); err != nil {
		logger.Error("failed to start collectors", "error", err)
		return 1
	}
	defer runner.Stop()

	zone.NewGlobal()
	defer zone.Close()

	model := app.NewAppModel(app.Config{
		RefreshInterval: time.Second,
		Updates:         ui,
		Prefs:           p,
		PrefsStore:      prefsStore,
	}, card)

	prog := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI error", "error", err)
		return 1
	}
	return 0
}

// persistAndForward tees collector updates into the UI channel, writing
// every good tracked snapshot to the cache for the next warm start.
func persistAndForward(store *cache.Store, in <-chan collectors.Update, out chan<- collectors.Update) {
	defer close(out)
	for u := range in {
		if store != nil && u.Error == nil {
			if snap, ok := u.Data.(*presence.Snapshot); ok && snap.Tracked {
				err := cache.PutTyped(store, snapshotCacheKey, cachedSnapshot{
					Presence:  snap.Presence,
					FetchedAt: snap.FetchedAt,
				})
				if err != nil {
					slog.Debug("failed to persist snapshot", "error", err)
				}
			}
		}
		out <- u
	}
}

// onceCardWidth caps the width of the -once plain card.
const onceCardWidth = 64

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// runOncePass performs one fetch-classify-render cycle and prints the card
// to stdout, color-stripped when stdout is not a terminal.
func runOncePass(ctx context.Context, collector *presence.Collector) int {
	// The card marks mouse zones unconditionally; give it a manager and
	// strip the markers from the plain output below.
	zone.NewGlobal()
	defer zone.Close()

	card := widgets.NewPresenceWidget(widgets.PresenceOptions{Prefs: prefs.DefaultPreferences()})

	data, err := collector.Collect(ctx)
	ev := app.DataUpdateEvent{Source: card.ID(), Data: data, Err: err, Timestamp: time.Now()}
	card.Update(ev)

	width := terminal.GetSize().Cols
	if width > onceCardWidth {
		width = onceCardWidth
	}
	view := zone.Scan(card.View(width, 20))

	color := isatty.IsTerminal(os.Stdout.Fd()) && termenv.ColorProfile() != termenv.Ascii
	if !color {
		view = ansiRe.ReplaceAllString(view, "")
	}

	// Drop the exact-height padding for plain output.
	lines := strings.Split(view, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	fmt.Println(strings.Join(lines, "\n"))

	if err != nil {
		return 1
	}
	return 0
}
