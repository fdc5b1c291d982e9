// Package watch runs the long-lived rebuild loop: an initial build, then
// debounced rebuilds on filesystem events until the context is cancelled.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdcombine/internal/builder"
	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/discovery"
	"git.home.luguber.info/inful/mdcombine/internal/history"
	"git.home.luguber.info/inful/mdcombine/internal/lint"
	"git.home.luguber.info/inful/mdcombine/internal/logfields"
	"git.home.luguber.info/inful/mdcombine/internal/metrics"
	"git.home.luguber.info/inful/mdcombine/internal/notify"
)

// Watcher owns the single debounce timer and the rebuild loop. All rebuilds
// (event-driven and scheduled) are serialized through one channel, so at most
// one build runs at a time.
type Watcher struct {
	cfg       *config.Config
	builder   *builder.Builder
	collector *discovery.GlobCollector
	watcher   *fsnotify.Watcher
	debounce  time.Duration

	rebuildChan chan struct{}

	// Optional integrations; nil when not configured.
	registry  *prom.Registry
	linter    *lint.Linter
	publisher *notify.Publisher
	store     *history.Store
	scheduler gocron.Scheduler
}

// New constructs a Watcher with every configured integration wired in.
func New(cfg *config.Config) (*Watcher, error) {
	collector, err := discovery.NewGlobCollector(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Exclude)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:         cfg,
		collector:   collector,
		debounce:    time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		rebuildChan: make(chan struct{}, 1),
	}

	opts := []builder.Option{builder.WithCollector(collector)}
	if cfg.Watch.MetricsAddr != "" {
		w.registry = prom.NewRegistry()
		recorder := metrics.NewPrometheusRecorder(w.registry)
		opts = append(opts, builder.WithRecorder(recorder))
		// With metrics on, every rebuild also refreshes lint_issues_total.
		w.linter, err = lint.New(cfg, lint.WithCollector(collector), lint.WithRecorder(recorder))
		if err != nil {
			return nil, err
		}
	}
	w.builder, err = builder.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Watch.HistoryDB != "" {
		w.store, err = history.Open(cfg.Watch.HistoryDB)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Watch.Nats.URL != "" {
		w.publisher, err = notify.NewPublisher(cfg.Watch.Nats.URL, cfg.Watch.Nats.Subject)
		if err != nil {
			w.closeIntegrations()
			return nil, err
		}
	}

	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		w.closeIntegrations()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return w, nil
}

// Run blocks until the context is cancelled. The initial build failing is
// logged, not fatal: the watcher stays up and rebuilds on the next change.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.addWatchesRecursive(w.cfg.Sources.Root); err != nil {
		return err
	}
	slog.Info("Watching for changes",
		logfields.Path(w.cfg.Sources.Root),
		logfields.DurationMS(float64(w.debounce.Milliseconds())))

	if w.cfg.Watch.MetricsAddr != "" {
		w.serveMetrics(ctx)
	}
	if w.cfg.Watch.RebuildInterval != "" {
		if err := w.startScheduler(); err != nil {
			return err
		}
	}

	w.rebuild(ctx)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down watcher")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			// Restart the single debounce timer; a burst of events
			// coalesces into one rebuild.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, w.triggerRebuild)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))

		case <-w.rebuildChan:
			w.rebuild(ctx)
		}
	}
}

// handleEvent reports whether the event should schedule a rebuild. Newly
// created directories are added to the watch set as a side effect.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.cfg.Sources.Root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "..") {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.watcher.Add(event.Name); err != nil {
					slog.Warn("Cannot watch new directory",
						logfields.Path(event.Name),
						logfields.Error(err))
				}
			}
			return false
		}
	}

	// A removed or renamed directory takes its corpus files with it, but the
	// event names the directory itself, which no include pattern matches.
	// The entry is gone so it cannot be stat'ed; no extension is the cue.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 &&
		path.Ext(rel) == "" &&
		!strings.HasPrefix(path.Base(rel), ".") {
		slog.Debug("Directory removed, scheduling rebuild", logfields.Path(rel))
		return true
	}

	if !w.collector.Matches(rel) {
		return false
	}
	slog.Debug("Source change detected",
		logfields.File(rel),
		slog.String("op", event.Op.String()))
	return true
}

// triggerRebuild requests a rebuild; a pending request is never duplicated.
func (w *Watcher) triggerRebuild() {
	select {
	case w.rebuildChan <- struct{}{}:
	default:
	}
}

// rebuild runs one build. Failures are logged and reported to the configured
// integrations; they never stop the watch loop.
func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	result, err := w.builder.Build()
	if err != nil {
		slog.Error("Build failed, watching continues", logfields.Error(err))
		w.report(ctx, nil, time.Since(start), err)
		w.lintCorpus()
		return
	}
	w.report(ctx, result, result.BuildTime, nil)
	w.lintCorpus()
}

// lintCorpus runs the lint pass that feeds lint_issues_total. Only active
// when metrics are configured; failures never disturb the watch loop.
func (w *Watcher) lintCorpus() {
	if w.linter == nil {
		return
	}
	result, err := w.linter.Lint()
	if err != nil {
		slog.Warn("Lint pass failed", logfields.Error(err))
		return
	}
	slog.Debug("Lint pass completed",
		slog.Int("files", result.FilesTotal),
		slog.Int("issues", len(result.Issues)))
}

func (w *Watcher) report(ctx context.Context, result *builder.BuildResult, elapsed time.Duration, buildErr error) {
	event := notify.BuildEvent{
		Timestamp:  time.Now(),
		Success:    buildErr == nil,
		DurationMS: elapsed.Milliseconds(),
	}
	record := history.BuildRecord{
		Timestamp:  event.Timestamp,
		Success:    buildErr == nil,
		DurationMS: elapsed.Milliseconds(),
	}
	if result != nil {
		event.BuildID = result.BuildID
		event.FileCount = result.FileCount
		event.TotalSize = result.TotalSize
		event.TokenCount = result.TokenCount
		event.OutputPath = result.OutputPath

		record.BuildID = result.BuildID
		record.FileCount = result.FileCount
		record.TotalSize = result.TotalSize
		record.TokenCount = result.TokenCount
		record.OutputPath = result.OutputPath
	}
	if buildErr != nil {
		event.Error = buildErr.Error()
		record.Error = buildErr.Error()
	}

	if w.publisher != nil {
		if err := w.publisher.PublishBuild(event); err != nil {
			slog.Warn("Cannot publish build event", logfields.Error(err))
		}
	}
	if w.store != nil {
		if err := w.store.Append(ctx, record); err != nil {
			slog.Warn("Cannot record build history", logfields.Error(err))
		}
	}
}

// startScheduler wires the optional periodic full rebuild.
func (w *Watcher) startScheduler() error {
	interval, err := time.ParseDuration(w.cfg.Watch.RebuildInterval)
	if err != nil {
		return fmt.Errorf("invalid rebuild interval %q: %w", w.cfg.Watch.RebuildInterval, err)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(w.triggerRebuild),
		gocron.WithName("scheduled-rebuild"),
	); err != nil {
		return fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}

	w.scheduler = s
	s.Start()
	slog.Info("Scheduled periodic rebuilds", slog.Duration("interval", interval))
	return nil
}

// serveMetrics exposes the Prometheus registry until the context is done.
func (w *Watcher) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(w.registry))
	srv := &http.Server{Addr: w.cfg.Watch.MetricsAddr, Handler: mux}

	go func() {
		slog.Info("Serving metrics", slog.String("addr", w.cfg.Watch.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// addWatchesRecursive registers the root and every non-hidden subdirectory.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) close() {
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
	if w.scheduler != nil {
		_ = w.scheduler.Shutdown()
	}
	w.closeIntegrations()
}

func (w *Watcher) closeIntegrations() {
	if w.publisher != nil {
		_ = w.publisher.Close()
	}
	if w.store != nil {
		_ = w.store.Close()
	}
}
