package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdcombine/internal/builder"
	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/lint"
	"git.home.luguber.info/inful/mdcombine/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"mdcombine.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Override the configured output path"`
	} `cmd:"" help:"Combine the corpus into a single Markdown file"`

	Lint struct {
		Format string `help:"Output format (text, json)" default:"text" enum:"text,json"`
		Quiet  bool   `short:"q" help:"Only report warnings and errors"`
	} `cmd:"" help:"Lint the corpus and report style issues"`

	Fix struct {
		DryRun bool `help:"Report what would change without writing"`
	} `cmd:"" help:"Apply the safe automatic fixes (trailing whitespace, blank runs)"`

	Watch struct {
		Output string `short:"o" help:"Override the configured output path"`
	} `cmd:"" help:"Build once, then rebuild on source changes until interrupted"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a starter configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		cfg := loadConfig()
		if CLI.Build.Output != "" {
			cfg.Output.Path = CLI.Build.Output
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "lint":
		cfg := loadConfig()
		if err := runLint(cfg, CLI.Lint.Format, CLI.Lint.Quiet); err != nil {
			slog.Error("Lint failed", "error", err)
			os.Exit(1)
		}
	case "fix":
		cfg := loadConfig()
		if err := runFix(cfg, CLI.Fix.DryRun); err != nil {
			slog.Error("Fix failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		cfg := loadConfig()
		if CLI.Watch.Output != "" {
			cfg.Output.Path = CLI.Watch.Output
		}
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func runBuild(cfg *config.Config) error {
	b, err := builder.New(cfg)
	if err != nil {
		return err
	}
	_, err = b.Build()
	return err
}

func runLint(cfg *config.Config, format string, quiet bool) error {
	l, err := lint.New(cfg)
	if err != nil {
		return err
	}
	result, err := l.Lint()
	if err != nil {
		return err
	}

	if quiet {
		filtered := result.Issues[:0]
		for _, issue := range result.Issues {
			if issue.Severity != lint.SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
	}

	if err := lint.NewFormatter(format).Format(os.Stdout, result); err != nil {
		return err
	}
	// Exit-code policy lives here, not in the lint engine: warnings and
	// errors fail the command, info does not.
	if result.HasErrors() || result.HasWarnings() {
		os.Exit(1)
	}
	return nil
}

func runFix(cfg *config.Config, dryRun bool) error {
	f, err := lint.NewFixer(cfg, dryRun)
	if err != nil {
		return err
	}
	result, err := f.Fix()
	if err != nil {
		return err
	}

	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	for _, file := range result.FilesChanged {
		fmt.Printf("%s %s\n", verb, file)
	}
	slog.Info("Fix completed",
		"files_scanned", result.FilesScanned,
		"files_changed", len(result.FilesChanged),
		"dry_run", dryRun)
	return nil
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, err := watch.New(cfg)
	if err != nil {
		return err
	}
	slog.Info("Watch mode started, waiting for changes (Ctrl-C to stop)")
	return w.Run(ctx)
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", "path", configPath, "force", force)
	return config.Init(configPath, force)
}
