// Package builder orchestrates one build run: collect the source snapshot,
// parse documents, sort, transform, combine and write the output artifact.
package builder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdcombine/internal/combine"
	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/discovery"
	"git.home.luguber.info/inful/mdcombine/internal/document"
	cerrors "git.home.luguber.info/inful/mdcombine/internal/errors"
	"git.home.luguber.info/inful/mdcombine/internal/graph"
	"git.home.luguber.info/inful/mdcombine/internal/logfields"
	"git.home.luguber.info/inful/mdcombine/internal/metrics"
	"git.home.luguber.info/inful/mdcombine/internal/pipeline"
)

// BuildResult summarizes one completed build. Read-only after creation.
type BuildResult struct {
	BuildID     string        `json:"build_id"`
	FileCount   int           `json:"file_count"`
	TotalSize   int64         `json:"total_size"`
	BuildTime   time.Duration `json:"build_time"`
	OutputPath  string        `json:"output_path"`
	TokenCount  int           `json:"token_count"`
	SourceFiles []string      `json:"source_files"`
}

// Builder runs builds over a fixed configuration. One Builder owns its output
// path; a run operates on its own snapshot and needs no cross-process locking.
type Builder struct {
	cfg       *config.Config
	collector discovery.Collector
	estimator Estimator
	recorder  metrics.Recorder
	pipe      *pipeline.Pipeline
}

// Option customizes a Builder.
type Option func(*Builder)

// WithCollector injects a custom source collector.
func WithCollector(c discovery.Collector) Option {
	return func(b *Builder) { b.collector = c }
}

// WithEstimator injects a custom token estimator.
func WithEstimator(e Estimator) Option {
	return func(b *Builder) { b.estimator = e }
}

// WithRecorder injects a metrics sink.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// New constructs a Builder. The enabled optimization stages are materialized
// once, here, from the configuration.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg:       cfg,
		estimator: HeuristicEstimator{},
	}
	b.pipe = pipeline.New(pipeline.Options{
		StripHeadingNumbers: cfg.Optimize.StripHeadingNumbers,
		StripSectionMeta:    cfg.Optimize.StripSectionMeta,
		NormalizeHeadings:   cfg.Optimize.NormalizeHeadings,
		HeadingSeparator:    cfg.Optimize.HeadingSeparator,
		RemoveComments:      cfg.Optimize.RemoveComments,
		RemoveBadges:        cfg.Optimize.RemoveBadges,
		RemoveDuplicates:    cfg.Optimize.RemoveDuplicates,
		RemoveInternalLinks: cfg.Optimize.RemoveInternalLinks,
		NormalizeWhitespace: cfg.Optimize.NormalizeWhitespace,
	})

	for _, opt := range opts {
		opt(b)
	}

	if b.collector == nil {
		c, err := discovery.NewGlobCollector(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Exclude)
		if err != nil {
			return nil, err
		}
		b.collector = c
	}
	if b.recorder != nil {
		b.pipe.SetObserver(func(stage string, d time.Duration) {
			b.recorder.ObserveStageDuration(stage, d)
		})
	}
	return b, nil
}

// Build performs one full build and writes the combined output.
//
// Zero matching source files is fatal and aborts before any output is
// written. Malformed frontmatter is recorded on the document and the run
// continues.
func (b *Builder) Build() (*BuildResult, error) {
	buildID := uuid.NewString()
	start := time.Now()

	result, err := b.build(buildID)
	elapsed := time.Since(start)
	if b.recorder != nil {
		b.recorder.ObserveBuildDuration(elapsed)
		if err != nil {
			b.recorder.IncBuildOutcome(metrics.ResultFailed)
		} else {
			b.recorder.IncBuildOutcome(metrics.ResultSuccess)
		}
	}
	if err != nil {
		return nil, err
	}

	result.BuildTime = elapsed
	slog.Info("Build completed",
		logfields.BuildID(buildID),
		logfields.Files(result.FileCount),
		logfields.Output(result.OutputPath),
		logfields.Tokens(result.TokenCount),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return result, nil
}

func (b *Builder) build(buildID string) (*BuildResult, error) {
	paths, err := b.collector.Collect()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, cerrors.BuildError("no source files matched the include patterns")
	}

	docs, err := b.loadDocuments(buildID, paths)
	if err != nil {
		return nil, err
	}

	sorted := b.sortDocuments(docs)

	for _, doc := range sorted {
		transformed, err := b.pipe.Apply(doc.Content)
		if err != nil {
			return nil, err
		}
		// Functional replacement: content is swapped wholesale, then the
		// outline is re-extracted so the TOC matches the final text.
		doc.Content = transformed
		doc.Sections = document.ExtractSections(transformed)
	}

	body := combine.Combine(sorted, b.cfg.Output.Separator)

	var toc string
	if b.cfg.Toc.Enabled {
		toc = combine.GenerateToc(sorted, combine.TocOptions{
			Enabled:  true,
			MaxDepth: b.cfg.Toc.MaxDepth,
			Title:    b.cfg.Toc.Title,
		})
	}

	output := combine.Assemble(toc, body, b.cfg.Output.Separator)
	output = b.pipe.PostCombine(output)

	if err := b.writeOutput(output); err != nil {
		return nil, err
	}

	return &BuildResult{
		BuildID:     buildID,
		FileCount:   len(paths),
		TotalSize:   int64(len(output)),
		OutputPath:  b.cfg.Output.Path,
		TokenCount:  b.estimator.Estimate(output),
		SourceFiles: paths,
	}, nil
}

func (b *Builder) loadDocuments(buildID string, paths []string) ([]*document.Document, error) {
	docs := make([]*document.Document, 0, len(paths))
	for _, rel := range paths {
		full := filepath.Join(b.cfg.Sources.Root, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
				fmt.Sprintf("cannot read source file %s", rel))
		}

		raw := string(data)
		fm := document.ParseFrontmatter(raw)
		if fm.ParseError != nil {
			slog.Warn("Malformed frontmatter, continuing with body only",
				logfields.BuildID(buildID),
				logfields.File(rel),
				logfields.Error(fm.ParseError))
		}

		content := fm.Content
		if !b.cfg.Output.StripFrontmatterEnabled() {
			content = raw
		}

		docs = append(docs, &document.Document{
			Path:        rel,
			Frontmatter: fm.Data,
			ParseError:  fm.ParseError,
			Content:     content,
			Raw:         raw,
			Sections:    document.ExtractSections(fm.Content),
		})
	}
	return docs, nil
}

func (b *Builder) sortDocuments(docs []*document.Document) []*document.Document {
	if b.cfg.Sort.Mode == config.SortModeCustom {
		groups := make([]graph.Group, 0, len(b.cfg.Sort.Groups))
		for _, p := range b.cfg.Sort.Groups {
			groups = append(groups, graph.Group{Pattern: p})
		}
		return graph.SortCustom(docs, groups)
	}
	return graph.SortLexicographic(docs)
}

func (b *Builder) writeOutput(output string) error {
	outPath := b.cfg.Output.Path
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
				fmt.Sprintf("cannot create output directory %s", dir))
		}
	}
	if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
			fmt.Sprintf("cannot write output file %s", outPath))
	}
	return nil
}
