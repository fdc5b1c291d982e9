// Package pipeline implements the ordered, independently toggleable content
// transform stages applied to each document before combining.
//
// The enabled-stage list is built eagerly at construction time from the
// configured toggles; disabled stages are omitted from execution entirely.
// Every stage is a pure content -> content function that degrades to
// returning its input unchanged on malformed content.
package pipeline

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/mdcombine/internal/errors"
)

// Stage names, in fixed pipeline order.
const (
	StageStripHeadingNumbers = "strip-heading-numbers"
	StageStripSectionMeta    = "strip-section-meta"
	StageNormalizeHeadings   = "normalize-headings"
	StageRemoveComments      = "remove-comments"
	StageRemoveBadges        = "remove-badges"
	StageRemoveDuplicates    = "remove-duplicates"
	StageRemoveInternalLinks = "remove-internal-links"
	StageNormalizeWhitespace = "normalize-whitespace"
)

// DefaultHeadingSeparator joins breadcrumb components in normalize-headings.
const DefaultHeadingSeparator = " > "

// Options holds the per-stage toggles plus stage options.
type Options struct {
	StripHeadingNumbers bool
	StripSectionMeta    bool
	NormalizeHeadings   bool
	HeadingSeparator    string
	RemoveComments      bool
	RemoveBadges        bool
	RemoveDuplicates    bool
	RemoveInternalLinks bool
	NormalizeWhitespace bool
}

// Transformer is one pipeline stage.
type Transformer interface {
	Name() string
	Transform(content string) string
}

// Observer is notified after each stage run; used for metrics.
type Observer func(stage string, d time.Duration)

// Pipeline is the ordered list of enabled stages.
type Pipeline struct {
	stages   []Transformer
	observer Observer
}

// New constructs the pipeline from configuration. The stage order is fixed;
// toggles only control membership.
func New(opts Options) *Pipeline {
	sep := opts.HeadingSeparator
	if sep == "" {
		sep = DefaultHeadingSeparator
	}

	var stages []Transformer
	if opts.StripHeadingNumbers {
		stages = append(stages, &stripHeadingNumbers{})
	}
	if opts.StripSectionMeta {
		stages = append(stages, &stripSectionMeta{})
	}
	if opts.NormalizeHeadings {
		stages = append(stages, &normalizeHeadings{separator: sep})
	}
	if opts.RemoveComments {
		stages = append(stages, &removeComments{})
	}
	if opts.RemoveBadges {
		stages = append(stages, &removeBadges{})
	}
	if opts.RemoveDuplicates {
		stages = append(stages, &removeDuplicates{})
	}
	if opts.RemoveInternalLinks {
		stages = append(stages, &removeInternalLinks{})
	}
	if opts.NormalizeWhitespace {
		stages = append(stages, &normalizeWhitespace{})
	}
	return &Pipeline{stages: stages}
}

// SetObserver installs a per-stage duration callback.
func (p *Pipeline) SetObserver(obs Observer) { p.observer = obs }

// StageNames returns the names of the enabled stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// HasNormalizeWhitespace reports whether the final whitespace post-pass over
// the combined document applies. The double application (per document and
// again over the combined output) is an intentional contract.
func (p *Pipeline) HasNormalizeWhitespace() bool {
	for _, s := range p.stages {
		if s.Name() == StageNormalizeWhitespace {
			return true
		}
	}
	return false
}

// Apply runs all enabled stages over the content in order. A stage panic is
// converted into a build-aborting error; stages never partially apply.
func (p *Pipeline) Apply(content string) (result string, err error) {
	result = content
	for _, stage := range p.stages {
		out, stageErr := p.runStage(stage, result)
		if stageErr != nil {
			return content, stageErr
		}
		result = out
	}
	return result, nil
}

func (p *Pipeline) runStage(stage Transformer, content string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.CategoryBuild, errors.SeverityFatal,
				fmt.Sprintf("optimization stage %q panicked: %v", stage.Name(), r))
		}
	}()

	start := time.Now()
	out = stage.Transform(content)
	if p.observer != nil {
		p.observer(stage.Name(), time.Since(start))
	}
	return out, nil
}

// PostCombine applies the final normalize-whitespace pass over the fully
// combined document when that stage is enabled.
func (p *Pipeline) PostCombine(combined string) string {
	if !p.HasNormalizeWhitespace() {
		return combined
	}
	return NormalizeWhitespace(combined)
}
