package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/discovery"
	"git.home.luguber.info/inful/mdcombine/internal/document"
	cerrors "git.home.luguber.info/inful/mdcombine/internal/errors"
)

// Fixer applies the two safe automatic fixes: trimming trailing whitespace
// and collapsing runs of three or more blank lines down to two. Nothing else
// is touched; in particular the frontmatter block is rewritten byte-identical
// and files are never renamed.
type Fixer struct {
	cfg       *config.Config
	collector discovery.Collector
	dryRun    bool
}

// FixResult reports what one fix pass did (or, in dry-run mode, would do).
type FixResult struct {
	FilesScanned int
	FilesChanged []string
}

// NewFixer constructs a Fixer over the configured corpus.
func NewFixer(cfg *config.Config, dryRun bool) (*Fixer, error) {
	c, err := discovery.NewGlobCollector(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Exclude)
	if err != nil {
		return nil, err
	}
	return &Fixer{cfg: cfg, collector: c, dryRun: dryRun}, nil
}

// Fix runs the fix pass over every corpus file. The pass is idempotent: a
// second run over its own output changes nothing.
func (f *Fixer) Fix() (*FixResult, error) {
	paths, err := f.collector.Collect()
	if err != nil {
		return nil, err
	}

	result := &FixResult{}
	for _, rel := range paths {
		full := filepath.Join(f.cfg.Sources.Root, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			return result, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
				fmt.Sprintf("cannot read %s", rel))
		}
		result.FilesScanned++

		fixed := FixContent(string(data))
		if fixed == string(data) {
			continue
		}
		result.FilesChanged = append(result.FilesChanged, rel)
		if f.dryRun {
			continue
		}
		if err := os.WriteFile(full, []byte(fixed), 0o644); err != nil {
			return result, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
				fmt.Sprintf("cannot write %s", rel))
		}
	}
	return result, nil
}

// FixContent returns the fixed form of one file's content. The leading
// frontmatter block passes through untouched; in the body, trailing
// whitespace is trimmed on every line and blank runs outside fenced code
// blocks are capped at two lines.
func FixContent(content string) string {
	head, body := splitFrontmatterRaw(content)
	return head + fixBody(body)
}

// splitFrontmatterRaw splits off the verbatim frontmatter block, including
// both delimiter lines, using the same detection rules as the parser: the
// block must start at byte zero and must be closed.
func splitFrontmatterRaw(content string) (head, body string) {
	nl := "\n"
	if strings.Contains(content, "\r\n") {
		nl = "\r\n"
	}
	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return "", content
	}
	rest := content[len(open):]
	if strings.HasPrefix(rest, "---"+nl) {
		cut := len(open) + len("---"+nl)
		return content[:cut], content[cut:]
	}
	if rest == "---" {
		return content, ""
	}
	closeSeq := nl + "---" + nl
	if idx := strings.Index(rest, closeSeq); idx >= 0 {
		cut := len(open) + idx + len(closeSeq)
		return content[:cut], content[cut:]
	}
	if strings.HasSuffix(rest, nl+"---") {
		return content, ""
	}
	return "", content
}

func fixBody(body string) string {
	if body == "" {
		return body
	}
	lines := strings.Split(body, "\n")

	var code document.CodeBlockTracker
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		code.ProcessLine(line)
		fixed := trimTrailing(line)
		if strings.TrimSpace(fixed) == "" && !code.InCodeBlock() {
			blankRun++
			if blankRun > 2 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, fixed)
	}
	return strings.Join(out, "\n")
}

// trimTrailing strips spaces and tabs from the end of the line while leaving
// a CRLF line's carriage return in place.
func trimTrailing(line string) string {
	if strings.HasSuffix(line, "\r") {
		return strings.TrimRight(strings.TrimSuffix(line, "\r"), " \t") + "\r"
	}
	return strings.TrimRight(line, " \t")
}
