package lint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter renders a lint result for output.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// NewFormatter creates the appropriate formatter for the format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter renders results as human-readable text, one issue per line,
// in the order they were found.
type TextFormatter struct{}

// Format outputs results in text format.
func (f *TextFormatter) Format(w io.Writer, result *Result) error {
	for _, issue := range result.Issues {
		location := issue.FilePath
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.FilePath, issue.Line)
		}
		if _, err := fmt.Fprintf(w, "%-7s %-30s %s (%s)\n",
			issue.Severity, location, issue.Message, issue.Rule); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%d files scanned, %d errors, %d warnings, %d info\n",
		result.FilesTotal,
		result.CountBySeverity(SeverityError),
		result.CountBySeverity(SeverityWarning),
		result.CountBySeverity(SeverityInfo)); err != nil {
		return err
	}
	return nil
}

// JSONFormatter renders results as a single JSON document.
type JSONFormatter struct{}

// jsonOutput is the stable JSON report shape.
type jsonOutput struct {
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []jsonIssue `json:"issues"`
}

type jsonIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Rule     string `json:"rule"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	out := jsonOutput{
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.CountBySeverity(SeverityError),
		WarningCount: result.CountBySeverity(SeverityWarning),
		InfoCount:    result.CountBySeverity(SeverityInfo),
		Issues:       make([]jsonIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, jsonIssue{
			Severity: issue.Severity.String(),
			Message:  issue.Message,
			File:     issue.FilePath,
			Line:     issue.Line,
			Rule:     issue.Rule,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
