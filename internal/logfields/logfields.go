package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyRule       = "rule"
	KeyStage      = "stage"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyOutput     = "output"
	KeyTokens     = "tokens"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Output(path string) slog.Attr    { return slog.String(KeyOutput, path) }
func Tokens(n int) slog.Attr          { return slog.Int(KeyTokens, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
