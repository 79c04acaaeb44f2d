package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyPath         = "path"
	KeyOutput       = "output"
	KeyState        = "state"
	KeyPattern      = "pattern"
	KeyOp           = "op"
	KeyFileCount    = "file_count"
	KeyChangedCount = "changed_count"
	KeyFailedCount  = "failed_count"
	KeyDurationMS   = "duration_ms"
	KeyCategory     = "category"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func FileCount(n int) slog.Attr       { return slog.Int(KeyFileCount, n) }
func ChangedCount(n int) slog.Attr    { return slog.Int(KeyChangedCount, n) }
func FailedCount(n int) slog.Attr     { return slog.Int(KeyFailedCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
