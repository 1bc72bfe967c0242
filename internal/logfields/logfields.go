// Package logfields provides canonical log field names and slog.Attr helpers
// so call sites across mcman-go never hand-roll key strings.
package logfields

import "log/slog"

// Canonical log field name constants.
const (
	KeyNamespace  = "namespace"
	KeyCachePath  = "cache_path"
	KeyAddonID    = "addon_id"
	KeyUpstream   = "upstream"
	KeyURL        = "url"
	KeyFilename   = "filename"
	KeyHashFormat = "hash_format"
	KeyJavaMajor  = "java_major"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyServer     = "server"
	KeyTarget     = "target"
	KeyLabel      = "label"
	KeyExitCode   = "exit_code"
	KeySize       = "size"
	KeyAttempt    = "attempt"
	KeyError      = "error"
	KeyPath       = "path"
)

func Namespace(v string) slog.Attr  { return slog.String(KeyNamespace, v) }
func CachePath(v string) slog.Attr  { return slog.String(KeyCachePath, v) }
func AddonID(v string) slog.Attr    { return slog.String(KeyAddonID, v) }
func Upstream(v string) slog.Attr   { return slog.String(KeyUpstream, v) }
func URL(v string) slog.Attr        { return slog.String(KeyURL, v) }
func Filename(v string) slog.Attr   { return slog.String(KeyFilename, v) }
func HashFormat(v string) slog.Attr { return slog.String(KeyHashFormat, v) }
func JavaMajor(v int) slog.Attr     { return slog.Int(KeyJavaMajor, v) }
func Stage(v string) slog.Attr      { return slog.String(KeyStage, v) }
func DurationMS(v float64) slog.Attr {
	return slog.Float64(KeyDurationMS, v)
}
func Server(v string) slog.Attr   { return slog.String(KeyServer, v) }
func Target(v string) slog.Attr   { return slog.String(KeyTarget, v) }
func Label(v string) slog.Attr    { return slog.String(KeyLabel, v) }
func ExitCode(v int) slog.Attr    { return slog.Int(KeyExitCode, v) }
func Size(v int64) slog.Attr      { return slog.Int64(KeySize, v) }
func Attempt(v int) slog.Attr     { return slog.Int(KeyAttempt, v) }
func Err(v error) slog.Attr       { return slog.String(KeyError, v.Error()) }
func Path(v string) slog.Attr     { return slog.String(KeyPath, v) }
