// Package metrics provides an observability framework for mcman-go's build
// pipeline, using the Null Object pattern so components never nil-check a
// recorder.
package metrics

import "time"

// Recorder defines observability hooks for the resolution/download/build
// pipeline. All methods must be safe to call on a zero-value NoopRecorder.
type Recorder interface {
	ObserveResolveDuration(upstream string, d time.Duration)
	ObserveDownloadDuration(upstream string, d time.Duration, bytes int64)
	IncCacheResult(hit bool)
	IncDownloadResult(upstream string, success bool)
	IncIntegrityFailure(kind string) // "hash" | "size"
	IncInstallerRun(label string, success bool)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // success|warning|failed|canceled
	IncRetry(stage string)
	IncRetryExhausted(stage string)
	SetAddonConcurrency(n int)
	IncRateLimitWait(upstream string)
}

// NoopRecorder implements Recorder with no-op methods (zero overhead); the
// default everywhere metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(string, time.Duration)     {}
func (NoopRecorder) ObserveDownloadDuration(string, time.Duration, int64) {}
func (NoopRecorder) IncCacheResult(bool)                              {}
func (NoopRecorder) IncDownloadResult(string, bool)                   {}
func (NoopRecorder) IncIntegrityFailure(string)                       {}
func (NoopRecorder) IncInstallerRun(string, bool)                     {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncBuildOutcome(string)                           {}
func (NoopRecorder) IncRetry(string)                                  {}
func (NoopRecorder) IncRetryExhausted(string)                         {}
func (NoopRecorder) SetAddonConcurrency(int)                          {}
func (NoopRecorder) IncRateLimitWait(string)                          {}
