package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics. Activate
// it by constructing one and injecting it wherever a Recorder is accepted;
// everything defaults to NoopRecorder until then.
type PrometheusRecorder struct {
	once              sync.Once
	resolveDuration   *prom.HistogramVec
	downloadDuration  *prom.HistogramVec
	downloadBytes     *prom.CounterVec
	cacheResults      *prom.CounterVec
	downloadResults   *prom.CounterVec
	integrityFailures *prom.CounterVec
	installerRuns     *prom.CounterVec
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
	retries           *prom.CounterVec
	retriesExhausted  *prom.CounterVec
	addonConcurrency  prom.Gauge
	rateLimitWaits    *prom.CounterVec
}

// NewPrometheusRecorder constructs a fresh set of Prometheus metrics and
// registers them with reg (a new registry when reg is nil). Calling it twice
// with the same registry panics, as MustRegister does for duplicates.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.resolveDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mcman", Name: "resolve_duration_seconds",
			Help: "Duration of addon/jar resolution calls by upstream", Buckets: prom.DefBuckets,
		}, []string{"upstream"})
		pr.downloadDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mcman", Name: "download_duration_seconds",
			Help: "Duration of artifact downloads by upstream", Buckets: prom.DefBuckets,
		}, []string{"upstream"})
		pr.downloadBytes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "download_bytes_total", Help: "Bytes downloaded by upstream",
		}, []string{"upstream"})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "cache_results_total", Help: "Cache hit/miss counts",
		}, []string{"result"})
		pr.downloadResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "download_results_total", Help: "Download results by upstream",
		}, []string{"upstream", "result"})
		pr.integrityFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "integrity_failures_total", Help: "Hash/size verification failures",
		}, []string{"kind"})
		pr.installerRuns = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "installer_runs_total", Help: "ExecuteJava installer runs by label",
		}, []string{"label", "result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mcman", Name: "build_duration_seconds", Help: "Total build duration", Buckets: prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "build_outcomes_total", Help: "Build outcomes by final status",
		}, []string{"outcome"})
		pr.retries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "retries_total", Help: "Retries by stage",
		}, []string{"stage"})
		pr.retriesExhausted = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "retry_exhausted_total", Help: "Stages where the retry budget was exhausted",
		}, []string{"stage"})
		pr.addonConcurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: "mcman", Name: "addon_concurrency", Help: "Addon resolution concurrency for the last build",
		})
		pr.rateLimitWaits = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcman", Name: "rate_limit_waits_total", Help: "Times an upstream client blocked on its rate limit",
		}, []string{"upstream"})
		reg.MustRegister(pr.resolveDuration, pr.downloadDuration, pr.downloadBytes, pr.cacheResults,
			pr.downloadResults, pr.integrityFailures, pr.installerRuns, pr.buildDuration, pr.buildOutcome,
			pr.retries, pr.retriesExhausted, pr.addonConcurrency, pr.rateLimitWaits)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveResolveDuration(upstream string, d time.Duration) {
	p.resolveDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveDownloadDuration(upstream string, d time.Duration, bytes int64) {
	p.downloadDuration.WithLabelValues(upstream).Observe(d.Seconds())
	p.downloadBytes.WithLabelValues(upstream).Add(float64(bytes))
}

func (p *PrometheusRecorder) IncCacheResult(hit bool) {
	p.cacheResults.WithLabelValues(resultLabel(hit)).Inc()
}

func (p *PrometheusRecorder) IncDownloadResult(upstream string, success bool) {
	p.downloadResults.WithLabelValues(upstream, successLabel(success)).Inc()
}

func (p *PrometheusRecorder) IncIntegrityFailure(kind string) {
	p.integrityFailures.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncInstallerRun(label string, success bool) {
	p.installerRuns.WithLabelValues(label, successLabel(success)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) { p.buildDuration.Observe(d.Seconds()) }

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) { p.buildOutcome.WithLabelValues(outcome).Inc() }

func (p *PrometheusRecorder) IncRetry(stage string) { p.retries.WithLabelValues(stage).Inc() }

func (p *PrometheusRecorder) IncRetryExhausted(stage string) { p.retriesExhausted.WithLabelValues(stage).Inc() }

func (p *PrometheusRecorder) SetAddonConcurrency(n int) { p.addonConcurrency.Set(float64(n)) }

func (p *PrometheusRecorder) IncRateLimitWait(upstream string) { p.rateLimitWaits.WithLabelValues(upstream).Inc() }

func resultLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func successLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}
