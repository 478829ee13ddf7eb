// Package metrics 는 Prometheus 메트릭의 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집 기능의 인터페이스.
// 스크레이핑 파이프라인과 캐시 서비스에서 사용한다.
type MetricsCollector interface {
	RecordScrapeSuccess(source string, tier string)
	RecordScrapeFailure(source string, tier string)
	RecordScrapeLatency(source string, duration time.Duration)
	RecordSyntheticBackfill(count int)
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
	RecordHTTPStatus(statusCode int)
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	scrapeSuccess     *prometheus.CounterVec
	scrapeFail        *prometheus.CounterVec
	scrapeLatency     *prometheus.HistogramVec
	syntheticBackfill prometheus.Counter
	cacheHit          *prometheus.CounterVec
	cacheMiss         *prometheus.CounterVec
	httpStatus        *prometheus.CounterVec
}

// NewCollector 는 새 Collector 를 생성해 지정 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scrapeSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myhouse_scrape_success_total",
			Help: "소스·티어별 스크레이핑 성공 합계",
		}, []string{"source", "tier"}),
		scrapeFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myhouse_scrape_fail_total",
			Help: "소스·티어별 스크레이핑 실패 합계",
		}, []string{"source", "tier"}),
		scrapeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "myhouse_scrape_latency_seconds",
			Help:    "소스별 스크레이핑 레이턴시 (초)",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		syntheticBackfill: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "myhouse_synthetic_backfill_total",
			Help: "합성 백필로 생성된 공고 합계",
		}),
		cacheHit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myhouse_cache_hit_total",
			Help: "엔티티별 캐시 히트 합계",
		}, []string{"entity"}),
		cacheMiss: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myhouse_cache_miss_total",
			Help: "엔티티별 캐시 미스 합계",
		}, []string{"entity"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myhouse_http_status_total",
			Help: "HTTP 상태 코드별 응답 수",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.scrapeSuccess,
		c.scrapeFail,
		c.scrapeLatency,
		c.syntheticBackfill,
		c.cacheHit,
		c.cacheMiss,
		c.httpStatus,
	)

	return c
}

// RecordScrapeSuccess 는 스크레이핑 성공을 기록한다.
func (c *Collector) RecordScrapeSuccess(source string, tier string) {
	c.scrapeSuccess.WithLabelValues(source, tier).Inc()
}

// RecordScrapeFailure 는 스크레이핑 실패를 기록한다.
func (c *Collector) RecordScrapeFailure(source string, tier string) {
	c.scrapeFail.WithLabelValues(source, tier).Inc()
}

// RecordScrapeLatency 는 스크레이핑 레이턴시를 기록한다.
func (c *Collector) RecordScrapeLatency(source string, duration time.Duration) {
	c.scrapeLatency.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordSyntheticBackfill 은 합성 백필 건수를 기록한다.
func (c *Collector) RecordSyntheticBackfill(count int) {
	c.syntheticBackfill.Add(float64(count))
}

// RecordCacheHit 은 캐시 히트를 기록한다.
func (c *Collector) RecordCacheHit(entity string) {
	c.cacheHit.WithLabelValues(entity).Inc()
}

// RecordCacheMiss 는 캐시 미스를 기록한다.
func (c *Collector) RecordCacheMiss(entity string) {
	c.cacheMiss.WithLabelValues(entity).Inc()
}

// RecordHTTPStatus 는 HTTP 상태 코드를 기록한다.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute 는 /metrics 엔드포인트를 제공하는 HTTP 핸들러를 반환한다.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
