package notice

import (
	"context"
	"log/slog"
	"time"

	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
	"github.com/dongkyukim1/myhouse-sub000/internal/model"
	"github.com/dongkyukim1/myhouse-sub000/internal/scrape"
)

// ResponseCache 는 집계 결과의 단기 캐시를 정의한다.
// 캐시 실패는 호출자에 전파되지 않는다: Get 실패는 미스로,
// Set 실패는 무시로 처리된다 (구현체 책임).
type ResponseCache interface {
	// Get 은 캐시된 공고 목록을 반환한다. 미스 또는 에러 시 ok=false.
	Get(ctx context.Context) (notices []model.Notice, ok bool)
	// Set 은 공고 목록을 캐시에 저장한다. 실패해도 에러를 반환하지 않는다.
	Set(ctx context.Context, notices []model.Notice)
}

// Collector 는 소스 1곳의 공고 수집 기능을 정의한다.
type Collector interface {
	CollectStatic(ctx context.Context, cfg scrape.SourceConfig) []model.Notice
	CollectRendered(ctx context.Context, cfg scrape.SourceConfig, renderer scrape.Renderer) []model.Notice
}

// Service 는 공고 수집·집계의 전체 흐름을 조율한다.
// 요청마다 신선하게 수집하되, 응답 캐시가 유효하면 수집을 건너뛴다.
type Service struct {
	collector Collector
	renderer  scrape.Renderer // nil 이면 브라우저 티어 비활성
	cache     ResponseCache
	metrics   metrics.MetricsCollector
	lhSource  scrape.SourceConfig
	shSource  scrape.SourceConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
// renderer 가 nil 이면 헤드리스 브라우저 티어를 시도하지 않는다.
func NewService(collector Collector, renderer scrape.Renderer, cache ResponseCache, mc metrics.MetricsCollector, lhSource, shSource scrape.SourceConfig, logger *slog.Logger) *Service {
	return &Service{
		collector: collector,
		renderer:  renderer,
		cache:     cache,
		metrics:   mc,
		lhSource:  lhSource,
		shSource:  shSource,
		logger:    logger,
		now:       time.Now,
	}
}

// GetNotices 는 최종 공고 목록을 반환한다.
// 어떤 수집 실패도 에러가 되지 않는다: 전 소스가 실패해도
// 합성 백필과 빈 목록으로 응답 가능한 결과를 만든다.
func (s *Service) GetNotices(ctx context.Context) []model.Notice {
	if cached, ok := s.cache.Get(ctx); ok {
		s.metrics.RecordCacheHit("notices")
		s.logger.Debug("notice response cache hit", slog.Int("count", len(cached)))
		return cached
	}
	s.metrics.RecordCacheMiss("notices")

	lh := s.collectStatic(ctx, s.lhSource)
	sh := s.collectStatic(ctx, s.shSource)

	// 정적 티어가 양 소스 모두 0건일 때만 브라우저 티어를 기동한다
	if len(lh)+len(sh) == 0 && s.renderer != nil {
		s.logger.Info("static tier yielded nothing, escalating to browser tier")
		lh = s.collectRendered(ctx, s.lhSource)
		sh = s.collectRendered(ctx, s.shSource)
	}

	beforeBackfill := len(sh)
	sh = BackfillSH(sh, s.now())
	if added := len(sh) - beforeBackfill; added > 0 {
		s.metrics.RecordSyntheticBackfill(added)
	}

	result := Aggregate(lh, sh, s.lhSource.SearchURL, s.shSource.SearchURL)

	s.logger.Info("notices aggregated",
		slog.Int("lh", countBySource(result, model.NoticeSourceLH)),
		slog.Int("sh", countBySource(result, model.NoticeSourceSH)),
	)

	s.cache.Set(ctx, result)
	return result
}

func (s *Service) collectStatic(ctx context.Context, cfg scrape.SourceConfig) []model.Notice {
	start := time.Now()
	notices := s.collector.CollectStatic(ctx, cfg)
	s.metrics.RecordScrapeLatency(string(cfg.Source), time.Since(start))

	if len(notices) > 0 {
		s.metrics.RecordScrapeSuccess(string(cfg.Source), "static")
	} else {
		s.metrics.RecordScrapeFailure(string(cfg.Source), "static")
	}
	return notices
}

func (s *Service) collectRendered(ctx context.Context, cfg scrape.SourceConfig) []model.Notice {
	notices := s.collector.CollectRendered(ctx, cfg, s.renderer)

	if len(notices) > 0 {
		s.metrics.RecordScrapeSuccess(string(cfg.Source), "browser")
	} else {
		s.metrics.RecordScrapeFailure(string(cfg.Source), "browser")
	}
	return notices
}

func countBySource(notices []model.Notice, source model.NoticeSource) int {
	n := 0
	for _, item := range notices {
		if item.Source == source {
			n++
		}
	}
	return n
}
