package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
	"github.com/dongkyukim1/myhouse-sub000/internal/security"
)

// Pipeline 은 소스 1곳에 대한 수집 파이프라인을 수행한다.
// 후보 URL 을 순서대로 시도하고, URL 마다 선택자 전략을 우선순위 순으로
// 적용하며, 전략이 전부 비면 앵커 스캔으로 폴백한다.
// 어떤 단계의 실패도 에러로 전파하지 않는다: 로그를 남기고 다음 후보로
// 넘어가며, 전부 실패하면 빈 결과를 반환한다.
type Pipeline struct {
	fetcher   *StaticFetcher
	sanitizer security.TextSanitizerService
	logger    *slog.Logger
}

// NewPipeline 은 Pipeline 의 새 인스턴스를 생성한다.
func NewPipeline(fetcher *StaticFetcher, sanitizer security.TextSanitizerService, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// CollectStatic 은 정적 페치 티어로 소스의 공고를 수집한다.
// 첫 번째로 비어 있지 않은 결과를 낸 후보 URL 에서 중단한다.
func (p *Pipeline) CollectStatic(ctx context.Context, cfg SourceConfig) []model.Notice {
	for _, candidate := range cfg.CandidateURLs {
		doc, body, err := p.fetcher.Document(ctx, candidate, cfg.LegacyEncoding)
		if err != nil {
			p.logger.Warn("static fetch failed, trying next candidate",
				slog.String("source", string(cfg.Source)),
				slog.String("url", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}

		notices := p.extract(doc, body, candidate, cfg)
		if len(notices) > 0 {
			p.logger.Info("static scrape succeeded",
				slog.String("source", string(cfg.Source)),
				slog.String("url", candidate),
				slog.Int("count", len(notices)),
			)
			return notices
		}

		p.logger.Warn("no rows extracted, trying next candidate",
			slog.String("source", string(cfg.Source)),
			slog.String("url", candidate),
		)
	}

	return nil
}

// CollectRendered 는 헤드리스 브라우저 티어로 소스의 공고를 수집한다.
// 렌더링된 DOM 에 정적 티어와 동일한 전략 체인을 적용한다.
func (p *Pipeline) CollectRendered(ctx context.Context, cfg SourceConfig, renderer Renderer) []model.Notice {
	for _, candidate := range cfg.CandidateURLs {
		rendered, err := renderer.RenderHTML(ctx, candidate)
		if err != nil {
			p.logger.Warn("browser render failed, trying next candidate",
				slog.String("source", string(cfg.Source)),
				slog.String("url", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}

		body := []byte(rendered)
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			p.logger.Warn("rendered HTML parse failed",
				slog.String("source", string(cfg.Source)),
				slog.String("url", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}

		notices := p.extract(doc, body, candidate, cfg)
		if len(notices) > 0 {
			p.logger.Info("browser scrape succeeded",
				slog.String("source", string(cfg.Source)),
				slog.String("url", candidate),
				slog.Int("count", len(notices)),
			)
			return notices
		}
	}

	return nil
}

// extract 는 전략 체인으로 행을 추출해 Notice 로 변환한다.
// 모든 전략이 빈 결과를 내면 앵커 스캔으로 폴백한다.
func (p *Pipeline) extract(doc *goquery.Document, body []byte, pageURL string, cfg SourceConfig) []model.Notice {
	for _, strategy := range cfg.Strategies {
		rows := strategy.Extract(doc)
		if len(rows) == 0 {
			continue
		}

		p.logger.Debug("strategy matched",
			slog.String("source", string(cfg.Source)),
			slog.String("strategy", strategy.Name),
			slog.Int("rows", len(rows)),
		)
		return p.buildNotices(rows, pageURL, cfg)
	}

	// 표 기반 전략 전멸: 문서 전체 앵커 스캔
	rows := ScanAnchors(body, pageURL)
	if len(rows) == 0 {
		return nil
	}

	p.logger.Debug("anchor scan fallback matched",
		slog.String("source", string(cfg.Source)),
		slog.Int("rows", len(rows)),
	)
	return p.buildNotices(rows, pageURL, cfg)
}

// buildNotices 는 원시 행을 Notice 로 변환한다.
// 제목은 정제를 거치며, 상대 href 는 페이지 URL 기준 절대 URL 로 해석한다.
func (p *Pipeline) buildNotices(rows []RawRow, pageURL string, cfg SourceConfig) []model.Notice {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	notices := make([]model.Notice, 0, len(rows))
	for _, row := range rows {
		title := p.sanitizer.SanitizeText(row.Title)
		if title == "" {
			continue
		}

		href := row.Href
		if base != nil && href != "" {
			href = resolveHref(base, href)
		}

		region, due, regDate := FieldsFromRow(row)

		notices = append(notices, model.Notice{
			Source:  cfg.Source,
			Title:   title,
			Href:    href,
			Region:  region,
			Due:     due,
			Dept:    cfg.DefaultDept,
			RegDate: regDate,
		})
	}

	return notices
}
