// Package cache 는 Redis 기반의 단기 응답 캐시를 제공한다.
// Redis 는 선택 구성이다: 클라이언트가 nil 이면 모든 연산이 no-op 이 되어
// 요청마다 신선하게 수집하는 기본 동작이 유지된다.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// noticeCacheKey 는 집계 결과를 저장하는 Redis 키.
const noticeCacheKey = "notices:latest"

// NoticeCache 는 공고 집계 결과의 Redis 캐시.
// 캐시 계층의 실패는 기능 실패가 아니다: Get 에러는 미스로,
// Set 에러는 로그 후 무시로 처리되어 호출자에 전파되지 않는다.
type NoticeCache struct {
	client *redis.Client // nil 이면 비활성
	ttl    time.Duration
	logger *slog.Logger
}

// NewNoticeCache 는 NoticeCache 의 새 인스턴스를 생성한다.
// redisURL 이 비어 있으면 비활성 캐시를 반환한다.
func NewNoticeCache(redisURL string, ttl time.Duration, logger *slog.Logger) *NoticeCache {
	if redisURL == "" {
		return &NoticeCache{ttl: ttl, logger: logger}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid Redis URL, response cache disabled", slog.String("error", err.Error()))
		return &NoticeCache{ttl: ttl, logger: logger}
	}

	return &NoticeCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}
}

// Get 은 캐시된 공고 목록을 반환한다. 미스, 역직렬화 실패,
// Redis 에러는 모두 ok=false 로 수렴한다.
func (c *NoticeCache) Get(ctx context.Context) ([]model.Notice, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, noticeCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("notice cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var notices []model.Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		c.logger.Warn("notice cache payload corrupted", slog.String("error", err.Error()))
		return nil, false
	}

	return notices, true
}

// Set 은 공고 목록을 TTL 과 함께 저장한다. 실패는 로그만 남긴다.
func (c *NoticeCache) Set(ctx context.Context, notices []model.Notice) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(notices)
	if err != nil {
		c.logger.Warn("notice cache marshal failed", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, noticeCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("notice cache write failed", slog.String("error", err.Error()))
	}
}

// Close 는 Redis 연결을 닫는다. 비활성 캐시에서는 no-op.
func (c *NoticeCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
