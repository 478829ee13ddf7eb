package youtube

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
	"github.com/dongkyukim1/myhouse-sub000/internal/model"
	"github.com/dongkyukim1/myhouse-sub000/internal/repository"
)

// TTLConfig 는 엔티티별 캐시 유효 기간.
// Channel 이 0 이면 채널 캐시는 만료되지 않는다 (의도적 토글).
type TTLConfig struct {
	Channel time.Duration
	Video   time.Duration
	Summary time.Duration
}

// FallbackFetcher 는 Data API 실패 시의 동영상 폴백 취득 경로.
type FallbackFetcher interface {
	FetchVideos(ctx context.Context, channelID string) ([]*model.Video, error)
}

// Service 는 YouTube 메타데이터의 읽기 관통 캐시.
//
// 캐시 계층의 규율: 캐시 읽기 실패는 미스로, 캐시 쓰기 실패는 로그 후
// 무시로 처리하며 어느 쪽도 호출자에 전파되지 않는다. 호출자에 에러가
// 돌아가는 것은 캐시와 업스트림이 모두 실패한 경우뿐이다.
type Service struct {
	channelRepo repository.ChannelRepository
	videoRepo   repository.VideoRepository
	summaryRepo repository.SummaryRepository
	fetcher     DataFetcher
	fallback    FallbackFetcher // nil 이면 RSS 폴백 비활성
	summarizer  Summarizer      // nil 이면 요약 생성 비활성
	metrics     metrics.MetricsCollector
	ttl         TTLConfig
	logger      *slog.Logger
	now         func() time.Time // 테스트에서 시간 조작용
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
func NewService(
	channelRepo repository.ChannelRepository,
	videoRepo repository.VideoRepository,
	summaryRepo repository.SummaryRepository,
	fetcher DataFetcher,
	fallback FallbackFetcher,
	summarizer Summarizer,
	mc metrics.MetricsCollector,
	ttl TTLConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		summaryRepo: summaryRepo,
		fetcher:     fetcher,
		fallback:    fallback,
		summarizer:  summarizer,
		metrics:     mc,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// GetChannel 은 채널 ID 또는 핸들로 채널 메타데이터를 반환한다.
// 유효한 캐시가 있으면 업스트림을 호출하지 않는다.
func (s *Service) GetChannel(ctx context.Context, key string) (*model.Channel, error) {
	cached, err := s.channelRepo.FindByKey(ctx, key)
	if err != nil {
		// 캐시 읽기 실패는 미스로 취급한다
		s.logger.Warn("channel cache read failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		cached = nil
	}

	if cached != nil && s.fresh(cached.UpdatedAt, s.ttl.Channel) {
		s.metrics.RecordCacheHit("channel")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("channel")

	fetched, err := s.fetchChannel(ctx, key)
	if err != nil {
		// 만료된 캐시라도 업스트림 장애 시에는 그대로 반환한다
		if cached != nil {
			s.logger.Warn("upstream channel fetch failed, serving stale cache",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			return cached, nil
		}
		return nil, err
	}

	if err := s.channelRepo.Upsert(ctx, fetched); err != nil {
		s.logger.Warn("channel cache write failed",
			slog.String("channel_id", fetched.ChannelID),
			slog.String("error", err.Error()),
		)
	}

	return fetched, nil
}

// fetchChannel 은 키의 형태로 ID/핸들을 구분해 업스트림을 호출한다.
// YouTube 채널 ID 는 "UC" 접두사의 24자 문자열이다.
func (s *Service) fetchChannel(ctx context.Context, key string) (*model.Channel, error) {
	if strings.HasPrefix(key, "UC") && len(key) == 24 {
		return s.fetcher.FetchChannelByID(ctx, key)
	}
	return s.fetcher.FetchChannelByHandle(ctx, strings.TrimPrefix(key, "@"))
}

// GetVideos 는 채널의 동영상 목록을 반환한다.
// 캐시 집합의 신선도는 가장 최근 updated_at 으로 판정하며,
// 빈 집합은 신선도와 무관하게 미스로 취급한다 (빈 채널과 구분 불가).
func (s *Service) GetVideos(ctx context.Context, channelID string) ([]*model.Video, error) {
	cached, err := s.videoRepo.ListByChannel(ctx, channelID)
	if err != nil {
		s.logger.Warn("video cache read failed, treating as miss",
			slog.String("channel_id", channelID),
			slog.String("error", err.Error()),
		)
		cached = nil
	}

	if len(cached) > 0 && s.fresh(latestUpdate(cached), s.ttl.Video) {
		s.metrics.RecordCacheHit("video")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("video")

	fetched, err := s.fetchVideos(ctx, channelID)
	if err != nil {
		if len(cached) > 0 {
			s.logger.Warn("upstream video fetch failed, serving stale cache",
				slog.String("channel_id", channelID),
				slog.String("error", err.Error()),
			)
			return cached, nil
		}
		return nil, err
	}

	if err := s.videoRepo.ReplaceByChannel(ctx, channelID, fetched); err != nil {
		s.logger.Warn("video cache replace failed",
			slog.String("channel_id", channelID),
			slog.String("error", err.Error()),
		)
	}

	return fetched, nil
}

// fetchVideos 는 Data API 를 시도하고 실패하면 RSS 폴백으로 넘어간다.
func (s *Service) fetchVideos(ctx context.Context, channelID string) ([]*model.Video, error) {
	channel, err := s.GetChannel(ctx, channelID)
	if err == nil {
		videos, apiErr := s.fetcher.FetchVideos(ctx, channel)
		if apiErr == nil {
			return videos, nil
		}
		s.logger.Warn("Data API video fetch failed",
			slog.String("channel_id", channelID),
			slog.String("error", apiErr.Error()),
		)
	}

	if s.fallback != nil {
		videos, rssErr := s.fallback.FetchVideos(ctx, channelID)
		if rssErr == nil && len(videos) > 0 {
			return videos, nil
		}
	}

	return nil, model.NewVideosNotFoundError(channelID)
}

// GetSummary 는 동영상 요약을 반환한다.
// 동영상 집합의 TTL 과 독립된 더 긴 TTL 을 가진다 (재생성 비용이 크므로).
func (s *Service) GetSummary(ctx context.Context, videoID string) (*model.VideoSummary, error) {
	cached, err := s.summaryRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		s.logger.Warn("summary cache read failed, treating as miss",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()),
		)
		cached = nil
	}

	if cached != nil && s.fresh(cached.UpdatedAt, s.ttl.Summary) {
		s.metrics.RecordCacheHit("summary")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("summary")

	generated, err := s.generateSummary(ctx, videoID)
	if err != nil {
		if cached != nil {
			s.logger.Warn("summary generation failed, serving stale cache",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()),
			)
			return cached, nil
		}
		return nil, err
	}

	if err := s.summaryRepo.Upsert(ctx, generated); err != nil {
		s.logger.Warn("summary cache write failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()),
		)
	}

	return generated, nil
}

func (s *Service) generateSummary(ctx context.Context, videoID string) (*model.VideoSummary, error) {
	if s.summarizer == nil {
		return nil, model.NewSummaryNotFoundError(videoID)
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		// 요약 대상 동영상이 캐시에 없으면 생성할 재료가 없다
		return nil, model.NewSummaryNotFoundError(videoID)
	}

	raw, err := s.summarizer.Summarize(ctx, video)
	if err != nil {
		return nil, err
	}

	return &model.VideoSummary{
		VideoID:     videoID,
		SummaryData: raw,
		UpdatedAt:   s.now(),
	}, nil
}

// fresh 는 updatedAt 이 TTL 이내인지 판정한다. ttl 이 0 이하이면 항상 신선하다.
func (s *Service) fresh(updatedAt time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return s.now().Sub(updatedAt) < ttl
}

// latestUpdate 는 집합에서 가장 최근의 updated_at 을 반환한다.
func latestUpdate(videos []*model.Video) time.Time {
	var latest time.Time
	for _, v := range videos {
		if v.UpdatedAt.After(latest) {
			latest = v.UpdatedAt
		}
	}
	return latest
}
