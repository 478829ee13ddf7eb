package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// rssFeedURL 은 채널 업로드 피드의 URL 템플릿.
// API 키 없이 접근 가능하며 최신 15건 정도만 포함된다.
const rssFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// RSSFetcher 는 Data API 가 실패했을 때의 폴백 취득 경로.
// API 쿼터 소진 시에도 동영상 목록 갱신이 완전히 멈추지 않게 한다.
// 카운터·길이 등 API 전용 필드는 비워진 채 반환된다.
type RSSFetcher struct {
	parser  *gofeed.Parser
	logger  *slog.Logger
	feedURL string // 테스트용으로 템플릿 교체 가능
}

// NewRSSFetcher 는 RSSFetcher 의 새 인스턴스를 생성한다.
func NewRSSFetcher(httpClient *http.Client, logger *slog.Logger) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = "MyhouseSub/1.0 Housing Notice Aggregator"

	return &RSSFetcher{
		parser:  parser,
		logger:  logger,
		feedURL: rssFeedURL,
	}
}

// FetchVideos 는 채널의 RSS 피드에서 동영상 목록을 취득한다.
func (f *RSSFetcher) FetchVideos(ctx context.Context, channelID string) ([]*model.Video, error) {
	feedURL := fmt.Sprintf(f.feedURL, channelID)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("RSS 피드 취득에 실패했습니다: %w", err)
	}

	videos := make([]*model.Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		videoID := extractVideoID(item)
		if videoID == "" {
			continue
		}

		video := &model.Video{
			VideoID:     videoID,
			ChannelID:   channelID,
			Title:       item.Title,
			Description: item.Description,
			PublishedAt: item.PublishedParsed,
		}
		if item.Link != "" {
			video.ThumbnailURL = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
		}
		videos = append(videos, video)
	}

	f.logger.Info("videos fetched via RSS fallback",
		slog.String("channel_id", channelID),
		slog.Int("count", len(videos)),
	)
	return videos, nil
}

// extractVideoID 는 피드 항목에서 동영상 ID 를 추출한다.
// YouTube 피드는 yt:videoId 확장 요소에 ID 를 담는다.
func extractVideoID(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]; ok {
		if ids, ok := ext["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	return ""
}
