// Package youtube 는 YouTube 메타데이터의 취득과 캐시를 제공한다.
// Data API 클라이언트, RSS 폴백, AI 요약 생성기, 그리고 이들 앞에 놓이는
// 읽기 관통(read-through) 캐시 서비스를 포함한다.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

const (
	// defaultAPIEndpoint 는 YouTube Data API v3 의 베이스 URL.
	defaultAPIEndpoint = "https://www.googleapis.com/youtube/v3"
	// maxVideosPerFetch 는 1회 갱신에서 가져오는 최대 동영상 수.
	maxVideosPerFetch = 50
)

// DataFetcher 는 YouTube 업스트림 취득 기능의 인터페이스.
// 테스트 시 모의 구현으로 교체할 수 있다.
type DataFetcher interface {
	// FetchChannelByID 는 채널 ID 로 채널 메타데이터를 취득한다.
	// 채널이 존재하지 않으면 에러를 반환한다.
	FetchChannelByID(ctx context.Context, channelID string) (*model.Channel, error)
	// FetchChannelByHandle 은 @핸들로 채널 메타데이터를 취득한다.
	FetchChannelByHandle(ctx context.Context, handle string) (*model.Channel, error)
	// FetchVideos 는 채널의 최신 동영상 목록을 취득한다.
	FetchVideos(ctx context.Context, channel *model.Channel) ([]*model.Video, error)
}

// Client 는 YouTube Data API v3 의 클라이언트.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	endpoint   string // 테스트용으로 엔드포인트 교체 가능
}

// NewClient 는 Client 의 새 인스턴스를 생성한다.
func NewClient(httpClient *http.Client, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   defaultAPIEndpoint,
	}
}

// --- API 응답 구조 (시스템이 읽는 필드만 모델링) ---

type channelListResponse struct {
	Items []json.RawMessage `json:"items"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CustomURL   string `json:"customUrl"`
		Thumbnails  struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		VideoCount      string `json:"videoCount"`
		ViewCount       string `json:"viewCount"`
	} `json:"statistics"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type playlistItemsResponse struct {
	Items []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []json.RawMessage `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		ChannelID   string `json:"channelId"`
		Thumbnails  struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

// FetchChannelByID 는 채널 ID 로 채널 메타데이터를 취득한다.
func (c *Client) FetchChannelByID(ctx context.Context, channelID string) (*model.Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", channelID)
	return c.fetchChannel(ctx, params, channelID)
}

// FetchChannelByHandle 은 @핸들로 채널 메타데이터를 취득한다.
func (c *Client) FetchChannelByHandle(ctx context.Context, handle string) (*model.Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("forHandle", handle)
	return c.fetchChannel(ctx, params, handle)
}

func (c *Client) fetchChannel(ctx context.Context, params url.Values, key string) (*model.Channel, error) {
	body, err := c.get(ctx, "/channels", params)
	if err != nil {
		return nil, err
	}

	var resp channelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("채널 응답 파싱에 실패했습니다: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, model.NewChannelNotFoundError(key)
	}

	raw := resp.Items[0]
	var item channelItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("채널 항목 파싱에 실패했습니다: %w", err)
	}

	return &model.Channel{
		ChannelID:         item.ID,
		ChannelHandle:     item.Snippet.CustomURL,
		Title:             item.Snippet.Title,
		Description:       item.Snippet.Description,
		ThumbnailURL:      item.Snippet.Thumbnails.High.URL,
		SubscriberCount:   parseCount(item.Statistics.SubscriberCount),
		VideoCount:        parseCount(item.Statistics.VideoCount),
		ViewCount:         parseCount(item.Statistics.ViewCount),
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
		ChannelData:       raw,
	}, nil
}

// FetchVideos 는 채널의 업로드 재생목록에서 최신 동영상을 취득한다.
// 재생목록에서 동영상 ID 를 얻은 뒤 videos.list 로 상세를 채운다.
func (c *Client) FetchVideos(ctx context.Context, channel *model.Channel) ([]*model.Video, error) {
	if channel.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("채널에 업로드 재생목록이 없습니다: %s", channel.ChannelID)
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", channel.UploadsPlaylistID)
	params.Set("maxResults", strconv.Itoa(maxVideosPerFetch))

	body, err := c.get(ctx, "/playlistItems", params)
	if err != nil {
		return nil, err
	}

	var playlist playlistItemsResponse
	if err := json.Unmarshal(body, &playlist); err != nil {
		return nil, fmt.Errorf("재생목록 응답 파싱에 실패했습니다: %w", err)
	}

	ids := make([]string, 0, len(playlist.Items))
	for _, item := range playlist.Items {
		if item.ContentDetails.VideoID != "" {
			ids = append(ids, item.ContentDetails.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	return c.fetchVideoDetails(ctx, channel.ChannelID, ids)
}

func (c *Client) fetchVideoDetails(ctx context.Context, channelID string, ids []string) ([]*model.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	body, err := c.get(ctx, "/videos", params)
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("동영상 응답 파싱에 실패했습니다: %w", err)
	}

	videos := make([]*model.Video, 0, len(resp.Items))
	for _, raw := range resp.Items {
		var item videoItem
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warn("video item parse failed, skipping",
				slog.String("error", err.Error()),
			)
			continue
		}

		videos = append(videos, &model.Video{
			VideoID:      item.ID,
			ChannelID:    channelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			PublishedAt:  parseTimestamp(item.Snippet.PublishedAt),
			Duration:     item.ContentDetails.Duration,
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
			VideoData:    raw,
		})
	}

	return videos, nil
}

// get 은 API 키를 부여해 GET 요청을 실행하고 본문을 반환한다.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)
	reqURL := c.endpoint + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("YouTube API request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("YouTube API 호출에 실패했습니다: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("YouTube API returned error status",
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("YouTube API 가 상태 %d 를 반환했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}
	return body, nil
}

// parseCount 는 API 가 문자열로 내려주는 카운터를 정수로 변환한다.
// 비공개 채널 등으로 필드가 비어 있으면 0 으로 취급한다.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseTimestamp 는 RFC 3339 타임스탬프를 파싱한다. 실패 시 nil.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// compile-time interface check
var _ DataFetcher = (*Client)(nil)
