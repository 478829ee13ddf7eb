package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dongkyukim1/myhouse-sub000/internal/middleware"
	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// YouTubeServiceInterface 는 YouTube 핸들러가 필요로 하는 서비스 인터페이스.
type YouTubeServiceInterface interface {
	GetChannel(ctx context.Context, key string) (*model.Channel, error)
	GetVideos(ctx context.Context, channelID string) ([]*model.Video, error)
	GetSummary(ctx context.Context, videoID string) (*model.VideoSummary, error)
}

// YouTubeHandler 는 YouTube 메타데이터의 HTTP 핸들러.
type YouTubeHandler struct {
	service YouTubeServiceInterface
	logger  *slog.Logger
}

// NewYouTubeHandler 는 YouTubeHandler 를 생성한다.
func NewYouTubeHandler(service YouTubeServiceInterface, logger *slog.Logger) *YouTubeHandler {
	return &YouTubeHandler{
		service: service,
		logger:  logger,
	}
}

// --- 응답 형 ---

// channelResponse 는 채널 메타데이터의 응답.
type channelResponse struct {
	ChannelID       string `json:"channelId"`
	ChannelHandle   string `json:"channelHandle,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	ViewCount       int64  `json:"viewCount"`
}

// videoResponse 는 동영상 메타데이터의 응답.
type videoResponse struct {
	VideoID      string     `json:"videoId"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	ViewCount    int64      `json:"viewCount"`
	LikeCount    int64      `json:"likeCount"`
	CommentCount int64      `json:"commentCount"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
}

// videoListResponse 는 동영상 목록의 응답.
type videoListResponse struct {
	Items []videoResponse `json:"items"`
}

// summaryResponse 는 동영상 요약의 응답.
// summary_data 의 JSON 을 그대로 전달한다.
type summaryResponse struct {
	VideoID string          `json:"videoId"`
	Summary json.RawMessage `json:"summary"`
}

// GetChannel 은 채널 메타데이터를 반환한다.
// GET /api/youtube/channel?id=UC... 또는 ?handle=@...
func (h *YouTubeHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("id")
	if key == "" {
		key = r.URL.Query().Get("handle")
	}
	if key == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("id 또는 handle 파라미터가 필요합니다"))
		return
	}

	channel, err := h.service.GetChannel(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, channelResponse{
		ChannelID:       channel.ChannelID,
		ChannelHandle:   channel.ChannelHandle,
		Title:           channel.Title,
		Description:     channel.Description,
		ThumbnailURL:    channel.ThumbnailURL,
		SubscriberCount: channel.SubscriberCount,
		VideoCount:      channel.VideoCount,
		ViewCount:       channel.ViewCount,
	})
}

// GetVideos 는 채널의 동영상 목록을 반환한다.
// GET /api/youtube/videos?channelId=UC...
func (h *YouTubeHandler) GetVideos(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("channelId 파라미터가 필요합니다"))
		return
	}

	videos, err := h.service.GetVideos(r.Context(), channelID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoResponse{
			VideoID:      v.VideoID,
			ChannelID:    v.ChannelID,
			Title:        v.Title,
			Description:  v.Description,
			PublishedAt:  v.PublishedAt,
			Duration:     v.Duration,
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CommentCount: v.CommentCount,
			ThumbnailURL: v.ThumbnailURL,
		})
	}

	writeJSON(w, videoListResponse{Items: items})
}

// GetSummary 는 동영상 요약을 반환한다.
// GET /api/youtube/summary/{videoId}
func (h *YouTubeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	if videoID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("videoId 가 필요합니다"))
		return
	}

	summary, err := h.service.GetSummary(r.Context(), videoID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, summaryResponse{
		VideoID: summary.VideoID,
		Summary: summary.SummaryData,
	})
}

// writeServiceError 는 서비스 에러를 HTTP 상태로 사상한다.
func (h *YouTubeHandler) writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		h.logger.Error("unexpected service error", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	switch apiErr.Code {
	case model.ErrCodeInvalidRequest:
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
	case model.ErrCodeChannelNotFound, model.ErrCodeVideosNotFound, model.ErrCodeSummaryNotFound:
		middleware.WriteErrorResponse(w, http.StatusNotFound, apiErr)
	case model.ErrCodeUpstreamFailed:
		middleware.WriteErrorResponse(w, http.StatusBadGateway, apiErr)
	default:
		middleware.WriteErrorResponse(w, http.StatusInternalServerError, apiErr)
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
