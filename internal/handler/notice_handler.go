// Package handler 는 HTTP 핸들러와 라우팅을 제공한다.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// NoticeServiceInterface 는 공고 핸들러가 필요로 하는 서비스 인터페이스.
type NoticeServiceInterface interface {
	// GetNotices 는 집계된 공고 목록을 반환한다. 수집 실패는 에러가 아니라
	// 빈 목록 또는 합성 백필로 수렴하므로 에러를 반환하지 않는다.
	GetNotices(ctx context.Context) []model.Notice
}

// NoticeHandler 는 주택 공고의 HTTP 핸들러.
type NoticeHandler struct {
	service NoticeServiceInterface
}

// NewNoticeHandler 는 NoticeHandler 를 생성한다.
func NewNoticeHandler(service NoticeServiceInterface) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// noticeListResponse 는 공고 목록의 응답.
type noticeListResponse struct {
	Items []model.Notice `json:"items"`
}

// GetNotices 는 집계된 공고 목록을 반환한다.
// GET /api/notices
//
// 데이터 없음은 에러가 아니다: 빈 items 배열과 200 을 반환한다.
// 500 은 방어 범위 밖의 예기치 못한 예외(panic 등)에서만 발생한다.
func (h *NoticeHandler) GetNotices(w http.ResponseWriter, r *http.Request) {
	notices := h.service.GetNotices(r.Context())
	if notices == nil {
		notices = []model.Notice{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(noticeListResponse{Items: notices})
}
