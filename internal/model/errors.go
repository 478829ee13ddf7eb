// Package model 은 도메인 모델을 정의한다.
package model

import "fmt"

// APIError 는 통일 에러 포맷을 나타낸다.
// UI 에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: validation, youtube, notice, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeChannelNotFound = "CHANNEL_NOT_FOUND"
	ErrCodeVideosNotFound  = "VIDEOS_NOT_FOUND"
	ErrCodeSummaryNotFound = "SUMMARY_NOT_FOUND"
	ErrCodeUpstreamFailed  = "UPSTREAM_FAILED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// NewInvalidRequestError 는 요청 파라미터 오류를 생성한다.
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("잘못된 요청입니다: %s", reason),
		Category: "validation",
		Action:   "요청 파라미터를 확인해 주세요.",
	}
}

// NewChannelNotFoundError 는 채널 미발견 에러를 생성한다.
func NewChannelNotFoundError(key string) *APIError {
	return &APIError{
		Code:     ErrCodeChannelNotFound,
		Message:  fmt.Sprintf("채널을 찾을 수 없습니다: %s", key),
		Category: "youtube",
		Action:   "채널 ID 또는 핸들을 확인해 주세요.",
	}
}

// NewVideosNotFoundError 는 동영상 목록 미발견 에러를 생성한다.
func NewVideosNotFoundError(channelID string) *APIError {
	return &APIError{
		Code:     ErrCodeVideosNotFound,
		Message:  fmt.Sprintf("채널의 동영상 목록을 가져올 수 없습니다: %s", channelID),
		Category: "youtube",
		Action:   "채널 ID를 확인하고 잠시 후 다시 시도해 주세요.",
	}
}

// NewSummaryNotFoundError 는 요약 미발견 에러를 생성한다.
func NewSummaryNotFoundError(videoID string) *APIError {
	return &APIError{
		Code:     ErrCodeSummaryNotFound,
		Message:  fmt.Sprintf("동영상 요약을 찾을 수 없습니다: %s", videoID),
		Category: "youtube",
		Action:   "요약이 아직 생성되지 않았을 수 있습니다. 잠시 후 다시 시도해 주세요.",
	}
}

// NewUpstreamFailedError 는 외부 API 호출 실패 에러를 생성한다.
func NewUpstreamFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailed,
		Message:  fmt.Sprintf("외부 API 호출에 실패했습니다: %s", reason),
		Category: "youtube",
		Action:   "잠시 후 다시 시도해 주세요.",
	}
}
