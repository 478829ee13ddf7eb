package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// ErrorResponseBody 는 API 에러 응답의 통일 포맷.
// 카테고리와 대처 방법은 로그에만 남기고 응답에는 코드와 메시지만 노출한다.
type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteErrorResponse 는 통일 에러 포맷으로 HTTP 에러 응답을 쓴다.
// 모든 API 엔드포인트에서 일관된 에러 응답을 제공한다.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

// WriteInternalServerError 는 내부 서버 에러의 통일 응답을 쓴다.
// 상세는 로그에만 기록하고 사용자에게는 일반 메시지를 반환한다.
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    model.ErrCodeInternal,
		Message: "서버 내부 오류가 발생했습니다.",
	})
}
