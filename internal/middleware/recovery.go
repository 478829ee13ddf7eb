package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// NewRecoveryMiddleware 는 panic 발생 시 프로세스 중단을 막고
// 통일 포맷의 500 응답을 반환하는 미들웨어를 생성한다.
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"code":    model.ErrCodeInternal,
						"message": "서버 내부 오류가 발생했습니다.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
