package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
)

// statusRecorder 는 http.ResponseWriter 를 감싸 상태 코드를 기록한다.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader 는 상태 코드를 기록한 뒤 위임한다.
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write 는 데이터를 쓴다. WriteHeader 미호출이면 200 을 기록한다.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware 는 요청의 JSON 구조화 로그를 출력하는 미들웨어를 반환한다.
// 요청마다 UUID 요청 ID 를 발급해 로그 상관관계를 추적할 수 있게 한다.
// mc 가 nil 이 아니면 응답 상태 코드를 메트릭에도 기록한다.
func NewLoggingMiddleware(logger *slog.Logger, mc metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			rec.Header().Set("X-Request-Id", requestID)

			next.ServeHTTP(rec, r)

			if mc != nil {
				mc.RecordHTTPStatus(rec.statusCode)
			}

			durationMs := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)

			// 상태 코드에 따라 로그 레벨을 조정한다
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			)
		})
	}
}
