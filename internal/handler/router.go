package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
	"github.com/dongkyukim1/myhouse-sub000/internal/middleware"
)

// RouterDeps 는 NewRouter 에 필요한 의존성을 모은 구조체.
type RouterDeps struct {
	// 미들웨어 의존
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	RateLimiter       *middleware.RateLimiter

	// 서비스
	NoticeService  NoticeServiceInterface
	YouTubeService YouTubeServiceInterface

	// 헬스체크용 DB 연결. nil 이면 DB ping 을 생략한다.
	DB *sql.DB

	// /metrics 노출용. nil 이면 라우트를 추가하지 않는다.
	Gatherer prometheus.Gatherer
}

// NewRouter 는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router 를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	CORS → Logging → Recovery → RateLimit
//
// 헬스체크와 /metrics 는 레이트 리밋 대상에서 제외한다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())

	noticeHandler := NewNoticeHandler(deps.NoticeService)
	youtubeHandler := NewYouTubeHandler(deps.YouTubeService, deps.Logger)

	// --- 레이트 리밋 밖의 루트 ---

	r.Get("/health", healthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- API 루트 ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		r.Get("/api/notices", noticeHandler.GetNotices)

		r.Route("/api/youtube", func(r chi.Router) {
			r.Get("/channel", youtubeHandler.GetChannel)
			r.Get("/videos", youtubeHandler.GetVideos)
			r.Get("/summary/{videoId}", youtubeHandler.GetSummary)
		})
	})

	return r
}

// healthHandler 는 DB 접속을 확인하는 헬스체크 핸들러를 반환한다.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}
