// Package app 은 애플리케이션의 기동과 의존성 조립을 담당한다.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/dongkyukim1/myhouse-sub000/internal/cache"
	"github.com/dongkyukim1/myhouse-sub000/internal/config"
	"github.com/dongkyukim1/myhouse-sub000/internal/database"
	"github.com/dongkyukim1/myhouse-sub000/internal/handler"
	"github.com/dongkyukim1/myhouse-sub000/internal/logger"
	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
	"github.com/dongkyukim1/myhouse-sub000/internal/middleware"
	"github.com/dongkyukim1/myhouse-sub000/internal/notice"
	"github.com/dongkyukim1/myhouse-sub000/internal/repository"
	"github.com/dongkyukim1/myhouse-sub000/internal/scrape"
	"github.com/dongkyukim1/myhouse-sub000/internal/security"
	"github.com/dongkyukim1/myhouse-sub000/internal/worker/cleanup"
	"github.com/dongkyukim1/myhouse-sub000/internal/youtube"
)

// Init 은 애플리케이션 초기화를 수행한다.
// JSON 구조화 로그를 설정하고 환경 변수에서 Config 를 로드한다.
// writer 가 지정되면 로그 출력 대상으로 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 설정 로드 전에 로그를 쓸 수 있도록 먼저 초기화한다
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리 포인트.
// 커맨드라인 인자에서 서브커맨드를 해석해 해당 모드로 기동한다.
// args 에는 os.Args[1:] 을 전달한다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 전체 초기화를 건너뛴다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe 는 API 서버 모드로 기동한다.
// DB 접속을 열고 전체 의존성을 조립한 뒤 HTTP 서버를 기동한다.
// SIGINT 또는 SIGTERM 수신 시 그레이스풀 셧다운을 수행한다.
func runServe(cfg *config.Config) error {
	// 1. DB 접속
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. 메트릭 초기화
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. 리포지토리 초기화
	channelRepo := repository.NewPostgresChannelRepo(db)
	videoRepo := repository.NewPostgresVideoRepo(db)
	summaryRepo := repository.NewPostgresSummaryRepo(db)

	// 4. 보안 서비스 초기화
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()

	// 5. 공고 수집 파이프라인 초기화
	fetcher := scrape.NewStaticFetcher(ssrfGuard, slog.Default(), cfg.ScrapeTimeout, cfg.ScrapeMaxSize)
	pipeline := scrape.NewPipeline(fetcher, sanitizer, slog.Default())

	var renderer scrape.Renderer
	if cfg.BrowserEnabled {
		renderer = scrape.NewChromeRenderer(slog.Default(), cfg.BrowserTimeout)
	}

	noticeCache := cache.NewNoticeCache(cfg.RedisURL, cfg.NoticeCacheTTL, slog.Default())
	defer noticeCache.Close()

	noticeService := notice.NewService(
		pipeline, renderer, noticeCache, collector,
		scrape.LHSource(), scrape.SHSource(cfg.SHRelayURL),
		slog.Default(),
	)

	// 6. YouTube 캐시 서비스 초기화
	httpClient := ssrfGuard.NewSafeClient(cfg.ScrapeTimeout, cfg.ScrapeMaxSize)
	ytClient := youtube.NewClient(httpClient, cfg.YouTubeAPIKey, slog.Default())
	rssFetcher := youtube.NewRSSFetcher(httpClient, slog.Default())

	// 요약 API 키가 없으면 요약 생성을 비활성화한다 (캐시 미스는 404)
	var summarizer youtube.Summarizer
	if cfg.SummaryAPIKey != "" {
		summarizer = youtube.NewOpenAISummarizer(
			httpClient, cfg.SummaryAPIKey, cfg.SummaryAPIURL, cfg.SummaryModel, slog.Default(),
		)
	}

	youtubeService := youtube.NewService(
		channelRepo, videoRepo, summaryRepo,
		ytClient, rssFetcher, summarizer, collector,
		youtube.TTLConfig{
			Channel: cfg.ChannelTTL,
			Video:   cfg.VideoTTL,
			Summary: cfg.SummaryTTL,
		},
		slog.Default(),
	)

	// 7. 라우터 조립
	rlConfig := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		// 설정값은 req/min 단위이므로 req/sec 으로 변환한다
		rlConfig.GeneralRate = rateLimitPerSecond(cfg.RateLimitGeneral)
		rlConfig.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rlConfig)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),
		Metrics:           collector,
		RateLimiter:       rateLimiter,
		NoticeService:     noticeService,
		YouTubeService:    youtubeService,
		DB:                db,
		Gatherer:          registry,
	})

	// 8. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // 브라우저 티어 수집이 길어질 수 있다
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker 는 캐시 청소 워커 모드로 기동한다.
// TTL 을 넘긴 YouTube 캐시 행을 일 단위로 삭제한다.
// SIGINT 또는 SIGTERM 수신 시 종료한다.
func runWorker(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	sweepJob := cleanup.NewSweepJob(
		db, slog.Default(),
		cfg.VideoTTL, cfg.SummaryTTL, cfg.ChannelTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	// 청소 잡을 메인 고루틴에서 실행 (블로킹)
	sweepJob.Start(ctx, 24*time.Hour)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션을 순서대로 모두 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 헬스체크를 실행한다.
// distroless 환경에서의 Docker 헬스체크용 서브커맨드.
// /health 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// rateLimitPerSecond 는 req/min 설정값을 rate.Limit(req/sec) 으로 변환한다.
func rateLimitPerSecond(perMinute int) rate.Limit {
	return rate.Limit(float64(perMinute) / 60.0)
}

// maskDatabaseURL 은 데이터베이스 URL 의 인증 정보를 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
