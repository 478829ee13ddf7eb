package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 는 애플리케이션 전체 설정을 보관한다.
// 기동 시 환경 변수에서 1회 로드하며 이후에는 불변으로 취급한다.
type Config struct {
	// Database
	DatabaseURL string

	// Redis (선택, 미설정 시 공고 응답 캐시 비활성)
	RedisURL string

	// YouTube Data API (선택, 미설정 시 RSS 폴백만 사용)
	YouTubeAPIKey string

	// 요약 생성 API (선택, 미설정 시 요약 캐시 미스는 404)
	SummaryAPIKey string
	SummaryAPIURL string
	SummaryModel  string

	// 캐시 TTL
	// ChannelTTL 이 0이면 채널 캐시는 시간 경과로 만료되지 않는다 (덮어쓰기로만 갱신).
	ChannelTTL time.Duration
	VideoTTL   time.Duration
	SummaryTTL time.Duration
	// NoticeCacheTTL 은 Redis 공고 응답 캐시의 TTL.
	NoticeCacheTTL time.Duration

	// 스크레이핑
	ScrapeTimeout  time.Duration
	ScrapeMaxSize  int64
	BrowserEnabled bool
	BrowserTimeout time.Duration
	SHRelayURL     string

	// Rate Limit (req/min)
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경 변수에서 Config 를 로드한다.
// 작업 디렉터리에 .env 파일이 있으면 먼저 읽어들인다 (이미 설정된 변수는 덮어쓰지 않음).
// 필수 환경 변수가 미설정이면 에러를 반환한다.
func Load() (*Config, error) {
	// .env 는 로컬 개발 편의용이므로 없어도 에러로 취급하지 않는다
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.RedisURL = getEnvString("REDIS_URL", "")
	cfg.YouTubeAPIKey = getEnvString("YOUTUBE_API_KEY", "")
	cfg.SummaryAPIKey = getEnvString("SUMMARY_API_KEY", "")
	cfg.SummaryAPIURL = getEnvString("SUMMARY_API_URL", "https://api.openai.com/v1/chat/completions")
	cfg.SummaryModel = getEnvString("SUMMARY_MODEL", "gpt-4o-mini")

	cfg.ChannelTTL = getEnvDuration("CHANNEL_TTL", 0)
	cfg.VideoTTL = getEnvDuration("VIDEO_TTL", 6*time.Hour)
	cfg.SummaryTTL = getEnvDuration("SUMMARY_TTL", 7*24*time.Hour)
	cfg.NoticeCacheTTL = getEnvDuration("NOTICE_CACHE_TTL", 5*time.Minute)

	cfg.ScrapeTimeout = getEnvDuration("SCRAPE_TIMEOUT", 10*time.Second)
	cfg.ScrapeMaxSize = getEnvInt64("SCRAPE_MAX_SIZE", 5242880)
	cfg.BrowserEnabled = getEnvBool("BROWSER_ENABLED", true)
	cfg.BrowserTimeout = getEnvDuration("BROWSER_TIMEOUT", 20*time.Second)
	cfg.SHRelayURL = getEnvString("SH_RELAY_URL", "")

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
