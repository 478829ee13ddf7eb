package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dongkyukim1/myhouse-sub000/internal/cache"
	"github.com/dongkyukim1/myhouse-sub000/internal/metrics"
	"github.com/dongkyukim1/myhouse-sub000/internal/middleware"
	"github.com/dongkyukim1/myhouse-sub000/internal/model"
	"github.com/dongkyukim1/myhouse-sub000/internal/notice"
	"github.com/dongkyukim1/myhouse-sub000/internal/scrape"
	"github.com/dongkyukim1/myhouse-sub000/internal/security"
)

// openGuard 는 httptest 서버(루프백)로의 요청을 허용하는 테스트 전용 가드.
type openGuard struct{}

func (openGuard) NewSafeClient(timeout time.Duration, _ int64) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (openGuard) ValidateURL(string) error { return nil }

func newTestRouter(t *testing.T, noticeSvc NoticeServiceInterface, ytSvc YouTubeServiceInterface) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	reg := prometheus.NewRegistry()
	return NewRouter(&RouterDeps{
		CORSAllowedOrigin: "http://localhost:3000",
		Logger:            discardLogger(),
		Metrics:           metrics.NewCollector(reg),
		RateLimiter:       rl,
		NoticeService:     noticeSvc,
		YouTubeService:    ytSvc,
		Gatherer:          reg,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, &mockNoticeService{}, &mockYouTubeService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("응답 디코드에 실패했습니다: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestRouter_MetricsRoute(t *testing.T) {
	router := newTestRouter(t, &mockNoticeService{}, &mockYouTubeService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_NoticeRoute(t *testing.T) {
	svc := &mockNoticeService{}
	router := newTestRouter(t, svc, &mockYouTubeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/notices", nil)
	req.RemoteAddr = "203.0.113.10:51234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://localhost:3000" {
		t.Errorf("CORS Origin = %q", origin)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id 헤더가 설정되어야 합니다")
	}
}

func TestRouter_YouTubeSummaryRoute(t *testing.T) {
	svc := &mockYouTubeService{
		getSummaryFn: func(ctx context.Context, videoID string) (*model.VideoSummary, error) {
			if videoID != "abc123" {
				t.Errorf("videoID = %q, want %q", videoID, "abc123")
			}
			return &model.VideoSummary{
				VideoID:     videoID,
				SummaryData: json.RawMessage(`{"summary":"요약"}`),
			}, nil
		},
	}
	router := newTestRouter(t, &mockNoticeService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/youtube/summary/abc123", nil)
	req.RemoteAddr = "203.0.113.11:51234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// --- 엔드 투 엔드: 실제 파이프라인으로 공고 수집 ---

const lhBoardHTML = `<html><body>
<table class="tbl_list">
<thead><tr><th>번호</th><th>제목</th><th>지역</th><th>마감일</th><th>등록일</th></tr></thead>
<tbody>
<tr><td>1</td><td><a href="/notice/1">2025 청년 매입임대주택 모집공고</a></td><td>서울</td><td>2025.03.01</td><td>2025.02.15</td></tr>
</tbody>
</table>
</body></html>`

// LH 가 1건을 내고 SH 가 0건일 때: LH 1건 + SH 합성 백필이 섞인 응답이 나와야 한다.
func TestRouter_NoticesEndToEnd(t *testing.T) {
	lhServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, lhBoardHTML)
	}))
	defer lhServer.Close()

	shServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<html><body><p>게시물이 없습니다.</p></body></html>")
	}))
	defer shServer.Close()

	logger := discardLogger()
	fetcher := scrape.NewStaticFetcher(openGuard{}, logger, 5*time.Second, 1<<20)
	pipeline := scrape.NewPipeline(fetcher, security.NewTextSanitizer(), logger)

	lhSource := scrape.SourceConfig{
		Source:        model.NoticeSourceLH,
		CandidateURLs: []string{lhServer.URL},
		Strategies:    scrape.DefaultStrategies(),
		DefaultDept:   "한국토지주택공사",
		SearchURL:     "https://search.naver.com/search.naver?query=",
	}
	shSource := scrape.SourceConfig{
		Source:        model.NoticeSourceSH,
		CandidateURLs: []string{shServer.URL},
		Strategies:    scrape.DefaultStrategies(),
		DefaultDept:   "서울주택도시공사",
		SearchURL:     "https://www.i-sh.co.kr/main/search/search.do?query=",
	}

	noticeSvc := notice.NewService(
		pipeline,
		nil, // 브라우저 티어 비활성
		cache.NewNoticeCache("", 0, logger),
		metrics.NewCollector(prometheus.NewRegistry()),
		lhSource,
		shSource,
		logger,
	)

	router := newTestRouter(t, noticeSvc, &mockYouTubeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/notices", nil)
	req.RemoteAddr = "203.0.113.12:51234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result struct {
		Items []model.Notice `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("응답 디코드에 실패했습니다: %v", err)
	}

	var lhItems, shItems []model.Notice
	for _, item := range result.Items {
		switch item.Source {
		case model.NoticeSourceLH:
			lhItems = append(lhItems, item)
		case model.NoticeSourceSH:
			shItems = append(shItems, item)
		}
	}

	if len(lhItems) != 1 {
		t.Fatalf("LH 항목 = %d건, want 1", len(lhItems))
	}
	if lhItems[0].Title != "2025 청년 매입임대주택 모집공고" {
		t.Errorf("LH 제목 = %q", lhItems[0].Title)
	}
	if lhItems[0].Region != "서울" {
		t.Errorf("LH 지역 = %q, want 서울", lhItems[0].Region)
	}
	if lhItems[0].Href == "" {
		t.Error("LH 항목의 href 가 비어 있습니다")
	}

	if len(shItems) < 5 {
		t.Fatalf("SH 합성 백필 = %d건, 최소 5건이어야 합니다", len(shItems))
	}
	for i, item := range shItems {
		if item.Dept != "서울주택도시공사" {
			t.Errorf("SH 항목 %d 의 dept = %q, want 서울주택도시공사", i, item.Dept)
		}
		if !item.Synthetic {
			t.Errorf("SH 항목 %d 는 합성 표시가 있어야 합니다", i)
		}
	}

	// 정렬 순서: LH 전체가 SH 앞에 온다
	if result.Items[0].Source != model.NoticeSourceLH {
		t.Errorf("첫 항목의 소스 = %q, want LH", result.Items[0].Source)
	}
}
