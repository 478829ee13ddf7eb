package scrape

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
	"github.com/dongkyukim1/myhouse-sub000/internal/security"
)

// openGuard 는 테스트 전용 가드. httptest 서버(루프백)로의 요청을 허용한다.
type openGuard struct{}

func (openGuard) NewSafeClient(timeout time.Duration, _ int64) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (openGuard) ValidateURL(string) error { return nil }

var _ security.SSRFGuardService = openGuard{}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPipeline() *Pipeline {
	fetcher := NewStaticFetcher(openGuard{}, testLogger(), 5*time.Second, 1<<20)
	return NewPipeline(fetcher, security.NewTextSanitizer(), testLogger())
}

func TestPipeline_CollectStatic_BoardTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, boardHTML)
	}))
	defer server.Close()

	cfg := SourceConfig{
		Source:        model.NoticeSourceLH,
		CandidateURLs: []string{server.URL},
		Strategies:    DefaultStrategies(),
		DefaultDept:   "한국토지주택공사",
	}

	notices := testPipeline().CollectStatic(context.Background(), cfg)
	if len(notices) != 2 {
		t.Fatalf("공고 2건이 수집되어야 합니다, got %d", len(notices))
	}

	first := notices[0]
	if first.Source != model.NoticeSourceLH {
		t.Errorf("소스가 LH 여야 합니다: %q", first.Source)
	}
	if first.Title != "2025년 청년 매입임대주택 모집공고" {
		t.Errorf("제목이 다릅니다: %q", first.Title)
	}
	if first.Href != server.URL+"/notice/12" {
		t.Errorf("상대 href 가 페이지 URL 기준으로 해석되어야 합니다: %q", first.Href)
	}
	if first.Region != "서울" || first.Due != "2025.09.30" || first.RegDate != "2025.09.01" {
		t.Errorf("부가 필드 추출이 다릅니다: region=%q due=%q regDate=%q", first.Region, first.Due, first.RegDate)
	}
	if first.Dept != "한국토지주택공사" {
		t.Errorf("기본 부서명이 채워져야 합니다: %q", first.Dept)
	}
}

func TestPipeline_CollectStatic_FallsThroughToNextCandidate(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<html><body><p>점검 중입니다</p></body></html>")
	}))
	defer empty.Close()

	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, boardHTML)
	}))
	defer board.Close()

	cfg := SourceConfig{
		Source:        model.NoticeSourceLH,
		CandidateURLs: []string{"http://unreachable.invalid/list.do", empty.URL, board.URL},
		Strategies:    DefaultStrategies(),
	}

	notices := testPipeline().CollectStatic(context.Background(), cfg)
	if len(notices) != 2 {
		t.Fatalf("페치 실패와 빈 결과를 지나 세 번째 후보에서 수집되어야 합니다, got %d", len(notices))
	}
}

func TestPipeline_CollectStatic_AnchorFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `<html><body>
<ul class="news">
  <li><a href="/bbs/view.do?id=7">2025년 행복주택 입주자 모집공고</a></li>
  <li><a href="/bbs/notice">공지사항</a></li>
</ul>
</body></html>`)
	}))
	defer server.Close()

	cfg := SourceConfig{
		Source:        model.NoticeSourceSH,
		CandidateURLs: []string{server.URL},
		Strategies:    DefaultStrategies(),
		DefaultDept:   "서울주택도시공사",
	}

	notices := testPipeline().CollectStatic(context.Background(), cfg)
	if len(notices) != 1 {
		t.Fatalf("표 전략 전멸 시 앵커 스캔으로 1건이 수집되어야 합니다, got %d", len(notices))
	}
	if notices[0].Title != "2025년 행복주택 입주자 모집공고" {
		t.Errorf("제목이 다릅니다: %q", notices[0].Title)
	}
}

func TestPipeline_CollectStatic_AllCandidatesFail(t *testing.T) {
	cfg := SourceConfig{
		Source:        model.NoticeSourceSH,
		CandidateURLs: []string{"http://unreachable.invalid/a", "http://unreachable.invalid/b"},
		Strategies:    DefaultStrategies(),
	}

	notices := testPipeline().CollectStatic(context.Background(), cfg)
	if len(notices) != 0 {
		t.Errorf("모든 후보가 실패하면 빈 결과여야 합니다, got %d", len(notices))
	}
}

func TestPipeline_CollectStatic_LegacyEncoding(t *testing.T) {
	encoded, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(boardHTML))
	if err != nil {
		t.Fatalf("테스트 데이터 인코딩에 실패했습니다: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		w.Write(encoded)
	}))
	defer server.Close()

	cfg := SourceConfig{
		Source:         model.NoticeSourceSH,
		CandidateURLs:  []string{server.URL},
		Strategies:     DefaultStrategies(),
		LegacyEncoding: true,
	}

	notices := testPipeline().CollectStatic(context.Background(), cfg)
	if len(notices) != 2 {
		t.Fatalf("EUC-KR 페이지가 디코딩되어 수집되어야 합니다, got %d", len(notices))
	}
	if notices[0].Title != "2025년 청년 매입임대주택 모집공고" {
		t.Errorf("디코딩된 제목이 다릅니다: %q", notices[0].Title)
	}
}

// fakeRenderer 는 고정 HTML 을 반환하는 테스트용 Renderer.
type fakeRenderer struct {
	html string
	err  error
}

func (r fakeRenderer) RenderHTML(context.Context, string) (string, error) {
	return r.html, r.err
}

func TestPipeline_CollectRendered_AppliesSameStrategies(t *testing.T) {
	cfg := SourceConfig{
		Source:        model.NoticeSourceLH,
		CandidateURLs: []string{"https://apply.lh.or.kr/list.do"},
		Strategies:    DefaultStrategies(),
	}

	notices := testPipeline().CollectRendered(context.Background(), cfg, fakeRenderer{html: boardHTML})
	if len(notices) != 2 {
		t.Fatalf("렌더링된 DOM 에서 2건이 수집되어야 합니다, got %d", len(notices))
	}
}

func TestDecodeEUCKR_Utf8Passthrough(t *testing.T) {
	original := []byte("2025년 청년 매입임대주택 모집공고")
	if got := DecodeEUCKR(original); string(got) != string(original) {
		t.Errorf("이미 UTF-8 인 바이트는 원본이 유지되어야 합니다: %q", got)
	}
}

func TestDecodeEUCKR_DecodesLegacyBytes(t *testing.T) {
	encoded, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte("청년 매입임대"))
	if err != nil {
		t.Fatalf("테스트 데이터 인코딩에 실패했습니다: %v", err)
	}
	if got := DecodeEUCKR(encoded); string(got) != "청년 매입임대" {
		t.Errorf("EUC-KR 바이트가 디코딩되어야 합니다: %q", got)
	}
}
