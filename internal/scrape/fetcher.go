package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/dongkyukim1/myhouse-sub000/internal/security"
)

// userAgent 는 스크레이핑 요청에 사용하는 UA 문자열.
const userAgent = "MyhouseSub/1.0 Housing Notice Aggregator"

// StaticFetcher 는 정적 HTTP 페치와 문서 파싱을 수행한다.
// 모든 요청은 SSRF 방지 클라이언트를 통과하며 응답 크기가 제한된다.
type StaticFetcher struct {
	guard       security.SSRFGuardService
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewStaticFetcher 는 StaticFetcher 의 새 인스턴스를 생성한다.
func NewStaticFetcher(guard security.SSRFGuardService, logger *slog.Logger, timeout time.Duration, maxBodySize int64) *StaticFetcher {
	return &StaticFetcher{
		guard:       guard,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch 는 지정 URL 의 HTML 을 가져온다.
// legacyEncoding 이 true 이면 응답 바이트를 EUC-KR 로 먼저 디코딩하고,
// 디코딩이 실패하면 UTF-8 원문을 그대로 사용한다 (SH 구 페이지 대응).
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string, legacyEncoding bool) ([]byte, error) {
	if err := f.guard.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("URL 검증에 실패했습니다: %w", err)
	}

	client := f.guard.NewSafeClient(f.timeout, f.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성에 실패했습니다: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, application/xhtml+xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청에 실패했습니다: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 상태 %d 를 수신했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}

	if legacyEncoding {
		body = DecodeEUCKR(body)
	}

	return body, nil
}

// Document 는 Fetch 결과를 goquery 문서로 파싱해 원문 바이트와 함께 반환한다.
// 원문 바이트는 앵커 스캔 폴백에서 재사용된다.
func (f *StaticFetcher) Document(ctx context.Context, rawURL string, legacyEncoding bool) (*goquery.Document, []byte, error) {
	body, err := f.Fetch(ctx, rawURL, legacyEncoding)
	if err != nil {
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("HTML 파싱에 실패했습니다: %w", err)
	}

	return doc, body, nil
}

// DecodeEUCKR 는 EUC-KR 바이트를 UTF-8 로 디코딩한다.
// 디코딩 에러가 나거나 결과에 대체 문자가 섞이면 이미 UTF-8 인 응답으로
// 보고 원본을 그대로 반환한다.
func DecodeEUCKR(b []byte) []byte {
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), b)
	if err != nil {
		return b
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return b
	}
	return decoded
}
