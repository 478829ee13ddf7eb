package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer 는 렌더링된 DOM 의 HTML 을 반환하는 2차 티어 페치 백엔드.
// 정적 페치가 양 소스 모두에서 0건을 낸 경우에만 호출된다.
type Renderer interface {
	// RenderHTML 은 지정 URL 을 렌더링한 뒤 전체 DOM 의 HTML 을 반환한다.
	RenderHTML(ctx context.Context, url string) (string, error)
}

// ChromeRenderer 는 chromedp 로 요청마다 새 브라우저 프로세스를 기동하는
// Renderer 구현. 프로세스는 스코프 종료 시 모든 경로에서 해제된다.
type ChromeRenderer struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewChromeRenderer 는 ChromeRenderer 의 새 인스턴스를 생성한다.
func NewChromeRenderer(logger *slog.Logger, timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{
		logger:  logger,
		timeout: timeout,
	}
}

// RenderHTML 은 헤드리스 브라우저로 URL 을 렌더링해 DOM HTML 을 반환한다.
// cancel 은 defer 로 호출되므로 에러 경로를 포함한 모든 경로에서
// 브라우저 프로세스가 종료된다.
func (r *ChromeRenderer) RenderHTML(ctx context.Context, url string) (string, error) {
	start := time.Now()

	ctx, cancelTimeout := context.WithTimeout(ctx, r.timeout)
	defer cancelTimeout()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var rendered string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", fmt.Errorf("브라우저 렌더링에 실패했습니다: %w", err)
	}

	r.logger.Info("browser render completed",
		slog.String("url", url),
		slog.Int("html_bytes", len(rendered)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return rendered, nil
}

// compile-time interface check
var _ Renderer = (*ChromeRenderer)(nil)
