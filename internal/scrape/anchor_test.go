package scrape

import "testing"

func TestScanAnchors_CollectsNoticeLinks(t *testing.T) {
	html := []byte(`<html><body>
<div class="list">
  <a href="/bbs/view.do?id=100">2025년 신혼부부 매입임대주택 모집공고</a>
  <a href="/sitemap">사이트맵</a>
  <a href="https://example.com/other">행복주택 청약 신청 안내 바로가기</a>
</div>
</body></html>`)

	rows := ScanAnchors(html, "https://www.i-sh.co.kr/main/list.do")
	if len(rows) != 2 {
		t.Fatalf("공고 형태 링크 2개가 수집되어야 합니다, got %d", len(rows))
	}

	if rows[0].Href != "https://www.i-sh.co.kr/bbs/view.do?id=100" {
		t.Errorf("상대 href 가 절대 URL 로 해석되어야 합니다: %q", rows[0].Href)
	}
	if rows[1].Href != "https://example.com/other" {
		t.Errorf("절대 href 는 그대로 유지되어야 합니다: %q", rows[1].Href)
	}
}

func TestScanAnchors_JavascriptHrefDropped(t *testing.T) {
	html := []byte(`<a href="javascript:viewDetail(100)">2025년 청년 매입임대주택 모집공고</a>`)

	rows := ScanAnchors(html, "https://apply.lh.or.kr/list.do")
	if len(rows) != 1 {
		t.Fatalf("행 1개가 수집되어야 합니다, got %d", len(rows))
	}
	if rows[0].Href != "" {
		t.Errorf("자바스크립트 href 는 빈 문자열이어야 합니다: %q", rows[0].Href)
	}
}

func TestScanAnchors_NestedMarkupText(t *testing.T) {
	html := []byte(`<a href="/n/1"><span class="cate">[모집]</span> 국민임대주택 예비입주자 모집공고</a>`)

	rows := ScanAnchors(html, "https://apply.lh.or.kr/list.do")
	if len(rows) != 1 {
		t.Fatalf("중첩 마크업 안의 텍스트도 수집되어야 합니다, got %d", len(rows))
	}
	if rows[0].Title != "[모집] 국민임대주택 예비입주자 모집공고" {
		t.Errorf("앵커 내부 텍스트가 공백 정규화되어 합쳐져야 합니다: %q", rows[0].Title)
	}
}

func TestScanAnchors_NoMatches(t *testing.T) {
	html := []byte(`<html><body><a href="/login">로그인</a></body></html>`)

	rows := ScanAnchors(html, "https://apply.lh.or.kr/")
	if len(rows) != 0 {
		t.Errorf("공고 형태가 아닌 링크는 수집되지 않아야 합니다, got %d", len(rows))
	}
}
