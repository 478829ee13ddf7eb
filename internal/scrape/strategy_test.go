package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const boardHTML = `<html><body>
<table class="tbl_list">
<thead><tr><th>번호</th><th>제목</th><th>지역</th><th>마감일</th><th>등록일</th></tr></thead>
<tbody>
<tr><td>12</td><td><a href="/notice/12">2025년 청년 매입임대주택 모집공고</a></td><td>서울</td><td>2025.09.30</td><td>2025.09.01</td></tr>
<tr><td>11</td><td><a href="/notice/11">신혼부부 전세임대 입주자 모집공고</a></td><td>경기</td><td>2025.10.15</td><td>2025.08.28</td></tr>
</tbody>
</table>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("문서 파싱에 실패했습니다: %v", err)
	}
	return doc
}

func TestRowStrategy_Extract_BoardTable(t *testing.T) {
	doc := mustDoc(t, boardHTML)
	strategy := RowStrategy{Name: "list-table", Selector: "table.tbl_list tbody tr"}

	rows := strategy.Extract(doc)
	if len(rows) != 2 {
		t.Fatalf("행 2개가 추출되어야 합니다, got %d", len(rows))
	}

	if rows[0].Title != "2025년 청년 매입임대주택 모집공고" {
		t.Errorf("첫 행의 제목이 다릅니다: %q", rows[0].Title)
	}
	if rows[0].Href != "/notice/12" {
		t.Errorf("제목 셀의 첫 앵커 href 가 채택되어야 합니다: %q", rows[0].Href)
	}
}

func TestRowStrategy_Extract_SkipsHeaderRow(t *testing.T) {
	doc := mustDoc(t, boardHTML)
	strategy := RowStrategy{Name: "generic-table", Selector: "table tr"}

	rows := strategy.Extract(doc)
	// 헤더 행은 제목 형태 셀이 없으므로 건너뛴다
	if len(rows) != 2 {
		t.Fatalf("헤더 행을 제외한 2개가 추출되어야 합니다, got %d", len(rows))
	}
}

func TestRowStrategy_Extract_TitleScanWindow(t *testing.T) {
	// 제목이 5번째 셀(윈도 밖)에 있으면 행 전체가 탈락한다
	html := `<table class="tbl_list"><tbody>
<tr><td>1</td><td>구분</td><td>서울</td><td>2025.09.30</td><td>2025년 청년 매입임대주택 모집공고</td></tr>
</tbody></table>`
	doc := mustDoc(t, html)
	strategy := RowStrategy{Name: "list-table", Selector: "table.tbl_list tbody tr"}

	rows := strategy.Extract(doc)
	if len(rows) != 0 {
		t.Errorf("선두 %d개 셀 밖의 제목은 채택되지 않아야 합니다, got %d행", titleScanWindow, len(rows))
	}
}

func TestRowStrategy_Extract_EmptyDocument(t *testing.T) {
	doc := mustDoc(t, "<html><body><p>점검 중입니다</p></body></html>")
	strategy := RowStrategy{Name: "list-table", Selector: "table.tbl_list tbody tr"}

	if rows := strategy.Extract(doc); rows != nil {
		t.Errorf("표가 없으면 nil 이어야 합니다, got %v", rows)
	}
}

func TestFieldsFromRow_AssignsDatesInOrder(t *testing.T) {
	row := RawRow{
		Title: "2025년 청년 매입임대주택 모집공고",
		Cells: []string{"12", "2025년 청년 매입임대주택 모집공고", "서울", "2025.09.30", "2025.09.01"},
	}

	region, due, regDate := FieldsFromRow(row)
	if region != "서울" {
		t.Errorf("지역 셀이 추출되어야 합니다: %q", region)
	}
	if due != "2025.09.30" {
		t.Errorf("첫 날짜 셀이 마감일이어야 합니다: %q", due)
	}
	if regDate != "2025.09.01" {
		t.Errorf("두 번째 날짜 셀이 등록일이어야 합니다: %q", regDate)
	}
}

func TestFieldsFromRow_LongCellNotRegion(t *testing.T) {
	row := RawRow{
		Title: "청년 행복주택 입주자 모집공고문",
		Cells: []string{"청년 행복주택 입주자 모집공고문", "서울시 전역 및 경기 일부 지역 대상 공고"},
	}

	region, _, _ := FieldsFromRow(row)
	if region != "" {
		t.Errorf("지역 키워드를 포함해도 긴 셀은 지역으로 오인하지 않아야 합니다: %q", region)
	}
}

func TestDefaultStrategies_Order(t *testing.T) {
	strategies := DefaultStrategies()
	if len(strategies) != 4 {
		t.Fatalf("전략은 4개여야 합니다, got %d", len(strategies))
	}
	if strategies[0].Name != "list-table" {
		t.Errorf("가장 구체적인 전략이 첫 번째여야 합니다: %q", strategies[0].Name)
	}
	if strategies[3].Name != "generic-table" {
		t.Errorf("가장 느슨한 전략이 마지막이어야 합니다: %q", strategies[3].Name)
	}
}
