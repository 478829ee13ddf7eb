package scrape

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// titleScanWindow 는 제목 셀을 찾기 위해 검사하는 행 선두 셀의 개수.
// 번호/구분 셀 뒤 몇 칸 안에 제목이 오는 게시판 레이아웃을 전제한다.
const titleScanWindow = 4

// RawRow 는 표 행 1개에서 추출한 원시 데이터를 나타낸다.
type RawRow struct {
	Title string
	Href  string
	Cells []string
}

// RowStrategy 는 문서에서 공고 행을 추출하는 선택자 전략 1개를 나타낸다.
// 전략은 우선순위 순서의 리스트로 관리하며, 첫 번째로 비어 있지 않은
// 결과를 낸 전략이 채택된다 (이후 전략은 시도하지 않음).
type RowStrategy struct {
	Name     string
	Selector string // tr 단위 CSS 선택자
}

// Extract 는 문서에 전략을 적용해 행 목록을 추출한다.
// 행마다 선두 titleScanWindow 개 셀을 순서대로 검사하여
// 첫 번째 "제목 형태" 셀을 채택하고 해당 행의 검사를 종료한다.
// 매칭되는 행이 없으면 nil 을 반환한다.
func (s RowStrategy) Extract(doc *goquery.Document) []RawRow {
	var rows []RawRow

	doc.Find(s.Selector).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() == 0 {
			return
		}

		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(cell.Text()))
		})

		window := titleScanWindow
		if len(texts) < window {
			window = len(texts)
		}

		for i := 0; i < window; i++ {
			if !IsTitleText(texts[i]) {
				continue
			}

			href, _ := cells.Eq(i).Find("a").First().Attr("href")
			rows = append(rows, RawRow{
				Title: texts[i],
				Href:  href,
				Cells: texts,
			})
			break // 행당 첫 매칭 셀에서 중단
		}
	})

	return rows
}

// DefaultStrategies 는 게시판 레이아웃에 대한 선택자 우선순위 목록을 반환한다.
// 구체적인 목록 구조 → 일반 tbody → 헤더 행 포함 전체 순으로 느슨해진다.
func DefaultStrategies() []RowStrategy {
	return []RowStrategy{
		{Name: "list-table", Selector: "table.tbl_list tbody tr"},
		{Name: "board-table", Selector: ".bbs_list tbody tr"},
		{Name: "generic-tbody", Selector: "table tbody tr"},
		{Name: "generic-table", Selector: "table tr"},
	}
}

// dateRe 는 공고 목록에 흔한 날짜 표기 (2025.03.01 / 2025-03-01 / 2025/3/1).
var dateRe = regexp.MustCompile(`\d{4}[.\-/]\d{1,2}[.\-/]\d{1,2}`)

// regionRe 는 광역 지자체 명칭.
var regionRe = regexp.MustCompile(`서울|경기|인천|부산|대구|광주|대전|울산|세종|강원|충북|충남|전북|전남|경북|경남|제주|전국`)

// maxRegionRunes 는 지역 셀로 인정하는 최대 글자 수.
// 제목처럼 긴 셀이 지역 키워드를 포함해도 지역으로 오인하지 않기 위한 상한.
const maxRegionRunes = 10

// FieldsFromRow 는 제목 외 셀에서 지역/마감일/등록일을 휴리스틱으로 추출한다.
// 제목 이후 첫 날짜 형태 셀을 마감일, 두 번째를 등록일로 본다.
func FieldsFromRow(row RawRow) (region, due, regDate string) {
	for _, c := range row.Cells {
		if c == row.Title {
			continue
		}

		if region == "" && utf8.RuneCountInString(c) <= maxRegionRunes && regionRe.MatchString(c) {
			region = c
			continue
		}

		if d := dateRe.FindString(c); d != "" {
			if due == "" {
				due = d
			} else if regDate == "" {
				regDate = d
			}
		}
	}
	return region, due, regDate
}
