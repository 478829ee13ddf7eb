// Package notice 는 LH/SH 공고의 집계와 응답 셰이핑을 담당한다.
// 수집 파이프라인의 원시 결과를 받아 중복 제거, 키워드 필터,
// 링크 보정, 소스별 정렬·상한을 적용한 최종 목록을 만든다.
package notice

import (
	"net/url"
	"regexp"
	"sort"
	"time"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// perSourceCap 은 소스별 최종 공고 건수 상한.
// 한 소스가 결과 전체를 독점하지 못하도록 균형을 보장한다.
const perSourceCap = 20

// filterRe 는 집계 단계의 전역 필터.
// 수집 단계의 행 판정과 별개로 제목+지역에 다시 적용되는 더 엄격한 필터다.
var filterRe = regexp.MustCompile(`청년|신혼|행복|국민|매입|분양|임대`)

// dateLayouts 는 regDate/due 파싱에 시도하는 날짜 형식.
var dateLayouts = []string{"2006.01.02", "2006-01-02", "2006/1/2", "2006.1.2"}

// Aggregate 는 수집된 공고를 최종 응답 목록으로 집계한다.
// 처리 순서: 소스+제목 중복 제거 → 전역 키워드 필터 → 링크 보정 →
// 소스별 날짜 내림차순 정렬 → 소스별 상한 적용 → LH, SH 순 연결.
func Aggregate(lhNotices, shNotices []model.Notice, lhSearchURL, shSearchURL string) []model.Notice {
	merged := append(append([]model.Notice{}, lhNotices...), shNotices...)

	merged = dedupe(merged)
	merged = filterByKeyword(merged)

	var lh, sh []model.Notice
	for _, n := range merged {
		switch n.Source {
		case model.NoticeSourceLH:
			n.Href = ensureHref(n, lhSearchURL)
			lh = append(lh, n)
		case model.NoticeSourceSH:
			n.Href = ensureHref(n, shSearchURL)
			sh = append(sh, n)
		}
	}

	lh = sortAndCap(lh)
	sh = sortAndCap(sh)

	result := make([]model.Notice, 0, len(lh)+len(sh))
	result = append(result, lh...)
	result = append(result, sh...)
	return result
}

// dedupe 는 소스+제목이 완전히 일치하는 중복을 제거한다 (첫 항목 유지).
func dedupe(notices []model.Notice) []model.Notice {
	seen := make(map[string]bool, len(notices))
	out := notices[:0]
	for _, n := range notices {
		key := string(n.Source) + "\x00" + n.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// filterByKeyword 는 제목+지역이 전역 키워드 필터와 일치하는 항목만 남긴다.
// 입력 슬라이스는 변경하지 않는다 (dedupe 결과와 배킹 배열을 공유하지 않도록).
func filterByKeyword(notices []model.Notice) []model.Notice {
	out := make([]model.Notice, 0, len(notices))
	for _, n := range notices {
		if filterRe.MatchString(n.Title + " " + n.Region) {
			out = append(out, n)
		}
	}
	return out
}

// ensureHref 는 href 가 비어 있으면 제목을 인코딩한 검색 URL 을 합성한다.
// UI 가 죽은 링크를 렌더링하지 않도록 보장한다.
func ensureHref(n model.Notice, searchURL string) string {
	if n.Href != "" {
		return n.Href
	}
	return searchURL + url.QueryEscape(n.Title)
}

// sortAndCap 은 날짜 내림차순의 안정 정렬 후 상한을 적용한다.
// 날짜는 regDate 우선, 없으면 due 로 파싱한다.
// 파싱 가능한 날짜가 파싱 불가능한 날짜("상시", "미정" 등)보다 항상 앞서고,
// 파싱 불가능한 날짜끼리는 동순위로 입력 순서를 유지한다.
func sortAndCap(notices []model.Notice) []model.Notice {
	sort.SliceStable(notices, func(i, j int) bool {
		ti, okI := parseNoticeDate(notices[i])
		tj, okJ := parseNoticeDate(notices[j])
		if okI && okJ {
			return ti.After(tj)
		}
		return okI && !okJ
	})

	if len(notices) > perSourceCap {
		notices = notices[:perSourceCap]
	}
	return notices
}

// parseNoticeDate 는 regDate, due 순으로 날짜 파싱을 시도한다.
func parseNoticeDate(n model.Notice) (time.Time, bool) {
	for _, raw := range []string{n.RegDate, n.Due} {
		if raw == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
