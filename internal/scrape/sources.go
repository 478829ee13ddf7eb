package scrape

import (
	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// SourceConfig 는 공고 소스 1곳의 수집 설정을 나타낸다.
// CandidateURLs 의 순서는 의미를 가진다: 앞선 URL 에서 비어 있지 않은
// 결과가 나오면 이후 URL 은 시도하지 않는다.
type SourceConfig struct {
	Source         model.NoticeSource
	CandidateURLs  []string
	Strategies     []RowStrategy
	LegacyEncoding bool // EUC-KR 우선 디코딩 (SH 구 페이지)
	DefaultDept    string
	SearchURL      string // href 폴백용 검색 URL prefix (제목을 인코딩해 덧붙임)
}

// LHSource 는 한국토지주택공사(LH) 공고 소스 설정을 반환한다.
func LHSource() SourceConfig {
	return SourceConfig{
		Source: model.NoticeSourceLH,
		CandidateURLs: []string{
			"https://apply.lh.or.kr/lhapply/apply/wt/wrtanc/selectWrtancList.do?mi=1026",
			"https://apply.lh.or.kr/lhapply/apply/wt/wrtanc/selectWrtancList.do",
			"https://www.lh.or.kr/menu.es?mid=a10401010200",
		},
		Strategies:  DefaultStrategies(),
		DefaultDept: "한국토지주택공사",
		SearchURL:   "https://search.naver.com/search.naver?query=",
	}
}

// SHSource 는 서울주택도시공사(SH) 공고 소스 설정을 반환한다.
// relayURL 이 비어 있지 않으면 직접 스크레이핑보다 먼저 시도한다
// (내부 중계 엔드포인트, 선택 구성).
func SHSource(relayURL string) SourceConfig {
	urls := []string{}
	if relayURL != "" {
		urls = append(urls, relayURL)
	}
	urls = append(urls,
		"https://www.i-sh.co.kr/main/lay2/program/S1T294C297/www/brd/m_247/list.do",
		"https://www.i-sh.co.kr/app/lay2/program/S48T1581C563/www/brd/m_241/list.do",
		"https://housing.seoul.go.kr/site/main/sh/publicLease/list",
	)

	return SourceConfig{
		Source:         model.NoticeSourceSH,
		CandidateURLs:  urls,
		Strategies:     DefaultStrategies(),
		LegacyEncoding: true,
		DefaultDept:    "서울주택도시공사",
		SearchURL:      "https://www.i-sh.co.kr/main/search/search.do?query=",
	}
}
