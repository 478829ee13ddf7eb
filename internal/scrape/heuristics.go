// Package scrape 는 LH/SH 공고 페이지의 스크레이핑 파이프라인을 제공한다.
// 후보 URL × 선택자 전략의 순차 폴백 체인, 앵커 스캔 폴백,
// 헤드리스 브라우저 티어를 포함한다.
package scrape

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minTitleRunes 는 제목으로 인정하는 최소 글자 수 (초과 조건).
const minTitleRunes = 8

// headerWords 는 표 헤더로 흔히 쓰이는 단어. 제목 후보에서 제외한다.
var headerWords = map[string]bool{
	"번호":  true,
	"제목":  true,
	"구분":  true,
	"등록일": true,
	"조회":  true,
}

// titleKeywordRe 는 표 셀이 공고 제목인지 판정하는 키워드 집합.
var titleKeywordRe = regexp.MustCompile(`공고|모집|청약|분양|임대|매입|신혼|행복`)

// anchorKeywordRe 는 앵커 스캔 폴백에서 쓰는 더 느슨한 키워드 집합.
var anchorKeywordRe = regexp.MustCompile(`공고|모집|청약|분양|임대|주택`)

// numericOnlyRe 는 순수 숫자 텍스트 (게시물 번호 셀 등).
var numericOnlyRe = regexp.MustCompile(`^[0-9]+$`)

// IsTitleText 는 셀 텍스트가 "제목 형태"인지 판정한다.
// 규칙은 고정된 순서로 적용하며 첫 실패에서 바로 반환한다:
//  1. 글자 수가 minTitleRunes 를 초과할 것
//  2. 순수 숫자가 아닐 것
//  3. 표 헤더 단어와 일치하지 않을 것
//  4. 제목 키워드를 하나 이상 포함할 것
func IsTitleText(text string) bool {
	t := strings.TrimSpace(text)

	if utf8.RuneCountInString(t) <= minTitleRunes {
		return false
	}
	if numericOnlyRe.MatchString(t) {
		return false
	}
	if headerWords[t] {
		return false
	}
	return titleKeywordRe.MatchString(t)
}

// IsAnchorTitleText 는 앵커 텍스트가 공고 제목으로 볼 만한지 판정한다.
// 표 기반 전략이 전부 실패한 뒤의 폴백이므로 키워드 집합이 더 느슨하다.
func IsAnchorTitleText(text string) bool {
	t := strings.TrimSpace(text)

	if utf8.RuneCountInString(t) <= minTitleRunes {
		return false
	}
	if numericOnlyRe.MatchString(t) {
		return false
	}
	if headerWords[t] {
		return false
	}
	return anchorKeywordRe.MatchString(t)
}
