package scrape

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ScanAnchors 는 표 기반 전략이 전부 빈 결과를 낸 경우의 폴백으로,
// 문서 전체의 <a> 요소를 스캔해 공고 제목으로 볼 만한 링크를 수집한다.
// 상대 href 는 baseURL 기준으로 절대 URL 로 해석한다.
func ScanAnchors(htmlBody []byte, baseURL string) []RawRow {
	var rows []RawRow

	baseU, err := url.Parse(baseURL)
	if err != nil {
		return rows
	}

	tokenizer := html.NewTokenizer(bytes.NewReader(htmlBody))

	var inAnchor bool
	var href string
	var text strings.Builder

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return rows

		case html.StartTagToken:
			tn, hasAttr := tokenizer.TagName()
			if string(tn) != "a" {
				continue
			}

			inAnchor = true
			href = ""
			text.Reset()

			if !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if strings.ToLower(string(key)) == "href" {
					href = string(val)
				}
				if !more {
					break
				}
			}

		case html.TextToken:
			if inAnchor {
				text.Write(tokenizer.Text())
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) != "a" || !inAnchor {
				continue
			}
			inAnchor = false

			title := strings.Join(strings.Fields(text.String()), " ")
			if !IsAnchorTitleText(title) {
				continue
			}

			rows = append(rows, RawRow{
				Title: title,
				Href:  resolveHref(baseU, href),
				Cells: []string{title},
			})
		}
	}
}

// resolveHref 는 상대 href 를 baseURL 기준 절대 URL 로 해석한다.
// 해석 불가능하면 빈 문자열을 반환한다 (집계 단계에서 검색 URL 로 대체됨).
func resolveHref(base *url.URL, rawRef string) string {
	if rawRef == "" {
		return ""
	}
	// 자바스크립트 내비게이션은 링크로서 의미가 없다
	if strings.HasPrefix(strings.ToLower(rawRef), "javascript:") {
		return ""
	}
	ref, err := url.Parse(rawRef)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
