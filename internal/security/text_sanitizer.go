// Package security 는 아웃바운드 요청의 보안 기능을 제공한다.
//
// TextSanitizerService 는 스크레이핑으로 얻은 공고 제목 등의 텍스트에서
// 마크업 잔여물을 제거한다. 정부 사이트의 마크업이 예고 없이 바뀌어
// 셀 텍스트에 태그 조각이 섞여 들어오는 경우에 대비한다.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService 는 평문 텍스트 정제 기능의 인터페이스를 정의한다.
type TextSanitizerService interface {
	// SanitizeText 는 입력에서 모든 HTML 태그를 제거하고
	// 엔티티를 복원한 평문을 반환한다. 연속 공백은 하나로 접는다.
	// 동일 입력에 대해 항상 동일 출력을 반환한다 (멱등).
	SanitizeText(raw string) string
}

// textSanitizer 는 TextSanitizerService 의 구현.
// bluemonday 의 StrictPolicy 를 보관하며 스레드 세이프하다.
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer 는 TextSanitizerService 의 새 인스턴스를 생성한다.
// StrictPolicy 는 모든 태그를 제거하고 텍스트만 남긴다.
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText 는 입력에서 모든 HTML 태그를 제거한 평문을 반환한다.
func (s *textSanitizer) SanitizeText(raw string) string {
	stripped := s.policy.Sanitize(raw)
	// StrictPolicy 는 엔티티를 이스케이프된 채로 남기므로 원문 텍스트로 복원한다
	unescaped := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(unescaped), " ")
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
