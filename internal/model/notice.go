// Package model 은 도메인 모델을 정의한다.
package model

// NoticeSource 는 공고의 출처 기관을 나타낸다.
type NoticeSource string

const (
	// NoticeSourceLH 는 한국토지주택공사(LH) 공고.
	NoticeSourceLH NoticeSource = "LH"
	// NoticeSourceSH 는 서울주택도시공사(SH) 공고.
	NoticeSourceSH NoticeSource = "SH"
)

// Notice 는 주택 공고 1건을 나타낸다.
// 요청 단위로 수집되는 휘발성 데이터이며 영속화하지 않는다.
// 동일성은 단일 수집 패스 내에서 제목 일치로만 판정한다.
type Notice struct {
	Source  NoticeSource `json:"source"`
	Title   string       `json:"title"`
	Href    string       `json:"href"`
	Region  string       `json:"region,omitempty"`
	Due     string       `json:"due,omitempty"`
	Dept    string       `json:"dept,omitempty"`
	RegDate string       `json:"regDate,omitempty"`
	// Synthetic 은 SH 백필로 생성된 가짜 공고임을 표시한다.
	// 실제 스크레이핑 결과에는 포함되지 않는다.
	Synthetic bool `json:"synthetic,omitempty"`
}
