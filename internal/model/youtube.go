// Package model 은 도메인 모델을 정의한다.
package model

import (
	"encoding/json"
	"time"
)

// Channel 은 캐시된 YouTube 채널 메타데이터를 나타낸다.
// channel_id 가 기본 키이며 channel_handle 로도 조회할 수 있다.
// ChannelData 는 아직 모델링하지 않은 필드를 보존하기 위한 원본 응답이다.
type Channel struct {
	ChannelID         string
	ChannelHandle     string
	Title             string
	Description       string
	ThumbnailURL      string
	SubscriberCount   int64
	VideoCount        int64
	ViewCount         int64
	UploadsPlaylistID string
	ChannelData       json.RawMessage
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Video 는 캐시된 YouTube 동영상 메타데이터를 나타낸다.
// 한 채널의 동영상 집합은 갱신 시 통째로 교체된다. 부분 갱신은 하지 않는다.
type Video struct {
	VideoID      string
	ChannelID    string
	Title        string
	Description  string
	PublishedAt  *time.Time
	Duration     string // ISO-8601 (예: "PT12M34S")
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	ThumbnailURL string
	VideoData    json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VideoSummary 는 동영상 1건에 대한 AI 요약 캐시 행을 나타낸다.
// 동영상 집합의 신선도와 독립적인 TTL 을 가진다 (요약 생성 비용이 크기 때문).
type VideoSummary struct {
	VideoID     string
	SummaryData json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SummaryEnvelope 는 summary_data 에 저장되는 타입 있는 투영이다.
// 시스템이 실제로 읽는 필드만 정의하며, 요약 생성기의 원본 응답은
// VideoSummary.SummaryData 에 그대로 보존된다.
type SummaryEnvelope struct {
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords,omitempty"`
	Category   string   `json:"category,omitempty"`
	VideoTitle string   `json:"videoTitle,omitempty"`
	ChannelID  string   `json:"channelId,omitempty"`
}
