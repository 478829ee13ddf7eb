// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// ChannelRepository 는 YouTube 채널 캐시 행의 영속화 인터페이스.
type ChannelRepository interface {
	// FindByKey 는 channel_id 또는 channel_handle 로 채널을 조회한다.
	// 호출자가 ID 와 핸들 중 무엇을 알고 있을지 모르므로 두 키를 동등하게 취급한다.
	// 복수 매칭 시 가장 최근에 갱신된 행을 반환한다. 없으면 nil 을 반환한다.
	FindByKey(ctx context.Context, key string) (*model.Channel, error)

	// Upsert 는 channel_id 를 키로 채널을 UPSERT 한다.
	// 충돌 시 가변 필드를 전부 덮어쓰고 updated_at 을 갱신한다.
	Upsert(ctx context.Context, channel *model.Channel) error
}

// VideoRepository 는 채널별 동영상 집합의 영속화 인터페이스.
type VideoRepository interface {
	// ListByChannel 은 채널의 동영상 목록을 published_at 내림차순으로 반환한다.
	// 신선도 판정은 호출자(캐시 서비스)가 updated_at 으로 수행한다.
	ListByChannel(ctx context.Context, channelID string) ([]*model.Video, error)

	// FindByID 는 동영상 1건을 조회한다. 없으면 nil 을 반환한다.
	// 요약 생성 시 대상 동영상의 메타데이터를 얻기 위해 사용한다.
	FindByID(ctx context.Context, videoID string) (*model.Video, error)

	// ReplaceByChannel 은 채널의 동영상 집합을 단일 트랜잭션으로 통째로 교체한다.
	// FK 의존성 순서에 따라 기존 동영상의 요약 → 기존 동영상 → 신규 집합 삽입 순으로 처리한다.
	// 중간 실패 시 전체 롤백되어 기존 집합이 그대로 유지된다.
	ReplaceByChannel(ctx context.Context, channelID string, videos []*model.Video) error
}

// SummaryRepository 는 동영상 요약 캐시 행의 영속화 인터페이스.
type SummaryRepository interface {
	// FindByVideoID 는 지정 동영상의 요약을 조회한다. 없으면 nil 을 반환한다.
	FindByVideoID(ctx context.Context, videoID string) (*model.VideoSummary, error)

	// Upsert 는 video_id 를 키로 요약을 UPSERT 한다.
	Upsert(ctx context.Context, summary *model.VideoSummary) error
}
