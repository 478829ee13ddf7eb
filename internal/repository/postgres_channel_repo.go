package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// PostgresChannelRepo 는 PostgreSQL 을 사용하는 채널 리포지토리.
type PostgresChannelRepo struct {
	db *sql.DB
}

// NewPostgresChannelRepo 는 PostgresChannelRepo 를 생성한다.
func NewPostgresChannelRepo(db *sql.DB) *PostgresChannelRepo {
	return &PostgresChannelRepo{db: db}
}

// FindByKey 는 channel_id 또는 channel_handle 로 채널을 조회한다.
// 복수 매칭 시 updated_at 이 가장 최근인 행을 반환한다. 없으면 nil 을 반환한다.
func (r *PostgresChannelRepo) FindByKey(ctx context.Context, key string) (*model.Channel, error) {
	ch := &model.Channel{}
	var handle sql.NullString
	var channelData []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT channel_id, channel_handle, title, description, thumbnail_url,
		        subscriber_count, video_count, view_count, uploads_playlist_id,
		        channel_data, created_at, updated_at
		 FROM youtube_channels
		 WHERE channel_id = $1 OR channel_handle = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		key,
	).Scan(
		&ch.ChannelID, &handle, &ch.Title, &ch.Description, &ch.ThumbnailURL,
		&ch.SubscriberCount, &ch.VideoCount, &ch.ViewCount, &ch.UploadsPlaylistID,
		&channelData, &ch.CreatedAt, &ch.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("채널 조회에 실패했습니다: %w", err)
	}

	ch.ChannelHandle = nullStringValue(handle)
	ch.ChannelData = channelData

	return ch, nil
}

// Upsert 는 channel_id 를 키로 채널을 UPSERT 한다.
// 충돌 시 가변 필드를 전부 덮어쓰고 updated_at 을 갱신한다.
func (r *PostgresChannelRepo) Upsert(ctx context.Context, channel *model.Channel) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO youtube_channels (
		    channel_id, channel_handle, title, description, thumbnail_url,
		    subscriber_count, video_count, view_count, uploads_playlist_id,
		    channel_data, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		 ON CONFLICT (channel_id) DO UPDATE SET
		    channel_handle      = EXCLUDED.channel_handle,
		    title               = EXCLUDED.title,
		    description         = EXCLUDED.description,
		    thumbnail_url       = EXCLUDED.thumbnail_url,
		    subscriber_count    = EXCLUDED.subscriber_count,
		    video_count         = EXCLUDED.video_count,
		    view_count          = EXCLUDED.view_count,
		    uploads_playlist_id = EXCLUDED.uploads_playlist_id,
		    channel_data        = EXCLUDED.channel_data,
		    updated_at          = now()`,
		channel.ChannelID, nullString(channel.ChannelHandle),
		channel.Title, channel.Description, channel.ThumbnailURL,
		channel.SubscriberCount, channel.VideoCount, channel.ViewCount,
		channel.UploadsPlaylistID, nullBytes(channel.ChannelData),
	)
	if err != nil {
		return fmt.Errorf("채널 UPSERT 에 실패했습니다: %w", err)
	}
	return nil
}

// nullString 은 빈 문자열을 sql.NullString 으로 변환한다.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue 는 sql.NullString 에서 문자열을 꺼낸다.
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullBytes 는 빈 바이트 슬라이스를 NULL 로 저장하기 위해 nil 로 변환한다.
func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// compile-time interface check
var _ ChannelRepository = (*PostgresChannelRepo)(nil)
