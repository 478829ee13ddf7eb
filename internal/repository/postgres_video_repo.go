package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// PostgresVideoRepo 는 PostgreSQL 을 사용하는 동영상 리포지토리.
type PostgresVideoRepo struct {
	db *sql.DB
}

// NewPostgresVideoRepo 는 PostgresVideoRepo 를 생성한다.
func NewPostgresVideoRepo(db *sql.DB) *PostgresVideoRepo {
	return &PostgresVideoRepo{db: db}
}

// ListByChannel 은 채널의 동영상 목록을 published_at 내림차순으로 반환한다.
func (r *PostgresVideoRepo) ListByChannel(ctx context.Context, channelID string) ([]*model.Video, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT video_id, channel_id, title, description, published_at, duration,
		        view_count, like_count, comment_count, thumbnail_url,
		        video_data, created_at, updated_at
		 FROM youtube_videos
		 WHERE channel_id = $1
		 ORDER BY published_at DESC NULLS LAST`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("동영상 목록 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		v := &model.Video{}
		var publishedAt sql.NullTime
		var videoData []byte

		if err := rows.Scan(
			&v.VideoID, &v.ChannelID, &v.Title, &v.Description, &publishedAt, &v.Duration,
			&v.ViewCount, &v.LikeCount, &v.CommentCount, &v.ThumbnailURL,
			&videoData, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("동영상 행 읽기에 실패했습니다: %w", err)
		}

		if publishedAt.Valid {
			t := publishedAt.Time
			v.PublishedAt = &t
		}
		v.VideoData = videoData

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("동영상 목록 순회에 실패했습니다: %w", err)
	}

	return videos, nil
}

// FindByID 는 동영상 1건을 조회한다. 없으면 nil 을 반환한다.
func (r *PostgresVideoRepo) FindByID(ctx context.Context, videoID string) (*model.Video, error) {
	v := &model.Video{}
	var publishedAt sql.NullTime
	var videoData []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT video_id, channel_id, title, description, published_at, duration,
		        view_count, like_count, comment_count, thumbnail_url,
		        video_data, created_at, updated_at
		 FROM youtube_videos
		 WHERE video_id = $1`,
		videoID,
	).Scan(
		&v.VideoID, &v.ChannelID, &v.Title, &v.Description, &publishedAt, &v.Duration,
		&v.ViewCount, &v.LikeCount, &v.CommentCount, &v.ThumbnailURL,
		&videoData, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("동영상 조회에 실패했습니다: %w", err)
	}

	if publishedAt.Valid {
		t := publishedAt.Time
		v.PublishedAt = &t
	}
	v.VideoData = videoData

	return v, nil
}

// ReplaceByChannel 은 채널의 동영상 집합을 단일 트랜잭션으로 통째로 교체한다.
// 삭제 순서는 FK 의존성을 따른다: 기존 동영상의 요약 → 기존 동영상 → 신규 삽입.
// 어느 단계에서든 실패하면 전체 롤백되어 기존 집합이 그대로 남는다.
func (r *PostgresVideoRepo) ReplaceByChannel(ctx context.Context, channelID string, videos []*model.Video) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("트랜잭션 시작에 실패했습니다: %w", err)
	}
	defer tx.Rollback()

	// 기존 동영상에 매달린 요약을 먼저 제거
	_, err = tx.ExecContext(ctx,
		`DELETE FROM youtube_video_summaries
		 WHERE video_id IN (SELECT video_id FROM youtube_videos WHERE channel_id = $1)`,
		channelID,
	)
	if err != nil {
		return fmt.Errorf("기존 요약 삭제에 실패했습니다: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM youtube_videos WHERE channel_id = $1`,
		channelID,
	)
	if err != nil {
		return fmt.Errorf("기존 동영상 삭제에 실패했습니다: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO youtube_videos (
		    video_id, channel_id, title, description, published_at, duration,
		    view_count, like_count, comment_count, thumbnail_url,
		    video_data, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`,
	)
	if err != nil {
		return fmt.Errorf("동영상 삽입 준비에 실패했습니다: %w", err)
	}
	defer stmt.Close()

	for _, v := range videos {
		var publishedAt sql.NullTime
		if v.PublishedAt != nil {
			publishedAt = sql.NullTime{Time: *v.PublishedAt, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			v.VideoID, channelID, v.Title, v.Description, publishedAt, v.Duration,
			v.ViewCount, v.LikeCount, v.CommentCount, v.ThumbnailURL,
			nullBytes(v.VideoData),
		)
		if err != nil {
			return fmt.Errorf("동영상 삽입에 실패했습니다 (%s): %w", v.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("트랜잭션 커밋에 실패했습니다: %w", err)
	}

	return nil
}

// compile-time interface check
var _ VideoRepository = (*PostgresVideoRepo)(nil)
