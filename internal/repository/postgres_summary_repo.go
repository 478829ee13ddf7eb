package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// PostgresSummaryRepo 는 PostgreSQL 을 사용하는 요약 리포지토리.
type PostgresSummaryRepo struct {
	db *sql.DB
}

// NewPostgresSummaryRepo 는 PostgresSummaryRepo 를 생성한다.
func NewPostgresSummaryRepo(db *sql.DB) *PostgresSummaryRepo {
	return &PostgresSummaryRepo{db: db}
}

// FindByVideoID 는 지정 동영상의 요약을 조회한다. 없으면 nil 을 반환한다.
func (r *PostgresSummaryRepo) FindByVideoID(ctx context.Context, videoID string) (*model.VideoSummary, error) {
	s := &model.VideoSummary{}
	var summaryData []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT video_id, summary_data, created_at, updated_at
		 FROM youtube_video_summaries WHERE video_id = $1`,
		videoID,
	).Scan(&s.VideoID, &summaryData, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("요약 조회에 실패했습니다: %w", err)
	}

	s.SummaryData = summaryData

	return s, nil
}

// Upsert 는 video_id 를 키로 요약을 UPSERT 한다.
func (r *PostgresSummaryRepo) Upsert(ctx context.Context, summary *model.VideoSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO youtube_video_summaries (video_id, summary_data, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (video_id) DO UPDATE SET
		    summary_data = EXCLUDED.summary_data,
		    updated_at   = now()`,
		summary.VideoID, []byte(summary.SummaryData),
	)
	if err != nil {
		return fmt.Errorf("요약 UPSERT 에 실패했습니다: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SummaryRepository = (*PostgresSummaryRepo)(nil)
