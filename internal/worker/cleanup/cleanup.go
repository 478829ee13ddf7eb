// Package cleanup 은 만료된 YouTube 캐시 행의 자동 삭제 잡을 제공한다.
// 요약 TTL 을 넘긴 요약과 동영상 TTL 을 넘긴 동영상을 일 단위 배치로
// 삭제한다. 요약이 동영상을 참조하므로 (CASCADE 없음) 요약을 먼저 지우고,
// 요약이 남아 있는 동영상은 건너뛴다.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor 는 SQL 의 ExecContext 를 추상화한 인터페이스.
// *sql.DB 와 *sql.Tx 모두 받을 수 있다.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SweepJob 은 TTL 을 넘긴 캐시 행의 자동 삭제 잡.
// 일 단위 배치로 설계되었으며 멱등하다: 삭제 대상이 없어도 에러가 아니다.
type SweepJob struct {
	db     Executor
	logger *slog.Logger

	// VideoTTL 을 넘긴 동영상과 SummaryTTL 을 넘긴 요약을 삭제한다.
	// ChannelTTL 이 0 이면 채널 행은 삭제하지 않는다 (만료 없음).
	VideoTTL   time.Duration
	SummaryTTL time.Duration
	ChannelTTL time.Duration
}

// NewSweepJob 은 새 SweepJob 을 생성한다.
func NewSweepJob(db Executor, logger *slog.Logger, videoTTL, summaryTTL, channelTTL time.Duration) *SweepJob {
	return &SweepJob{
		db:         db,
		logger:     logger,
		VideoTTL:   videoTTL,
		SummaryTTL: summaryTTL,
		ChannelTTL: channelTTL,
	}
}

// Start 는 지정 간격의 티커로 잡을 기동한다.
// 기동 직후 1회 실행하고, 컨텍스트가 취소될 때까지 반복한다.
func (j *SweepJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("cache sweep job started", slog.Duration("interval", interval))

	if err := j.Run(ctx); err != nil {
		j.logger.Error("cache sweep failed", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cache sweep job stopped")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cache sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Run 은 만료 행을 1회 삭제한다.
// 삭제 순서: 요약 → 동영상 → 채널. 요약이 남은 동영상과
// 동영상이 남은 채널은 삭제하지 않는다 (외래 키 보호).
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	summaries, err := j.exec(ctx,
		`DELETE FROM youtube_video_summaries WHERE updated_at < now() - $1::interval`,
		intervalString(j.SummaryTTL),
	)
	if err != nil {
		return fmt.Errorf("만료 요약 삭제에 실패: %w", err)
	}

	videos, err := j.exec(ctx,
		`DELETE FROM youtube_videos v
		 WHERE v.updated_at < now() - $1::interval
		   AND NOT EXISTS (
		     SELECT 1 FROM youtube_video_summaries s WHERE s.video_id = v.video_id
		   )`,
		intervalString(j.VideoTTL),
	)
	if err != nil {
		return fmt.Errorf("만료 동영상 삭제에 실패: %w", err)
	}

	var channels int64
	if j.ChannelTTL > 0 {
		channels, err = j.exec(ctx,
			`DELETE FROM youtube_channels c
			 WHERE c.updated_at < now() - $1::interval
			   AND NOT EXISTS (
			     SELECT 1 FROM youtube_videos v WHERE v.channel_id = c.channel_id
			   )`,
			intervalString(j.ChannelTTL),
		)
		if err != nil {
			return fmt.Errorf("만료 채널 삭제에 실패: %w", err)
		}
	}

	j.logger.Info("cache sweep completed",
		slog.Int64("deleted_summaries", summaries),
		slog.Int64("deleted_videos", videos),
		slog.Int64("deleted_channels", channels),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}

func (j *SweepJob) exec(ctx context.Context, query, interval string) (int64, error) {
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// intervalString 은 time.Duration 을 PostgreSQL interval 리터럴로 변환한다.
func intervalString(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d.Seconds()))
}
