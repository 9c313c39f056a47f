// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// APIプロセスはセッション解決時の遅延削除のみを行うため、二度と参照
// されないセッションはストアに残り続ける。このジョブが定期的に回収する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
)

// SweepJob は期限切れセッションの一括削除ジョブ。
// 冪等な削除処理であり、削除対象がない場合もエラーにならない。
type SweepJob struct {
	sessionRepo repository.SessionRepository
	metrics     metrics.MetricsCollector
	logger      *slog.Logger
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(
	sessionRepo repository.SessionRepository,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *SweepJob {
	return &SweepJob{
		sessionRepo: sessionRepo,
		metrics:     collector,
		logger:      logger,
	}
}

// Run は現在時刻を基準に期限切れセッションを一括削除する。
// 遅延削除と同じ条件で削除するため、APIプロセスと同時に動いても安全。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.sessionRepo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	if deleted > 0 {
		j.metrics.RecordSessionsReaped(int(deleted))
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deleted),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔のティッカーでジョブを起動する。
// 起動直後に1回実行し、以降はコンテキストがキャンセルされるまで
// interval間隔で実行を継続する。
func (j *SweepJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("セッションクリーンアップジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("セッションクリーンアップサイクルの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("セッションクリーンアップジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("セッションクリーンアップサイクルの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
