package service

import (
	"context"

	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/pkg/logger"
	"github.com/pitchside/refrank/pkg/metrics"
)

// BatchFailure describes one rejected record of a batch.
type BatchFailure struct {
	MatchID   string `json:"match_id"`
	RefereeID string `json:"referee_id"`
	Reason    string `json:"reason"`
}

// BatchResult summarizes a synchronous batch run.
type BatchResult struct {
	Processed  int            `json:"processed"`
	Duplicates int            `json:"duplicates"`
	Failures   []BatchFailure `json:"failures,omitempty"`
}

// ProcessBatch rates and records a batch synchronously, bypassing the
// queue. A record that fails validation is reported in the result and
// skipped; it never aborts the rest of the batch.
func (s *Service) ProcessBatch(ctx context.Context, batch []model.MatchStatistics) BatchResult {
	var result BatchResult

	for _, stats := range batch {
		rating, err := s.engine.Rate(ctx, stats)
		if err != nil {
			metrics.RecordMatchInvalid()
			s.logger.Warn(ctx, "batch record rejected",
				logger.String("matchID", stats.MatchID),
				logger.String("refereeID", stats.RefereeID),
				logger.Error(err),
			)
			result.Failures = append(result.Failures, BatchFailure{
				MatchID:   stats.MatchID,
				RefereeID: stats.RefereeID,
				Reason:    err.Error(),
			})
			continue
		}

		recorded, err := s.store.Record(ctx, rating)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				MatchID:   stats.MatchID,
				RefereeID: stats.RefereeID,
				Reason:    err.Error(),
			})
			continue
		}
		if !recorded {
			metrics.RecordMatchDuplicate()
			result.Duplicates++
			continue
		}

		s.deduper.SeenAndRecord(ctx, rating.Key())
		if s.archive != nil {
			if err := s.archive.Save(ctx, rating); err != nil {
				s.logger.Error(ctx, "archiving rating failed", logger.Error(err))
			}
		}
		metrics.RecordMatchProcessed()
		metrics.RecordFinalRating(rating.FinalRating)
		result.Processed++
	}

	return result
}
