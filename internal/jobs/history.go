package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/partsgpt/internal/history"
)

// Enqueuer is the part of *asynq.Client used to push tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueRecorder defers history writes to the worker.
type QueueRecorder struct {
	Client Enqueuer
}

func NewRecordSearchTask(userID uuid.UUID, term string) (*asynq.Task, error) {
	payload, err := json.Marshal(RecordSearchPayload{UserID: userID.String(), Term: term})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecordSearch, payload), nil
}

func (q QueueRecorder) Record(ctx context.Context, userID uuid.UUID, term string) error {
	term, err := history.CleanTerm(term)
	if err != nil {
		return err
	}
	task, err := NewRecordSearchTask(userID, term)
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	info, err := q.Client.EnqueueContext(ctx, task,
		asynq.Queue(QueueHistory),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskRecordSearch, err)
	}
	zerolog.Ctx(ctx).Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("history task enqueued")
	return nil
}

// HandleRecordSearch returns the worker handler for TaskRecordSearch.
// Malformed payloads are dropped without retry.
func HandleRecordSearch(rec history.Recorder, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p RecordSearchPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Warn().Err(err).Msg("bad record_search payload")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		uid, err := uuid.Parse(p.UserID)
		if err != nil {
			logger.Warn().Str("user_id", p.UserID).Msg("bad user id in record_search payload")
			return fmt.Errorf("parse user id: %v: %w", err, asynq.SkipRetry)
		}

		start := time.Now()
		if err := rec.Record(ctx, uid, p.Term); err != nil {
			if errors.Is(err, history.ErrEmptyTerm) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			logger.Error().Err(err).Str("user_id", p.UserID).Msg("record search failed")
			return err
		}
		logger.Debug().Str("user_id", p.UserID).Dur("took", time.Since(start)).Msg("search recorded")
		return nil
	}
}
