package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"findash-api/internal/repository"
	"findash-api/internal/utils"
)

// OverdueTaskHandler is the periodic sweep that marks pending entries past
// their due date as OVERDUE. Scheduled from the worker process.
type OverdueTaskHandler struct {
	entryRepo *repository.EntryRepository
	log       *logrus.Logger
}

func NewOverdueTaskHandler(db *sqlx.DB) *OverdueTaskHandler {
	return &OverdueTaskHandler{
		entryRepo: repository.NewEntryRepository(db),
		log:       utils.GetLogger(),
	}
}

func (h *OverdueTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	affected, err := h.entryRepo.MarkOverdue(time.Now())
	if err != nil {
		return err
	}

	if affected > 0 {
		h.log.WithField("entries", affected).Info("entries marked overdue")
	}
	return nil
}
