package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"findash-api/internal/config"
	"findash-api/internal/models"
	"findash-api/internal/repository"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

// NotifyTaskHandler runs after a successful confirm: it invalidates the
// company's cached dashboard and records the completion for the activity
// feed.
type NotifyTaskHandler struct {
	importRepo *repository.ImportRepository
	redis      *redis.Client
	cfg        *config.Config
	log        *logrus.Logger
}

func NewNotifyTaskHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *NotifyTaskHandler {
	return &NotifyTaskHandler{
		importRepo: repository.NewImportRepository(db),
		redis:      redisClient,
		cfg:        cfg,
		log:        utils.GetLogger(),
	}
}

func (h *NotifyTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload service.ImportNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := h.importRepo.SessionByID(payload.CompanyID, payload.ImportID)
	if err != nil {
		return fmt.Errorf("failed to get import session: %w", err)
	}

	// Confirm already happened; anything other than COMPLETED means the task
	// raced a cancel and there is nothing to announce.
	if session.Status != models.ImportStatusCompleted {
		h.log.WithFields(logrus.Fields{
			"import_id": payload.ImportID,
			"status":    session.Status,
		}).Warn("skipping notification for non-completed import")
		return nil
	}

	if h.redis != nil {
		cacheKey := fmt.Sprintf("dashboard:summary:%s", payload.CompanyID)
		if err := h.redis.Del(ctx, cacheKey).Err(); err != nil {
			h.log.WithError(err).Warn("dashboard cache invalidation failed")
		}

		event, _ := json.Marshal(payload)
		feedKey := fmt.Sprintf("activity:imports:%s", payload.CompanyID)
		if err := h.redis.LPush(ctx, feedKey, event).Err(); err != nil {
			h.log.WithError(err).Warn("failed to record import activity")
		}
		h.redis.LTrim(ctx, feedKey, 0, 49)
	}

	h.log.WithFields(logrus.Fields{
		"import_id": payload.ImportID,
		"file_name": payload.FileName,
		"records":   payload.Records,
	}).Info("import completion processed")

	return nil
}
