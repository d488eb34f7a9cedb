package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"findash-api/internal/config"
	"findash-api/internal/service"
)

// TypeEntryOverdue is the periodic sweep that flips pending entries past
// their due date to OVERDUE.
const TypeEntryOverdue = "entry:overdue"

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	notifyHandler := NewNotifyTaskHandler(db, redisClient, cfg)
	overdueHandler := NewOverdueTaskHandler(db)

	mux.HandleFunc(service.TypeImportNotify, notifyHandler.Handle)
	mux.HandleFunc(TypeEntryOverdue, overdueHandler.Handle)
}
