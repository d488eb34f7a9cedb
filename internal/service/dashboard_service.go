package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"findash-api/internal/models"
	"findash-api/internal/repository"
)

// DashboardSummary is the landing-page aggregate: open balances per ledger,
// overdue counts and the latest import sessions.
type DashboardSummary struct {
	PayableOpen       decimal.Decimal        `json:"payableOpen"`
	ReceivableOpen    decimal.Decimal        `json:"receivableOpen"`
	PayableOverdue    int                    `json:"payableOverdue"`
	ReceivableOverdue int                    `json:"receivableOverdue"`
	RecentImports     []models.ImportSummary `json:"recentImports"`
	GeneratedAt       time.Time              `json:"generatedAt"`
}

type DashboardService struct {
	entries  *repository.EntryRepository
	imports  *repository.ImportRepository
	redis    *redis.Client
	cacheTTL time.Duration
	log      *logrus.Logger
}

func NewDashboardService(
	entries *repository.EntryRepository,
	imports *repository.ImportRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	log *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		entries:  entries,
		imports:  imports,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Summary serves from the redis cache when possible; a cache failure only
// costs the recomputation.
func (s *DashboardService) Summary(ctx context.Context, companyID string) (*DashboardSummary, error) {
	cacheKey := fmt.Sprintf("dashboard:summary:%s", companyID)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var summary DashboardSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		} else if err != redis.Nil {
			s.log.WithError(err).Warn("dashboard cache read failed")
		}
	}

	totals, err := s.entries.Totals(companyID)
	if err != nil {
		return nil, err
	}

	recent, err := s.imports.Summaries(companyID)
	if err != nil {
		return nil, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	summary := &DashboardSummary{
		PayableOpen:       totals.PayableOpen,
		ReceivableOpen:    totals.ReceivableOpen,
		PayableOverdue:    totals.PayableOverdue,
		ReceivableOverdue: totals.ReceivableOverdue,
		RecentImports:     recent,
		GeneratedAt:       time.Now(),
	}

	if s.redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("dashboard cache write failed")
			}
		}
	}

	return summary, nil
}

// Invalidate drops the cached summary, called after confirms and manual
// entry changes.
func (s *DashboardService) Invalidate(ctx context.Context, companyID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, fmt.Sprintf("dashboard:summary:%s", companyID)).Err(); err != nil {
		s.log.WithError(err).Warn("dashboard cache invalidation failed")
	}
}
