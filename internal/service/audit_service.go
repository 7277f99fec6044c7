package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dis-school/registry-api/internal/models"
	"github.com/dis-school/registry-api/pkg/jobs"
)

type auditStore interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditEntry describes a lifecycle mutation worth recording.
type AuditEntry struct {
	Action     string
	ResourceID string
	Details    map[string]interface{}
}

// AuditService persists audit records asynchronously through a worker queue
// so lifecycle operations never block on the audit table.
type AuditService struct {
	repo   auditStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// AuditServiceConfig sizes the background writer.
type AuditServiceConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewAuditService constructs the service and its queue. Call Start before
// recording and Stop on shutdown.
func NewAuditService(repo auditStore, logger *zap.Logger, cfg AuditServiceConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.persist, jobs.Config{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an audit entry. Failures are logged, never surfaced.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil || entry.Action == "" {
		return
	}
	var payload []byte
	if entry.Details != nil {
		var err error
		payload, err = json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warn("failed to marshal audit details", zap.Error(err))
			payload = nil
		}
	}
	resourceID := entry.ResourceID
	log := &models.AuditLog{
		Action:    entry.Action,
		Resource:  "student",
		NewValues: payload,
		IPAddress: "system",
		UserAgent: "student-service",
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    entry.Action,
		Payload: log,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (s *AuditService) persist(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(*models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload type %T", job.Payload)
	}
	return s.repo.Create(ctx, log)
}
