package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// AuditService persists audit entries asynchronously so request handlers
// never block on the audit table.
type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	mc      *metrics.Collector
	entries chan *domain.AuditLog
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, log *zap.Logger, mc *metrics.Collector) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		mc:      mc,
		entries: make(chan *domain.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	al := &domain.AuditLog{
		UserID:       entry.UserID,
		Action:       domain.AuditAction(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
	}

	select {
	case s.entries <- al:
	default:
		if s.mc != nil {
			s.mc.AuditBufferDropped.Inc()
		}
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("resource", entry.ResourceType),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else if s.mc != nil {
			s.mc.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
