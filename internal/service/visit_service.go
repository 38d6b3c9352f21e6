package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

type VisitService struct {
	repo     visit.Repository
	auditSvc *AuditService
	log      *zap.Logger
	mc       *metrics.Collector
}

func NewVisitService(repo visit.Repository, auditSvc *AuditService, log *zap.Logger, mc *metrics.Collector) *VisitService {
	return &VisitService{repo: repo, auditSvc: auditSvc, log: log, mc: mc}
}

func (s *VisitService) Create(ctx context.Context, cmd visit.CreateVisitCommand) (*visit.Visit, error) {
	if err := validateVisitInput(cmd.Date.IsZero(), cmd.IsNoShow, cmd.Procedures); err != nil {
		return nil, err
	}

	v := &visit.Visit{
		UserID:     cmd.UserID,
		Date:       cmd.Date,
		Time:       cmd.Time,
		IsNoShow:   cmd.IsNoShow,
		Notes:      cmd.Notes,
		Procedures: buildProcedures(cmd.Procedures),
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.log.Error("failed to create visit", zap.Error(err), zap.String("user_id", cmd.UserID))
		return nil, err
	}

	if s.mc != nil {
		s.mc.VisitsCreatedTotal.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.UserID,
		Action:       "create",
		ResourceType: "visit",
		ResourceID:   strconv.FormatInt(v.ID, 10),
	})

	return v, nil
}

func (s *VisitService) List(ctx context.Context, userID string) ([]*visit.Visit, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *VisitService) Update(ctx context.Context, cmd visit.UpdateVisitCommand) (*visit.Visit, error) {
	if err := validateVisitInput(cmd.Date.IsZero(), cmd.IsNoShow, cmd.Procedures); err != nil {
		return nil, err
	}

	v := &visit.Visit{
		ID:         cmd.ID,
		UserID:     cmd.UserID,
		Date:       cmd.Date,
		Time:       cmd.Time,
		IsNoShow:   cmd.IsNoShow,
		Notes:      cmd.Notes,
		Procedures: buildProcedures(cmd.Procedures),
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.UserID,
		Action:       "update",
		ResourceType: "visit",
		ResourceID:   strconv.FormatInt(v.ID, 10),
	})

	return v, nil
}

func (s *VisitService) Delete(ctx context.Context, userID string, visitID int64) error {
	if err := s.repo.Delete(ctx, visitID, userID); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "delete",
		ResourceType: "visit",
		ResourceID:   strconv.FormatInt(visitID, 10),
	})

	return nil
}

// validateVisitInput enforces the no-show invariant: a no-show visit carries
// no procedures, and a regular visit carries at least one.
func validateVisitInput(dateMissing, isNoShow bool, procs []visit.ProcedureInput) error {
	if dateMissing {
		return visit.ErrDateRequired
	}
	if isNoShow {
		if len(procs) > 0 {
			return visit.ErrNoShowHasProcedures
		}
		return nil
	}
	if len(procs) == 0 {
		return visit.ErrProceduresRequired
	}
	for _, p := range procs {
		if strings.TrimSpace(p.Hcpcs) == "" || strings.TrimSpace(p.Description) == "" {
			return visit.ErrInvalidProcedure
		}
		if p.Quantity < 0 {
			return visit.ErrInvalidProcedure
		}
	}
	return nil
}

func buildProcedures(inputs []visit.ProcedureInput) []visit.Procedure {
	procs := make([]visit.Procedure, 0, len(inputs))
	for _, in := range inputs {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		procs = append(procs, visit.Procedure{
			Hcpcs:       strings.TrimSpace(in.Hcpcs),
			Description: strings.TrimSpace(in.Description),
			StatusCode:  strings.TrimSpace(in.StatusCode),
			WorkRvu:     in.WorkRvu,
			Quantity:    qty,
		})
	}
	return procs
}
