package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

type FavoriteService struct {
	repo     favorite.Repository
	auditSvc *AuditService
	log      *zap.Logger
	mc       *metrics.Collector
}

func NewFavoriteService(repo favorite.Repository, auditSvc *AuditService, log *zap.Logger, mc *metrics.Collector) *FavoriteService {
	return &FavoriteService{repo: repo, auditSvc: auditSvc, log: log, mc: mc}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]*favorite.Favorite, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *FavoriteService) Add(ctx context.Context, userID, hcpcs string, sortOrder int) (*favorite.Favorite, error) {
	hcpcs = strings.ToUpper(strings.TrimSpace(hcpcs))
	if hcpcs == "" {
		return nil, favorite.ErrHcpcsRequired
	}

	f := &favorite.Favorite{
		UserID:    userID,
		Hcpcs:     hcpcs,
		SortOrder: sortOrder,
	}
	if err := s.repo.Add(ctx, f); err != nil {
		s.log.Error("failed to add favorite", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	if s.mc != nil {
		s.mc.FavoritesTotal.WithLabelValues("add").Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "create",
		ResourceType: "favorite",
		ResourceID:   hcpcs,
	})

	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, hcpcs string) error {
	hcpcs = strings.ToUpper(strings.TrimSpace(hcpcs))
	if hcpcs == "" {
		return favorite.ErrHcpcsRequired
	}

	if err := s.repo.Remove(ctx, userID, hcpcs); err != nil {
		return err
	}

	if s.mc != nil {
		s.mc.FavoritesTotal.WithLabelValues("remove").Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "delete",
		ResourceType: "favorite",
		ResourceID:   hcpcs,
	})

	return nil
}

// Reorder applies the submitted positions. Items without an explicit
// sort_order take their index in the submitted list.
func (s *FavoriteService) Reorder(ctx context.Context, userID string, items []favorite.ReorderItem) error {
	for i, item := range items {
		hcpcs := strings.ToUpper(strings.TrimSpace(item.Hcpcs))
		if hcpcs == "" {
			return favorite.ErrHcpcsRequired
		}
		order := i
		if item.SortOrder != nil {
			order = *item.SortOrder
		}
		if err := s.repo.UpdateSortOrder(ctx, userID, hcpcs, order); err != nil {
			return err
		}
	}

	if s.mc != nil {
		s.mc.FavoritesTotal.WithLabelValues("reorder").Inc()
	}
	return nil
}
