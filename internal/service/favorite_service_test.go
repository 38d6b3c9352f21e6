package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
)

type sortUpdate struct {
	hcpcs string
	order int
}

type fakeFavoriteRepo struct {
	added     *favorite.Favorite
	removed   string
	updates   []sortUpdate
	wipedUser string
	err       error
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]*favorite.Favorite, error) {
	return nil, f.err
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, fav *favorite.Favorite) error {
	if f.err != nil {
		return f.err
	}
	fav.ID = 1
	f.added = fav
	return nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, userID, hcpcs string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = hcpcs
	return nil
}

func (f *fakeFavoriteRepo) UpdateSortOrder(ctx context.Context, userID, hcpcs string, sortOrder int) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, sortUpdate{hcpcs: hcpcs, order: sortOrder})
	return nil
}

func (f *fakeFavoriteRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.wipedUser = userID
	return nil
}

func newTestAudit() *AuditService {
	return NewAuditService(nopAuditRepo{}, zap.NewNop(), nil)
}

func TestAddFavoriteNormalizesHcpcs(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	svc := NewFavoriteService(repo, newTestAudit(), zap.NewNop(), nil)

	f, err := svc.Add(context.Background(), "user-1", "  g0008 ", 3)
	require.NoError(t, err)

	assert.Equal(t, "G0008", f.Hcpcs)
	assert.Equal(t, 3, f.SortOrder)
	assert.Equal(t, "user-1", f.UserID)
}

func TestAddFavoriteRequiresHcpcs(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{}, newTestAudit(), zap.NewNop(), nil)

	_, err := svc.Add(context.Background(), "user-1", "   ", 0)
	assert.ErrorIs(t, err, favorite.ErrHcpcsRequired)
}

func TestRemoveFavoritePropagatesNotFound(t *testing.T) {
	repo := &fakeFavoriteRepo{err: favorite.ErrFavoriteNotFound}
	svc := NewFavoriteService(repo, newTestAudit(), zap.NewNop(), nil)

	err := svc.Remove(context.Background(), "user-1", "99213")
	assert.ErrorIs(t, err, favorite.ErrFavoriteNotFound)
}

func TestReorderDefaultsToListIndex(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	svc := NewFavoriteService(repo, newTestAudit(), zap.NewNop(), nil)

	explicit := 10
	items := []favorite.ReorderItem{
		{Hcpcs: "99213"},
		{Hcpcs: "99214", SortOrder: &explicit},
		{Hcpcs: "99223"},
	}

	require.NoError(t, svc.Reorder(context.Background(), "user-1", items))

	require.Len(t, repo.updates, 3)
	assert.Equal(t, sortUpdate{hcpcs: "99213", order: 0}, repo.updates[0])
	assert.Equal(t, sortUpdate{hcpcs: "99214", order: 10}, repo.updates[1])
	assert.Equal(t, sortUpdate{hcpcs: "99223", order: 2}, repo.updates[2])
}

func TestReorderRejectsBlankHcpcs(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{}, newTestAudit(), zap.NewNop(), nil)

	err := svc.Reorder(context.Background(), "user-1", []favorite.ReorderItem{{Hcpcs: ""}})
	assert.ErrorIs(t, err, favorite.ErrHcpcsRequired)
}
