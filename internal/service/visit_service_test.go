package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
)

type fakeVisitRepo struct {
	created   *visit.Visit
	updated   *visit.Visit
	deleted   int64
	wipedUser string
	err       error
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *visit.Visit) error {
	if f.err != nil {
		return f.err
	}
	v.ID = 42
	f.created = v
	return nil
}

func (f *fakeVisitRepo) ListByUser(ctx context.Context, userID string) ([]*visit.Visit, error) {
	return nil, f.err
}

func (f *fakeVisitRepo) Update(ctx context.Context, v *visit.Visit) error {
	if f.err != nil {
		return f.err
	}
	f.updated = v
	return nil
}

func (f *fakeVisitRepo) Delete(ctx context.Context, id int64, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

func (f *fakeVisitRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.wipedUser = userID
	return nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

func newVisitService(repo visit.Repository) *VisitService {
	audit := NewAuditService(nopAuditRepo{}, zap.NewNop(), nil)
	return NewVisitService(repo, audit, zap.NewNop(), nil)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func officeVisit() visit.CreateVisitCommand {
	return visit.CreateVisitCommand{
		UserID: "user-1",
		Date:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Procedures: []visit.ProcedureInput{
			{Hcpcs: "99213", Description: "Office visit, low complexity", StatusCode: "A", WorkRvu: dec("1.30"), Quantity: 2},
		},
	}
}

func TestCreateVisit(t *testing.T) {
	repo := &fakeVisitRepo{}
	svc := newVisitService(repo)

	v, err := svc.Create(context.Background(), officeVisit())
	require.NoError(t, err)

	assert.EqualValues(t, 42, v.ID)
	require.Len(t, v.Procedures, 1)
	assert.Equal(t, 2, v.Procedures[0].Quantity)
	assert.True(t, v.TotalWorkRvu().Equal(dec("2.60")), "1.30 x 2 must total 2.60 exactly, got %s", v.TotalWorkRvu())
}

func TestCreateVisitRequiresDate(t *testing.T) {
	svc := newVisitService(&fakeVisitRepo{})

	cmd := officeVisit()
	cmd.Date = time.Time{}

	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrDateRequired)
}

func TestCreateVisitRequiresProcedures(t *testing.T) {
	svc := newVisitService(&fakeVisitRepo{})

	cmd := officeVisit()
	cmd.Procedures = nil

	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrProceduresRequired)
}

func TestNoShowVisitMustHaveNoProcedures(t *testing.T) {
	svc := newVisitService(&fakeVisitRepo{})

	cmd := officeVisit()
	cmd.IsNoShow = true

	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrNoShowHasProcedures)
}

func TestNoShowVisitWithoutProceduresIsValid(t *testing.T) {
	repo := &fakeVisitRepo{}
	svc := newVisitService(repo)

	cmd := visit.CreateVisitCommand{
		UserID:   "user-1",
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		IsNoShow: true,
	}

	v, err := svc.Create(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, v.IsNoShow)
	assert.Empty(t, v.Procedures)
}

func TestProcedureQuantityDefaultsToOne(t *testing.T) {
	repo := &fakeVisitRepo{}
	svc := newVisitService(repo)

	cmd := officeVisit()
	cmd.Procedures[0].Quantity = 0

	v, err := svc.Create(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Procedures[0].Quantity)
}

func TestProcedureRequiresHcpcsAndDescription(t *testing.T) {
	svc := newVisitService(&fakeVisitRepo{})

	cmd := officeVisit()
	cmd.Procedures[0].Hcpcs = "  "

	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrInvalidProcedure)

	cmd = officeVisit()
	cmd.Procedures[0].Description = ""

	_, err = svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrInvalidProcedure)
}

func TestUpdateVisitValidatesLikeCreate(t *testing.T) {
	repo := &fakeVisitRepo{}
	svc := newVisitService(repo)

	cmd := visit.UpdateVisitCommand{
		ID:       7,
		UserID:   "user-1",
		Date:     time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		IsNoShow: true,
		Procedures: []visit.ProcedureInput{
			{Hcpcs: "99213", Description: "Office visit", WorkRvu: dec("1.30")},
		},
	}

	_, err := svc.Update(context.Background(), cmd)
	assert.ErrorIs(t, err, visit.ErrNoShowHasProcedures)

	cmd.IsNoShow = false
	v, err := svc.Update(context.Background(), cmd)
	require.NoError(t, err)
	assert.EqualValues(t, 7, v.ID)
	assert.Same(t, v, repo.updated)
}

func TestDeleteVisitPropagatesNotFound(t *testing.T) {
	repo := &fakeVisitRepo{err: visit.ErrVisitNotFound}
	svc := newVisitService(repo)

	err := svc.Delete(context.Background(), "user-1", 99)
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
}
