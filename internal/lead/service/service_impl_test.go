package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/internal/lead/repository"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Lead{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:    conn,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.NewSystem(),
		repo:  repository.Provide(),
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(context.Background(), domain.CreateLeadRequest{
		LeadNo:       "  LEAD-001 ",
		CustomerName: "Acme Corporation",
		ProjectName:  "ERP Rollout",
		SalesPerson:  "Rahul Mehta",
	})
	require.NoError(t, err)
	assert.Equal(t, "LEAD-001", created.LeadNo)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", got.CustomerName)
}

func TestCreateValidation(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), domain.CreateLeadRequest{CustomerName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidLeadNo)

	_, err = svc.Create(context.Background(), domain.CreateLeadRequest{LeadNo: "LEAD-001"})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerName)
}

func TestCreateDuplicateLeadNo(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), domain.CreateLeadRequest{LeadNo: "LEAD-001", CustomerName: "Acme"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateLeadRequest{LeadNo: "LEAD-001", CustomerName: "Globex"})
	assert.ErrorIs(t, err, domain.ErrDuplicateLeadNo)
}

func TestUpdateKeepsLeadNo(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(context.Background(), domain.CreateLeadRequest{LeadNo: "LEAD-001", CustomerName: "Acme"})
	require.NoError(t, err)

	newName := "Acme Renamed"
	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateLeadRequest{CustomerName: &newName})
	require.NoError(t, err)

	assert.Equal(t, "LEAD-001", updated.LeadNo)
	assert.Equal(t, "Acme Renamed", updated.CustomerName)

	empty := "   "
	_, err = svc.Update(context.Background(), created.ID, domain.UpdateLeadRequest{CustomerName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerName)
}

func TestListFilters(t *testing.T) {
	svc := setupService(t)

	for _, seed := range []struct{ no, customer string }{
		{"LEAD-001", "Acme Corporation"},
		{"LEAD-002", "Globex Industries"},
		{"LEAD-003", "Acme Subsidiary"},
	} {
		_, err := svc.Create(context.Background(), domain.CreateLeadRequest{LeadNo: seed.no, CustomerName: seed.customer})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListLeadFilter{CustomerName: "Acme"}, pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, resp.Leads, 2)
	assert.EqualValues(t, 2, resp.TotalCount)

	resp, err = svc.List(context.Background(), domain.ListLeadFilter{LeadNo: "LEAD-002"}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "Globex Industries", resp.Leads[0].CustomerName)
}

func TestDeleteUnknownLead(t *testing.T) {
	svc := setupService(t)

	err := svc.Delete(context.Background(), snowflake.ID(12345))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
