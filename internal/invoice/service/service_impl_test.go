package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/invoice/domain"
	"github.com/finbooks/salesdesk/internal/invoice/repository"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	leadrepo "github.com/finbooks/salesdesk/internal/lead/repository"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&leaddomain.Lead{}, &domain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:       conn,
		log:      zap.NewNop(),
		genID:    node,
		clock:    clock.NewSystem(),
		repo:     repository.Provide(),
		leadRepo: leadrepo.Provide(),
	}
	return svc, conn, node
}

func seedLead(t *testing.T, conn *gorm.DB, node *snowflake.Node, customer string) *leaddomain.Lead {
	t.Helper()
	lead := &leaddomain.Lead{
		ID:           node.Generate(),
		LeadNo:       "LD-" + customer,
		CustomerName: customer,
		ProjectName:  customer + " Project",
	}
	require.NoError(t, conn.Create(lead).Error)
	return lead
}

func TestCreateOpensFullBalance(t *testing.T) {
	svc, conn, node := setupService(t)
	lead := seedLead(t, conn, node, "Acme")

	view, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		LeadID:      lead.ID,
		TotalAmount: decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOpen, view.Status)
	assert.True(t, view.OpenBalance.Equal(view.TotalAmount))
	assert.Equal(t, "Acme", view.CustomerName)
}

func TestCreateValidation(t *testing.T) {
	svc, conn, node := setupService(t)
	lead := seedLead(t, conn, node, "Acme")

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		LeadID:      lead.ID,
		TotalAmount: decimal.RequireFromString("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceNo)

	_, err = svc.Create(context.Background(), domain.CreateInvoiceRequest{
		InvoiceNo: "INV-002",
		LeadID:    lead.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(context.Background(), domain.CreateInvoiceRequest{
		InvoiceNo:   "INV-003",
		LeadID:      node.Generate(),
		TotalAmount: decimal.RequireFromString("100"),
	})
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)
}

func TestCreateDuplicateNumber(t *testing.T) {
	svc, conn, node := setupService(t)
	lead := seedLead(t, conn, node, "Acme")

	req := domain.CreateInvoiceRequest{
		InvoiceNo:   "INV-010",
		LeadID:      lead.ID,
		TotalAmount: decimal.RequireFromString("100"),
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicateNo)
}

func TestListFilters(t *testing.T) {
	svc, conn, node := setupService(t)
	acme := seedLead(t, conn, node, "Acme")
	globex := seedLead(t, conn, node, "Globex")

	for i, lead := range []*leaddomain.Lead{acme, acme, globex} {
		_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
			InvoiceNo:   "INV-10" + string(rune('0'+i)),
			LeadID:      lead.ID,
			TotalAmount: decimal.RequireFromString("100"),
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListInvoiceFilter{CustomerName: "Acme"}, pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 2)
	assert.EqualValues(t, 2, resp.TotalCount)

	resp, err = svc.List(context.Background(), domain.ListInvoiceFilter{Search: "Glob"}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, "Globex", resp.Invoices[0].CustomerName)
}
