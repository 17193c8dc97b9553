package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	bankconnrepo "github.com/finbooks/salesdesk/internal/bankconnection/repository"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	banktxrepo "github.com/finbooks/salesdesk/internal/banktransaction/repository"
	"github.com/finbooks/salesdesk/internal/clock"
	invoicedomain "github.com/finbooks/salesdesk/internal/invoice/domain"
	invoicerepo "github.com/finbooks/salesdesk/internal/invoice/repository"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	leadrepo "github.com/finbooks/salesdesk/internal/lead/repository"
	"github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/internal/receipt/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeStore struct{}

func (fakeStore) Save(name string, _ io.Reader) (string, error) { return "blob/" + name, nil }
func (fakeStore) Open(string) (io.ReadCloser, error)            { return nil, nil }
func (fakeStore) Delete(string) error                           { return nil }

func setupService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&leaddomain.Lead{},
		&invoicedomain.Invoice{},
		&bankconndomain.BankConnection{},
		&banktxdomain.BankTransaction{},
		&domain.ReceiptVoucher{},
		&domain.ReceiptAdjustment{},
		&domain.ReceiptAttachment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:          conn,
		log:         zap.NewNop(),
		genID:       node,
		clock:       clock.NewSystem(),
		repo:        repository.Provide(),
		invoiceRepo: invoicerepo.Provide(),
		leadRepo:    leadrepo.Provide(),
		connRepo:    bankconnrepo.Provide(),
		bankTxRepo:  banktxrepo.Provide(),
		store:       fakeStore{},
	}
	return svc, conn, node
}

func seedInvoice(t *testing.T, conn *gorm.DB, node *snowflake.Node, balance string) *invoicedomain.Invoice {
	t.Helper()
	amount := decimal.RequireFromString(balance)
	invoice := &invoicedomain.Invoice{
		ID:          node.Generate(),
		InvoiceNo:   fmt.Sprintf("INV-%d", node.Generate()),
		InvoiceDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		LeadID:      node.Generate(),
		TotalAmount: amount,
		OpenBalance: amount,
		Status:      invoicedomain.StatusOpen,
	}
	require.NoError(t, conn.Create(invoice).Error)
	return invoice
}

func createReq(amount string, adjustments ...domain.AdjustmentInstruction) domain.CreateReceiptVoucherRequest {
	return domain.CreateReceiptVoucherRequest{
		CustomerName:   "Acme Corp",
		PaymentDate:    time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod:  "NEFT",
		AmountReceived: decimal.RequireFromString(amount),
		Adjustments:    adjustments,
	}
}

func TestAdjustmentLedgerPartialThenPaid(t *testing.T) {
	svc, conn, node := setupService(t)
	invoice := seedInvoice(t, conn, node, "5000")

	_, err := svc.Create(context.Background(), createReq("3200", domain.AdjustmentInstruction{
		InvoiceID:     invoice.ID,
		PaymentAmount: decimal.RequireFromString("3000"),
		TDSAmount:     decimal.RequireFromString("200"),
	}))
	require.NoError(t, err)

	var got invoicedomain.Invoice
	require.NoError(t, conn.First(&got, "id = ?", invoice.ID).Error)
	assert.True(t, got.OpenBalance.Equal(decimal.RequireFromString("1800")), got.OpenBalance.String())
	assert.Equal(t, invoicedomain.StatusPartial, got.Status)

	// A decrement at or past the balance clamps to zero, never negative.
	_, err = svc.Create(context.Background(), createReq("2000", domain.AdjustmentInstruction{
		InvoiceID:     invoice.ID,
		PaymentAmount: decimal.RequireFromString("2000"),
	}))
	require.NoError(t, err)

	require.NoError(t, conn.First(&got, "id = ?", invoice.ID).Error)
	assert.True(t, got.OpenBalance.IsZero())
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
}

func TestZeroAdjustmentsDropped(t *testing.T) {
	svc, conn, node := setupService(t)
	invoice := seedInvoice(t, conn, node, "5000")

	voucher, err := svc.Create(context.Background(), createReq("100",
		domain.AdjustmentInstruction{InvoiceID: invoice.ID},
		domain.AdjustmentInstruction{
			InvoiceID:   invoice.ID,
			BankCharges: decimal.RequireFromString("100"),
		},
	))
	require.NoError(t, err)
	assert.Len(t, voucher.Adjustments, 1)

	var got invoicedomain.Invoice
	require.NoError(t, conn.First(&got, "id = ?", invoice.ID).Error)
	assert.True(t, got.OpenBalance.Equal(decimal.RequireFromString("4900")))
}

func TestMissingInvoiceRollsBackEverything(t *testing.T) {
	svc, conn, node := setupService(t)
	invoice := seedInvoice(t, conn, node, "5000")

	_, err := svc.Create(context.Background(), createReq("1000",
		domain.AdjustmentInstruction{
			InvoiceID:     invoice.ID,
			PaymentAmount: decimal.RequireFromString("500"),
		},
		domain.AdjustmentInstruction{
			InvoiceID:     node.Generate(),
			PaymentAmount: decimal.RequireFromString("500"),
		},
	))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	// The applied decrement and the voucher both rolled back.
	var got invoicedomain.Invoice
	require.NoError(t, conn.First(&got, "id = ?", invoice.ID).Error)
	assert.True(t, got.OpenBalance.Equal(decimal.RequireFromString("5000")))
	assert.Equal(t, invoicedomain.StatusOpen, got.Status)

	var count int64
	require.NoError(t, conn.Model(&domain.ReceiptVoucher{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSequentialReceiptNumbers(t *testing.T) {
	svc, _, _ := setupService(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		voucher, err := svc.Create(context.Background(), createReq("100"))
		require.NoError(t, err)
		assert.False(t, seen[voucher.ReceiptNo], voucher.ReceiptNo)
		seen[voucher.ReceiptNo] = true
	}
	assert.True(t, seen["RV-001"])
	assert.True(t, seen["RV-005"])
}

func TestReceiptNumberRetryAfterCollision(t *testing.T) {
	svc, conn, node := setupService(t)

	// The newest voucher carries a number outside the RV-NNN scheme, so the
	// sequence restarts at 1 and collides with the older row.
	require.NoError(t, conn.Create(&domain.ReceiptVoucher{
		ID:             node.Generate(),
		ReceiptNo:      "RV-001",
		CustomerName:   "Acme Corp",
		PaymentDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		AmountReceived: decimal.RequireFromString("100"),
		Status:         domain.StatusUnreconciled,
		CreatedAt:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, conn.Create(&domain.ReceiptVoucher{
		ID:             node.Generate(),
		ReceiptNo:      "RV-FY25",
		CustomerName:   "Acme Corp",
		PaymentDate:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		AmountReceived: decimal.RequireFromString("100"),
		Status:         domain.StatusUnreconciled,
		CreatedAt:      time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}).Error)

	voucher, err := svc.Create(context.Background(), createReq("100"))
	require.NoError(t, err)
	assert.Equal(t, "RV-002", voucher.ReceiptNo)
}

func TestCreateMatchesLeadByCustomerName(t *testing.T) {
	svc, conn, node := setupService(t)

	lead := &leaddomain.Lead{
		ID:           node.Generate(),
		LeadNo:       "LD-200",
		CustomerName: "Acme Corp",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, conn.Create(lead).Error)

	voucher, err := svc.Create(context.Background(), createReq("100"))
	require.NoError(t, err)
	require.NotNil(t, voucher.LeadID)
	assert.Equal(t, lead.ID, *voucher.LeadID)

	req := createReq("100")
	req.CustomerName = "Nobody Inc"
	unmatched, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, unmatched.LeadID)
}

func TestViewResolvesBankAndReconciliation(t *testing.T) {
	svc, conn, node := setupService(t)

	bank := &bankconndomain.BankConnection{
		ID:            node.Generate(),
		BankName:      "ICICI Bank",
		AccountNumber: "000405001234",
		IsActive:      true,
	}
	require.NoError(t, conn.Create(bank).Error)

	lead := &leaddomain.Lead{
		ID:           node.Generate(),
		LeadNo:       "LD-201",
		CustomerName: "Globex Industries",
	}
	require.NoError(t, conn.Create(lead).Error)

	req := createReq("100")
	req.CustomerName = ""
	req.LeadID = &lead.ID
	req.DepositToID = &bank.ID
	voucher, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	reconDate := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	bankTx := &banktxdomain.BankTransaction{
		ID:                 node.Generate(),
		BankConnectionID:   bank.ID,
		TransactionDate:    reconDate,
		AmountReceived:     decimal.RequireFromString("100"),
		Status:             banktxdomain.StatusCategorized,
		ReconciliationDate: &reconDate,
	}
	require.NoError(t, conn.Create(bankTx).Error)
	require.NoError(t, conn.Model(&domain.ReceiptVoucher{}).
		Where("id = ?", voucher.ID).
		Updates(map[string]interface{}{
			"bank_transaction_id": bankTx.ID,
			"status":              domain.StatusReconciled,
		}).Error)

	view, err := svc.GetByID(context.Background(), voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, "ICICI Bank", view.BankName)
	assert.Equal(t, "Globex Industries", view.CustomerName)
	require.NotNil(t, view.ReconciliationDate)
	assert.True(t, view.ReconciliationDate.Equal(reconDate))
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := setupService(t)

	req := createReq("0")
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = createReq("100")
	req.PaymentDate = time.Time{}
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentDate)
}

func TestDeleteKeepsInvoiceBalance(t *testing.T) {
	svc, conn, node := setupService(t)
	invoice := seedInvoice(t, conn, node, "1000")

	voucher, err := svc.Create(context.Background(), createReq("400", domain.AdjustmentInstruction{
		InvoiceID:     invoice.ID,
		PaymentAmount: decimal.RequireFromString("400"),
	}))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), voucher.ID))

	var got invoicedomain.Invoice
	require.NoError(t, conn.First(&got, "id = ?", invoice.ID).Error)
	assert.True(t, got.OpenBalance.Equal(decimal.RequireFromString("600")))
}
