package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	banktxrepo "github.com/finbooks/salesdesk/internal/banktransaction/repository"
	"github.com/finbooks/salesdesk/internal/clock"
	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	receiptrepo "github.com/finbooks/salesdesk/internal/receipt/repository"
	"github.com/finbooks/salesdesk/internal/reconciliation/domain"
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
	require.NoError(t, conn.AutoMigrate(
		&bankconndomain.BankConnection{},
		&banktxdomain.BankTransaction{},
		&receiptdomain.ReceiptVoucher{},
		&receiptdomain.ReceiptAdjustment{},
		&receiptdomain.ReceiptAttachment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:          conn,
		log:         zap.NewNop(),
		clock:       clock.NewSystem(),
		bankTxRepo:  banktxrepo.Provide(),
		receiptRepo: receiptrepo.Provide(),
	}
	return svc, conn, node
}

func seedTransaction(t *testing.T, conn *gorm.DB, node *snowflake.Node, amount string) *banktxdomain.BankTransaction {
	t.Helper()
	deposit := decimal.RequireFromString(amount)
	tx := &banktxdomain.BankTransaction{
		ID:              node.Generate(),
		TransactionDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		Description:     "NEFT-ACME",
		AmountReceived:  deposit,
		DepositAmount:   deposit,
		Status:          banktxdomain.StatusForReview,
		Source:          banktxdomain.SourceAuto,
	}
	require.NoError(t, conn.Create(tx).Error)
	return tx
}

func seedVoucher(t *testing.T, conn *gorm.DB, node *snowflake.Node, amount string) *receiptdomain.ReceiptVoucher {
	t.Helper()
	voucher := &receiptdomain.ReceiptVoucher{
		ID:             node.Generate(),
		ReceiptNo:      fmt.Sprintf("RV-%d", node.Generate()),
		CustomerName:   "Acme Corp",
		PaymentDate:    time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC),
		PaymentMethod:  "NEFT",
		AmountReceived: decimal.RequireFromString(amount),
		Status:         receiptdomain.StatusUnreconciled,
	}
	require.NoError(t, conn.Create(voucher).Error)
	return voucher
}

func TestMatchExactSum(t *testing.T) {
	svc, conn, node := setupService(t)
	tx := seedTransaction(t, conn, node, "1500")
	v1 := seedVoucher(t, conn, node, "1000")
	v2 := seedVoucher(t, conn, node, "500")

	reconDate := time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)
	view, err := svc.Match(context.Background(), domain.MatchRequest{
		TransactionID:      tx.ID,
		ReceiptIDs:         []snowflake.ID{v1.ID, v2.ID},
		ReconciliationDate: &reconDate,
	})
	require.NoError(t, err)
	assert.Equal(t, banktxdomain.StatusCategorized, view.Status)
	require.NotNil(t, view.ReconciliationDate)

	for _, id := range []snowflake.ID{v1.ID, v2.ID} {
		var got receiptdomain.ReceiptVoucher
		require.NoError(t, conn.First(&got, "id = ?", id).Error)
		assert.Equal(t, receiptdomain.StatusReconciled, got.Status)
		require.NotNil(t, got.BankTransactionID)
		assert.Equal(t, tx.ID, *got.BankTransactionID)
	}
}

func TestMatchMismatchMutatesNothing(t *testing.T) {
	svc, conn, node := setupService(t)
	tx := seedTransaction(t, conn, node, "1500")
	v1 := seedVoucher(t, conn, node, "1000")
	v2 := seedVoucher(t, conn, node, "400")

	_, err := svc.Match(context.Background(), domain.MatchRequest{
		TransactionID: tx.ID,
		ReceiptIDs:    []snowflake.ID{v1.ID, v2.ID},
	})

	var mismatch *domain.AmountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.TransactionAmount.Equal(decimal.RequireFromString("1500")))
	assert.True(t, mismatch.VoucherTotal.Equal(decimal.RequireFromString("1400")))

	var gotTx banktxdomain.BankTransaction
	require.NoError(t, conn.First(&gotTx, "id = ?", tx.ID).Error)
	assert.Equal(t, banktxdomain.StatusForReview, gotTx.Status)

	for _, id := range []snowflake.ID{v1.ID, v2.ID} {
		var got receiptdomain.ReceiptVoucher
		require.NoError(t, conn.First(&got, "id = ?", id).Error)
		assert.Equal(t, receiptdomain.StatusUnreconciled, got.Status)
		assert.Nil(t, got.BankTransactionID)
	}
}

func TestMatchValidation(t *testing.T) {
	svc, conn, node := setupService(t)
	tx := seedTransaction(t, conn, node, "100")

	_, err := svc.Match(context.Background(), domain.MatchRequest{TransactionID: tx.ID})
	assert.ErrorIs(t, err, domain.ErrNoVouchersSelected)

	_, err = svc.Match(context.Background(), domain.MatchRequest{
		TransactionID: node.Generate(),
		ReceiptIDs:    []snowflake.ID{node.Generate()},
	})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = svc.Match(context.Background(), domain.MatchRequest{
		TransactionID: tx.ID,
		ReceiptIDs:    []snowflake.ID{node.Generate()},
	})
	assert.ErrorIs(t, err, domain.ErrVoucherNotFound)
}

func TestExcludeDefaultsReason(t *testing.T) {
	svc, conn, node := setupService(t)
	tx := seedTransaction(t, conn, node, "100")

	view, err := svc.Exclude(context.Background(), domain.ExcludeRequest{TransactionID: tx.ID})
	require.NoError(t, err)
	assert.Equal(t, banktxdomain.StatusExcluded, view.Status)
	assert.Equal(t, "Other", view.ExclusionReason)

	view, err = svc.Exclude(context.Background(), domain.ExcludeRequest{
		TransactionID: tx.ID,
		Reason:        "Duplicate entry",
	})
	require.NoError(t, err)
	assert.Equal(t, "Duplicate entry", view.ExclusionReason)
}

func TestUndoExclude(t *testing.T) {
	svc, conn, node := setupService(t)
	tx := seedTransaction(t, conn, node, "100")

	_, err := svc.Exclude(context.Background(), domain.ExcludeRequest{TransactionID: tx.ID, Reason: "noise"})
	require.NoError(t, err)

	view, err := svc.UndoExclude(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, banktxdomain.StatusForReview, view.Status)
	assert.Equal(t, "", view.ExclusionReason)

	// Idempotent when already under review.
	view, err = svc.UndoExclude(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, banktxdomain.StatusForReview, view.Status)
}
