package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	bankconnrepo "github.com/finbooks/salesdesk/internal/bankconnection/repository"
	"github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/banktransaction/repository"
	"github.com/finbooks/salesdesk/internal/clock"
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
	require.NoError(t, conn.AutoMigrate(&bankconndomain.BankConnection{}, &domain.BankTransaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:       conn,
		log:      zap.NewNop(),
		genID:    node,
		clock:    clock.NewFakeClock(time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)),
		repo:     repository.Provide(),
		connRepo: bankconnrepo.Provide(),
	}
	return svc, conn, node
}

func seedConnection(t *testing.T, conn *gorm.DB, node *snowflake.Node, active bool) *bankconndomain.BankConnection {
	t.Helper()
	bc := &bankconndomain.BankConnection{
		ID:            node.Generate(),
		BankName:      "ICICI",
		AccountNumber: "000405001234",
		IsActive:      active,
	}
	require.NoError(t, conn.Create(bc).Error)
	return bc
}

func TestImportSignedAmountAndSkips(t *testing.T) {
	svc, conn, node := setupService(t)
	seedConnection(t, conn, node, true)

	statement := strings.Join([]string{
		"Date,Description,Amount",
		"2026-04-01,NEFT-ACME payment,-250",
		"bad date,UPI-globex,100",
		"2026-04-03,IMPS-initech,1500",
	}, "\n")

	report, err := svc.Import(context.Background(), domain.ImportRequest{
		Filename: "statement.csv",
		BankType: "generic",
		Content:  strings.NewReader(statement),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].RowNumber)

	resp, err := svc.List(context.Background(), domain.ListBankTransactionFilter{Search: "ACME"}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)

	tx := resp.Transactions[0]
	assert.True(t, tx.WithdrawalAmount.Equal(decimal.RequireFromString("250")))
	assert.True(t, tx.DepositAmount.IsZero())
	assert.Equal(t, domain.SourceManual, tx.Source)
	assert.Equal(t, domain.StatusForReview, tx.Status)
	assert.Equal(t, "NEFT-ACME", tx.CustomerName)
	assert.Equal(t, "ICICI", tx.BankName)
}

func TestImportSkipsMalformedCSVRow(t *testing.T) {
	svc, conn, node := setupService(t)
	seedConnection(t, conn, node, true)

	statement := strings.Join([]string{
		"Date,Description,Amount",
		"2026-04-01,NEFT-ACME payment,250",
		"2026-04-02,bad\"quote,100",
		"2026-04-03,IMPS-initech,1500",
	}, "\n")

	report, err := svc.Import(context.Background(), domain.ImportRequest{
		Filename: "statement.csv",
		BankType: "generic",
		Content:  strings.NewReader(statement),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].RowNumber)
	assert.Contains(t, report.Skipped[0].Reason, "quote")
}

func TestImportRequiresActiveConnection(t *testing.T) {
	svc, conn, node := setupService(t)
	seedConnection(t, conn, node, false)

	_, err := svc.Import(context.Background(), domain.ImportRequest{
		Filename: "statement.csv",
		BankType: "generic",
		Content:  strings.NewReader("Date,Amount\n2026-04-01,100\n"),
	})
	assert.ErrorIs(t, err, domain.ErrNoActiveConnection)
}

func TestImportRequiresFile(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.Import(context.Background(), domain.ImportRequest{BankType: "generic"})
	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestCreateManualEntry(t *testing.T) {
	svc, conn, node := setupService(t)
	bc := seedConnection(t, conn, node, true)

	view, err := svc.Create(context.Background(), domain.CreateBankTransactionRequest{
		BankConnectionID: bc.ID,
		TransactionDate:  time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Description:      "Wire transfer ACME",
		DepositAmount:    decimal.RequireFromString("9000"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceManual, view.Source)
	assert.True(t, view.AmountReceived.Equal(decimal.RequireFromString("9000")))
	assert.Equal(t, "Wire", view.CustomerName)
	require.NotNil(t, view.ValueDate)
}

func TestCreateUnknownConnection(t *testing.T) {
	svc, _, node := setupService(t)
	_, err := svc.Create(context.Background(), domain.CreateBankTransactionRequest{
		BankConnectionID: node.Generate(),
		TransactionDate:  time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestSyncGeneratesDeposits(t *testing.T) {
	svc, conn, node := setupService(t)
	seedConnection(t, conn, node, true)
	seedConnection(t, conn, node, true)

	report, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Created, 2)

	resp, err := svc.List(context.Background(), domain.ListBankTransactionFilter{Source: domain.SourceAuto}, pagination.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, report.Created, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		assert.Equal(t, domain.StatusForReview, tx.Status)
		assert.True(t, tx.DepositAmount.GreaterThan(decimal.Zero))
		assert.True(t, tx.WithdrawalAmount.IsZero())
	}
}

func TestSyncRequiresActiveConnection(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveConnection)
}
