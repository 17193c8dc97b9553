package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bwmarrin/snowflake"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/banktransaction/normalize"
	"github.com/finbooks/salesdesk/internal/banktransaction/statement"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	ConnRepo bankconndomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	connRepo bankconndomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("banktransaction.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		connRepo: p.ConnRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBankTransactionRequest) (domain.BankTransactionView, error) {
	if req.TransactionDate.IsZero() {
		return domain.BankTransactionView{}, domain.ErrInvalidDate
	}
	conn, err := s.connRepo.FindByID(ctx, s.db, req.BankConnectionID)
	if err != nil {
		return domain.BankTransactionView{}, err
	}
	if conn == nil {
		return domain.BankTransactionView{}, domain.ErrConnectionNotFound
	}

	date := req.TransactionDate
	tx := domain.BankTransaction{
		ID:                 s.genID.Generate(),
		BankConnectionID:   conn.ID,
		TransactionDate:    date,
		Description:        req.Description,
		CustomerName:       req.CustomerName,
		AmountReceived:     req.DepositAmount,
		Status:             domain.StatusForReview,
		Source:             domain.SourceManual,
		TransactionID:      req.TransactionID,
		ValueDate:          &date,
		PostedDate:         &date,
		ChequeRefNo:        req.ChequeRefNo,
		TransactionRemarks: req.Description,
		WithdrawalAmount:   req.WithdrawalAmount,
		DepositAmount:      req.DepositAmount,
		Balance:            req.Balance,
		CreatedAt:          s.clock.Now().UTC(),
	}
	if tx.CustomerName == "" {
		tx.CustomerName = customerFromRemarks(req.Description)
	}
	if err := s.repo.Insert(ctx, s.db, &tx); err != nil {
		return domain.BankTransactionView{}, err
	}
	return domain.BankTransactionView{BankTransaction: tx, BankName: conn.BankName}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.BankTransactionView, error) {
	tx, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BankTransactionView{}, err
	}
	if tx == nil {
		return domain.BankTransactionView{}, domain.ErrNotFound
	}
	return s.withBankName(ctx, tx), nil
}

func (s *Service) List(ctx context.Context, filter domain.ListBankTransactionFilter, page pagination.Pagination) (domain.ListBankTransactionResponse, error) {
	txs, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListBankTransactionResponse{}, err
	}

	views := make([]domain.BankTransactionView, 0, len(txs))
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		views = append(views, s.withBankName(ctx, tx))
	}
	return domain.ListBankTransactionResponse{
		PageInfo:     pagination.BuildPageInfo(page, total),
		Transactions: views,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	tx, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

// Import parses an uploaded statement, normalizes each row through the
// bank-type mapping, and stores the survivors against the first active
// connection. Rows the mapping rejects come back in the report instead of
// being silently counted away.
func (s *Service) Import(ctx context.Context, req domain.ImportRequest) (domain.ImportReport, error) {
	if req.Content == nil || strings.TrimSpace(req.Filename) == "" {
		return domain.ImportReport{}, domain.ErrMissingFile
	}

	conn, err := s.connRepo.FindFirstActive(ctx, s.db)
	if err != nil {
		return domain.ImportReport{}, err
	}
	if conn == nil {
		return domain.ImportReport{}, domain.ErrNoActiveConnection
	}

	rows, skips, err := statement.Read(req.Content, req.Filename, req.BankType)
	if err != nil {
		return domain.ImportReport{}, err
	}
	mapRow := normalize.For(req.BankType)

	report := domain.ImportReport{Skipped: []domain.SkippedRow{}}
	for _, skip := range skips {
		report.Skipped = append(report.Skipped, domain.SkippedRow{
			RowNumber: skip.Row,
			Reason:    skip.Reason,
		})
	}
	err = s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		for i, row := range rows {
			rec, err := mapRow(row)
			if err != nil {
				report.Skipped = append(report.Skipped, domain.SkippedRow{
					RowNumber: i + 1,
					Reason:    err.Error(),
				})
				continue
			}

			date := rec.TransactionDate
			valueDate := rec.ValueDate
			if valueDate == nil {
				valueDate = &date
			}
			tx := domain.BankTransaction{
				ID:                 s.genID.Generate(),
				BankConnectionID:   conn.ID,
				TransactionDate:    date,
				Description:        rec.Remarks,
				CustomerName:       customerFromRemarks(rec.Remarks),
				AmountReceived:     rec.Deposit,
				Status:             domain.StatusForReview,
				Source:             domain.SourceManual,
				TransactionID:      rec.TransactionID,
				ValueDate:          valueDate,
				PostedDate:         &date,
				ChequeRefNo:        rec.ChequeRefNo,
				TransactionRemarks: rec.Remarks,
				WithdrawalAmount:   rec.Withdrawal,
				DepositAmount:      rec.Deposit,
				Balance:            rec.Balance,
				CreatedAt:          s.clock.Now().UTC(),
			}
			if err := s.repo.Insert(ctx, dbtx, &tx); err != nil {
				return err
			}
			report.Created++
		}
		return nil
	})
	if err != nil {
		return domain.ImportReport{}, err
	}

	s.log.Info("statement imported",
		zap.String("bank_type", req.BankType),
		zap.Int("created", report.Created),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Sync simulates a provider feed by generating a handful of deposits per
// active connection. It exists so reconciliation can be exercised without
// live bank credentials.
func (s *Service) Sync(ctx context.Context) (domain.SyncReport, error) {
	conns, err := s.connRepo.ListActive(ctx, s.db)
	if err != nil {
		return domain.SyncReport{}, err
	}
	if len(conns) == 0 {
		return domain.SyncReport{}, domain.ErrNoActiveConnection
	}

	now := s.clock.Now().UTC()
	report := domain.SyncReport{}
	for _, conn := range conns {
		for i := 0; i < 1+rand.Intn(3); i++ {
			deposit := decimal.NewFromInt(int64(5000 + rand.Intn(45001)))
			date := now.AddDate(0, 0, -rand.Intn(6))
			tx := domain.BankTransaction{
				ID:                 s.genID.Generate(),
				BankConnectionID:   conn.ID,
				TransactionDate:    date,
				Description:        fmt.Sprintf("Payment received - REF%04d", rand.Intn(9000)+1000),
				CustomerName:       fmt.Sprintf("Customer %d", rand.Intn(10)+1),
				AmountReceived:     deposit,
				Status:             domain.StatusForReview,
				Source:             domain.SourceAuto,
				TransactionID:      fmt.Sprintf("TXN%05d", rand.Intn(90000)+10000),
				ValueDate:          &date,
				PostedDate:         &date,
				ChequeRefNo:        fmt.Sprintf("CHQ%03d", rand.Intn(900)+100),
				TransactionRemarks: "Payment received",
				DepositAmount:      deposit,
				Balance:            decimal.NewFromInt(int64(100000 + rand.Intn(400001))),
				CreatedAt:          now,
			}
			if err := s.repo.Insert(ctx, s.db, &tx); err != nil {
				return domain.SyncReport{}, err
			}
			report.Created++
		}
	}
	return report, nil
}

func (s *Service) withBankName(ctx context.Context, tx *domain.BankTransaction) domain.BankTransactionView {
	view := domain.BankTransactionView{BankTransaction: *tx}
	if conn, err := s.connRepo.FindByID(ctx, s.db, tx.BankConnectionID); err == nil && conn != nil {
		view.BankName = conn.BankName
	}
	return view
}

func customerFromRemarks(remarks string) string {
	fields := strings.Fields(remarks)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}
