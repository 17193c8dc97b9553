package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/clock"
	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/internal/reconciliation/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultExclusionReason = "Other"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	BankTxRepo  banktxdomain.Repository
	ReceiptRepo receiptdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	bankTxRepo  banktxdomain.Repository
	receiptRepo receiptdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("reconciliation.service"),
		clock:       p.Clock,
		bankTxRepo:  p.BankTxRepo,
		receiptRepo: p.ReceiptRepo,
	}
}

// Match links the transaction to the selected vouchers when their amounts
// sum exactly to the transaction amount. All vouchers flip to RECONCILED
// and the transaction to CATEGORIZED in one transaction, or nothing moves.
func (s *Service) Match(ctx context.Context, req domain.MatchRequest) (banktxdomain.BankTransactionView, error) {
	if len(req.ReceiptIDs) == 0 {
		return banktxdomain.BankTransactionView{}, domain.ErrNoVouchersSelected
	}

	bankTx, err := s.bankTxRepo.FindByID(ctx, s.db, req.TransactionID)
	if err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	if bankTx == nil {
		return banktxdomain.BankTransactionView{}, domain.ErrTransactionNotFound
	}

	vouchers, err := s.receiptRepo.FindByIDs(ctx, s.db, req.ReceiptIDs)
	if err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	if len(vouchers) != len(req.ReceiptIDs) {
		return banktxdomain.BankTransactionView{}, domain.ErrVoucherNotFound
	}

	total := decimal.Zero
	for _, voucher := range vouchers {
		total = total.Add(voucher.AmountReceived)
	}
	if !total.Equal(bankTx.AmountReceived) {
		return banktxdomain.BankTransactionView{}, &domain.AmountMismatchError{
			TransactionAmount: bankTx.AmountReceived,
			VoucherTotal:      total,
		}
	}

	now := s.clock.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, voucher := range vouchers {
			voucher.BankTransactionID = &bankTx.ID
			voucher.Status = receiptdomain.StatusReconciled
			voucher.UpdatedAt = now
			if err := s.receiptRepo.Update(ctx, tx, voucher); err != nil {
				return err
			}
		}
		bankTx.Status = banktxdomain.StatusCategorized
		if req.ReconciliationDate != nil {
			bankTx.ReconciliationDate = req.ReconciliationDate
		}
		return s.bankTxRepo.Update(ctx, tx, bankTx)
	})
	if err != nil {
		return banktxdomain.BankTransactionView{}, err
	}

	s.log.Info("transaction matched",
		zap.Int64("transaction_id", int64(bankTx.ID)),
		zap.Int("vouchers", len(vouchers)))
	return banktxdomain.BankTransactionView{BankTransaction: *bankTx}, nil
}

// Exclude drops the transaction out of the review queue. Legal from any
// status; an empty reason records "Other".
func (s *Service) Exclude(ctx context.Context, req domain.ExcludeRequest) (banktxdomain.BankTransactionView, error) {
	bankTx, err := s.bankTxRepo.FindByID(ctx, s.db, req.TransactionID)
	if err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	if bankTx == nil {
		return banktxdomain.BankTransactionView{}, domain.ErrTransactionNotFound
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultExclusionReason
	}
	bankTx.Status = banktxdomain.StatusExcluded
	bankTx.ExclusionReason = reason

	if err := s.bankTxRepo.Update(ctx, s.db, bankTx); err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	return banktxdomain.BankTransactionView{BankTransaction: *bankTx}, nil
}

// UndoExclude returns the transaction to FOR_REVIEW and clears the reason.
// Already-reviewable transactions pass through unchanged.
func (s *Service) UndoExclude(ctx context.Context, transactionID snowflake.ID) (banktxdomain.BankTransactionView, error) {
	bankTx, err := s.bankTxRepo.FindByID(ctx, s.db, transactionID)
	if err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	if bankTx == nil {
		return banktxdomain.BankTransactionView{}, domain.ErrTransactionNotFound
	}

	if bankTx.Status == banktxdomain.StatusForReview {
		return banktxdomain.BankTransactionView{BankTransaction: *bankTx}, nil
	}
	bankTx.Status = banktxdomain.StatusForReview
	bankTx.ExclusionReason = ""

	if err := s.bankTxRepo.Update(ctx, s.db, bankTx); err != nil {
		return banktxdomain.BankTransactionView{}, err
	}
	return banktxdomain.BankTransactionView{BankTransaction: *bankTx}, nil
}
