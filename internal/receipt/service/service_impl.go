package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/clock"
	invoicedomain "github.com/finbooks/salesdesk/internal/invoice/domain"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/internal/storage"
	"github.com/finbooks/salesdesk/pkg/db"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// receiptNoAttempts bounds the retry loop closing the number-assignment
// race: the unique index on receipt_no rejects a duplicate, and the next
// attempt advances the sequence.
const receiptNoAttempts = 5

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	InvoiceRepo invoicedomain.Repository
	LeadRepo    leaddomain.Repository
	ConnRepo    bankconndomain.Repository
	BankTxRepo  banktxdomain.Repository
	Store       storage.Store
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	leadRepo    leaddomain.Repository
	connRepo    bankconndomain.Repository
	bankTxRepo  banktxdomain.Repository
	store       storage.Store
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("receipt.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		leadRepo:    p.LeadRepo,
		connRepo:    p.ConnRepo,
		bankTxRepo:  p.BankTxRepo,
		store:       p.Store,
	}
}

// Create stores the voucher, assigns its receipt number, and applies every
// non-empty adjustment instruction in one transaction. A missing invoice
// rolls the whole creation back, decrements included.
func (s *Service) Create(ctx context.Context, req domain.CreateReceiptVoucherRequest) (domain.ReceiptVoucherView, error) {
	if req.AmountReceived.IsNegative() || req.AmountReceived.IsZero() {
		return domain.ReceiptVoucherView{}, domain.ErrInvalidAmount
	}
	if req.PaymentDate.IsZero() {
		return domain.ReceiptVoucherView{}, domain.ErrInvalidPaymentDate
	}

	exchangeRate := req.ExchangeRate
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}

	leadID := req.LeadID
	customerName := strings.TrimSpace(req.CustomerName)
	if leadID == nil && customerName != "" {
		lead, err := s.leadRepo.FindByCustomerName(ctx, s.db, customerName)
		if err != nil {
			return domain.ReceiptVoucherView{}, err
		}
		if lead != nil {
			leadID = &lead.ID
		}
	}

	now := s.clock.Now().UTC()
	voucher := domain.ReceiptVoucher{
		ID:              s.genID.Generate(),
		CustomerName:    customerName,
		LeadID:          leadID,
		PaymentDate:     req.PaymentDate,
		ReferenceNumber: req.ReferenceNumber,
		PaymentMethod:   req.PaymentMethod,
		DepositToID:     req.DepositToID,
		AmountReceived:  req.AmountReceived.Round(2),
		TDSReceivable:   req.TDSReceivable.Round(2),
		ExchangeRate:    exchangeRate,
		Status:          domain.StatusUnreconciled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithReceiptNo(ctx, tx, &voucher); err != nil {
			return err
		}
		for _, instr := range req.Adjustments {
			if instr.Total().IsZero() {
				continue
			}
			if err := s.applyAdjustment(ctx, tx, voucher.ID, instr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ReceiptVoucherView{}, err
	}

	return s.GetByID(ctx, voucher.ID)
}

// insertWithReceiptNo runs each attempt in a nested transaction so a
// rejected duplicate rolls back to its savepoint instead of poisoning the
// surrounding transaction; postgres refuses further statements otherwise.
func (s *Service) insertWithReceiptNo(ctx context.Context, tx *gorm.DB, voucher *domain.ReceiptVoucher) error {
	next, err := s.nextReceiptSeq(ctx, tx)
	if err != nil {
		return err
	}

	var insertErr error
	for attempt := 0; attempt < receiptNoAttempts; attempt++ {
		voucher.ReceiptNo = fmt.Sprintf("RV-%03d", next+attempt)
		insertErr = tx.Transaction(func(inner *gorm.DB) error {
			return s.repo.Insert(ctx, inner, voucher)
		})
		if insertErr == nil {
			return nil
		}
		if !db.IsDuplicateKeyErr(insertErr) {
			return insertErr
		}
	}
	return insertErr
}

func (s *Service) nextReceiptSeq(ctx context.Context, tx *gorm.DB) (int, error) {
	latest, err := s.repo.FindLatest(ctx, tx)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 1, nil
	}
	seq, ok := parseReceiptSeq(latest.ReceiptNo)
	if !ok {
		return 1, nil
	}
	return seq + 1, nil
}

func parseReceiptSeq(receiptNo string) (int, bool) {
	raw, found := strings.CutPrefix(receiptNo, "RV-")
	if !found {
		return 0, false
	}
	seq, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return seq, true
}

// applyAdjustment records the split and pushes the decrement into the
// invoice: the balance clamps at zero and the status follows it.
func (s *Service) applyAdjustment(ctx context.Context, tx *gorm.DB, voucherID snowflake.ID, instr domain.AdjustmentInstruction) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, tx, instr.InvoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrInvoiceNotFound
	}

	adj := domain.ReceiptAdjustment{
		ID:               s.genID.Generate(),
		ReceiptVoucherID: voucherID,
		InvoiceID:        invoice.ID,
		PaymentAmount:    instr.PaymentAmount.Round(2),
		TDSAmount:        instr.TDSAmount.Round(2),
		BankCharges:      instr.BankCharges.Round(2),
	}
	if err := s.repo.InsertAdjustment(ctx, tx, &adj); err != nil {
		return err
	}

	balance := invoice.OpenBalance.Sub(instr.Total())
	if balance.LessThanOrEqual(decimal.Zero) {
		invoice.OpenBalance = decimal.Zero
		invoice.Status = invoicedomain.StatusPaid
	} else {
		invoice.OpenBalance = balance
		invoice.Status = invoicedomain.StatusPartial
	}
	invoice.UpdatedAt = s.clock.Now().UTC()
	return s.invoiceRepo.Update(ctx, tx, invoice)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.ReceiptVoucherView, error) {
	voucher, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ReceiptVoucherView{}, err
	}
	if voucher == nil {
		return domain.ReceiptVoucherView{}, domain.ErrNotFound
	}
	return s.view(ctx, *voucher), nil
}

func (s *Service) List(ctx context.Context, filter domain.ListReceiptVoucherFilter, page pagination.Pagination) (domain.ListReceiptVoucherResponse, error) {
	vouchers, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListReceiptVoucherResponse{}, err
	}

	out := make([]domain.ReceiptVoucherView, 0, len(vouchers))
	for _, v := range vouchers {
		if v != nil {
			out = append(out, s.view(ctx, *v))
		}
	}
	return domain.ListReceiptVoucherResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Vouchers: out,
	}, nil
}

// view fills display fields the row does not carry: the deposit bank's
// name, the reconciliation date off the matched transaction, and the
// lead's customer name when the voucher stored none.
func (s *Service) view(ctx context.Context, voucher domain.ReceiptVoucher) domain.ReceiptVoucherView {
	out := domain.ReceiptVoucherView{ReceiptVoucher: voucher}
	if out.CustomerName == "" && voucher.LeadID != nil {
		if lead, err := s.leadRepo.FindByID(ctx, s.db, *voucher.LeadID); err == nil && lead != nil {
			out.CustomerName = lead.CustomerName
		}
	}
	if voucher.DepositToID != nil {
		if conn, err := s.connRepo.FindByID(ctx, s.db, *voucher.DepositToID); err == nil && conn != nil {
			out.BankName = conn.BankName
		}
	}
	if voucher.BankTransactionID != nil {
		if tx, err := s.bankTxRepo.FindByID(ctx, s.db, *voucher.BankTransactionID); err == nil && tx != nil {
			out.ReconciliationDate = tx.ReconciliationDate
		}
	}
	return out
}

// Delete removes the voucher and its adjustment rows. Invoice balances the
// adjustments already consumed are not restored.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	voucher, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return domain.ErrNotFound
	}

	for _, att := range voucher.Attachments {
		if err := s.store.Delete(att.Path); err != nil {
			s.log.Warn("delete attachment blob", zap.String("path", att.Path), zap.Error(err))
		}
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) AddAttachment(ctx context.Context, id snowflake.ID, filename string, content io.Reader) (domain.ReceiptAttachment, error) {
	if content == nil || strings.TrimSpace(filename) == "" {
		return domain.ReceiptAttachment{}, domain.ErrMissingFile
	}

	voucher, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ReceiptAttachment{}, err
	}
	if voucher == nil {
		return domain.ReceiptAttachment{}, domain.ErrNotFound
	}

	path, err := s.store.Save(filename, content)
	if err != nil {
		return domain.ReceiptAttachment{}, err
	}

	att := domain.ReceiptAttachment{
		ID:               s.genID.Generate(),
		ReceiptVoucherID: voucher.ID,
		Path:             path,
		Filename:         filename,
		UploadedAt:       s.clock.Now().UTC(),
	}
	if err := s.repo.InsertAttachment(ctx, s.db, &att); err != nil {
		_ = s.store.Delete(path)
		return domain.ReceiptAttachment{}, err
	}
	return att, nil
}

func (s *Service) DeleteAttachment(ctx context.Context, id, attachmentID snowflake.ID) error {
	att, err := s.repo.FindAttachment(ctx, s.db, id, attachmentID)
	if err != nil {
		return err
	}
	if att == nil {
		return domain.ErrAttachmentNotFound
	}
	if err := s.repo.DeleteAttachment(ctx, s.db, att.ID); err != nil {
		return err
	}
	if err := s.store.Delete(att.Path); err != nil {
		s.log.Warn("delete attachment blob", zap.String("path", att.Path), zap.Error(err))
	}
	return nil
}
