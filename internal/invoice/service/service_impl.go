package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/invoice/domain"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/pkg/db"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
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
	LeadRepo leaddomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	leadRepo leaddomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		leadRepo: p.LeadRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.InvoiceView, error) {
	invoiceNo := strings.TrimSpace(req.InvoiceNo)
	if invoiceNo == "" {
		return domain.InvoiceView{}, domain.ErrInvalidInvoiceNo
	}
	if req.TotalAmount.IsNegative() || req.TotalAmount.IsZero() {
		return domain.InvoiceView{}, domain.ErrInvalidAmount
	}

	lead, err := s.leadRepo.FindByID(ctx, s.db, req.LeadID)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if lead == nil {
		return domain.InvoiceView{}, domain.ErrLeadNotFound
	}

	now := s.clock.Now().UTC()
	invoice := domain.Invoice{
		ID:          s.genID.Generate(),
		InvoiceNo:   invoiceNo,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		LeadID:      lead.ID,
		TotalAmount: req.TotalAmount.Round(2),
		OpenBalance: req.TotalAmount.Round(2),
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.InvoiceView{}, domain.ErrDuplicateNo
		}
		return domain.InvoiceView{}, err
	}
	return s.view(ctx, invoice.ID)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.InvoiceView, error) {
	return s.view(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domain.ListInvoiceFilter, page pagination.Pagination) (domain.ListInvoiceResponse, error) {
	invoices, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	views := make([]domain.InvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		if invoice == nil {
			continue
		}
		view := domain.InvoiceView{Invoice: *invoice}
		if lead, err := s.leadRepo.FindByID(ctx, s.db, invoice.LeadID); err == nil && lead != nil {
			view.CustomerName = lead.CustomerName
			view.ProjectName = lead.ProjectName
		}
		views = append(views, view)
	}
	return domain.ListInvoiceResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Invoices: views,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateInvoiceRequest) (domain.InvoiceView, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if invoice == nil {
		return domain.InvoiceView{}, domain.ErrNotFound
	}

	if req.InvoiceDate != nil {
		invoice.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	invoice.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.InvoiceView{}, err
	}
	return s.view(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) view(ctx context.Context, id snowflake.ID) (domain.InvoiceView, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if invoice == nil {
		return domain.InvoiceView{}, domain.ErrNotFound
	}

	view := domain.InvoiceView{Invoice: *invoice}
	lead, err := s.leadRepo.FindByID(ctx, s.db, invoice.LeadID)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if lead != nil {
		view.CustomerName = lead.CustomerName
		view.ProjectName = lead.ProjectName
	}
	return view, nil
}
