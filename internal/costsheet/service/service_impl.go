package service

import (
	"context"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/costsheet/domain"
	"github.com/finbooks/salesdesk/internal/costsheet/pricing"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/internal/storage"
	"github.com/finbooks/salesdesk/pkg/db"
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
	LeadRepo leaddomain.Repository
	Store    storage.Store
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	leadRepo leaddomain.Repository
	store    storage.Store
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("costsheet.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		leadRepo: p.LeadRepo,
		store:    p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCostSheetRequest) (domain.CostSheetView, error) {
	sheetNo := strings.TrimSpace(req.CostSheetNo)
	if sheetNo == "" {
		return domain.CostSheetView{}, domain.ErrInvalidCostSheetNo
	}

	lead, err := s.leadRepo.FindByID(ctx, s.db, req.LeadID)
	if err != nil {
		return domain.CostSheetView{}, err
	}
	if lead == nil {
		return domain.CostSheetView{}, domain.ErrLeadNotFound
	}

	now := s.clock.Now().UTC()
	sheet := domain.CostSheet{
		ID:            s.genID.Generate(),
		CostSheetNo:   sheetNo,
		CostSheetDate: req.CostSheetDate,
		LeadID:        lead.ID,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &sheet); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateNo
			}
			return err
		}
		if err := s.replaceAllItems(ctx, tx, sheet.ID, req.Items); err != nil {
			return err
		}
		return s.rollup(ctx, tx, &sheet)
	})
	if err != nil {
		return domain.CostSheetView{}, err
	}

	return s.view(ctx, sheet.ID)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.CostSheetView, error) {
	return s.view(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domain.ListCostSheetFilter, page pagination.Pagination) (domain.ListCostSheetResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCostSheetResponse{}, err
	}

	views := make([]domain.CostSheetView, 0, len(items))
	for _, sheet := range items {
		if sheet == nil {
			continue
		}
		view := domain.CostSheetView{CostSheet: *sheet}
		if lead, err := s.leadRepo.FindByID(ctx, s.db, sheet.LeadID); err == nil && lead != nil {
			fillLeadFields(&view, lead)
		}
		views = append(views, view)
	}
	return domain.ListCostSheetResponse{
		PageInfo:   pagination.BuildPageInfo(page, total),
		CostSheets: views,
	}, nil
}

// Update replaces any provided line-item collection wholesale and recomputes
// totals in the same transaction, so a reader never sees stale totals
// against the current children.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateCostSheetRequest) (domain.CostSheetView, error) {
	sheet, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CostSheetView{}, err
	}
	if sheet == nil {
		return domain.CostSheetView{}, domain.ErrNotFound
	}
	if !sheet.Status.Editable() {
		return domain.CostSheetView{}, domain.ErrNotEditable
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.CostSheetDate != nil {
			sheet.CostSheetDate = req.CostSheetDate
		}

		items := req.Items
		if items.LicenseItems != nil {
			rows := s.buildLicenseItems(sheet.ID, *items.LicenseItems)
			if err := s.repo.ReplaceLicenseItems(ctx, tx, sheet.ID, rows); err != nil {
				return err
			}
		}
		if items.ImplementationItems != nil {
			rows := s.buildImplementationItems(sheet.ID, *items.ImplementationItems)
			if err := s.repo.ReplaceImplementationItems(ctx, tx, sheet.ID, rows); err != nil {
				return err
			}
		}
		if items.SupportItems != nil {
			rows := s.buildSupportItems(sheet.ID, *items.SupportItems)
			if err := s.repo.ReplaceSupportItems(ctx, tx, sheet.ID, rows); err != nil {
				return err
			}
		}
		if items.InfraItems != nil {
			rows := s.buildInfraItems(sheet.ID, *items.InfraItems)
			if err := s.repo.ReplaceInfraItems(ctx, tx, sheet.ID, rows); err != nil {
				return err
			}
		}
		if items.OtherItems != nil {
			rows := s.buildOtherItems(sheet.ID, *items.OtherItems)
			if err := s.repo.ReplaceOtherItems(ctx, tx, sheet.ID, rows); err != nil {
				return err
			}
		}

		return s.rollup(ctx, tx, sheet)
	})
	if err != nil {
		return domain.CostSheetView{}, err
	}

	return s.view(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	sheet, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if sheet == nil {
		return domain.ErrNotFound
	}

	// Remove stored blobs before the rows cascade away.
	for _, att := range sheet.Attachments {
		if err := s.store.Delete(att.Path); err != nil {
			s.log.Warn("delete attachment blob", zap.String("path", att.Path), zap.Error(err))
		}
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) Submit(ctx context.Context, id snowflake.ID) (domain.CostSheetView, error) {
	return s.transition(ctx, id, func(sheet *domain.CostSheet) error {
		if !sheet.Status.Editable() {
			return domain.ErrNotEditable
		}
		sheet.Status = domain.StatusSubmitted
		return nil
	})
}

func (s *Service) Approve(ctx context.Context, id snowflake.ID) (domain.CostSheetView, error) {
	return s.transition(ctx, id, func(sheet *domain.CostSheet) error {
		if sheet.Status != domain.StatusSubmitted {
			return domain.ErrNotSubmitted
		}
		sheet.Status = domain.StatusApproved
		return nil
	})
}

func (s *Service) Reject(ctx context.Context, id snowflake.ID, comments string) (domain.CostSheetView, error) {
	comments = strings.TrimSpace(comments)
	return s.transition(ctx, id, func(sheet *domain.CostSheet) error {
		if sheet.Status != domain.StatusSubmitted {
			return domain.ErrNotSubmitted
		}
		if comments == "" {
			return domain.ErrMissingComments
		}
		sheet.Status = domain.StatusRejected
		sheet.ApprovalComments = comments
		return nil
	})
}

func (s *Service) Revert(ctx context.Context, id snowflake.ID, comments string) (domain.CostSheetView, error) {
	comments = strings.TrimSpace(comments)
	return s.transition(ctx, id, func(sheet *domain.CostSheet) error {
		if sheet.Status != domain.StatusSubmitted {
			return domain.ErrNotSubmitted
		}
		if comments == "" {
			return domain.ErrMissingComments
		}
		sheet.Status = domain.StatusReverted
		sheet.RevertComments = comments
		return nil
	})
}

func (s *Service) AddAttachment(ctx context.Context, id snowflake.ID, filename string, content io.Reader) (domain.Attachment, error) {
	if content == nil || strings.TrimSpace(filename) == "" {
		return domain.Attachment{}, domain.ErrMissingFile
	}

	sheet, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Attachment{}, err
	}
	if sheet == nil {
		return domain.Attachment{}, domain.ErrNotFound
	}

	path, err := s.store.Save(filename, content)
	if err != nil {
		return domain.Attachment{}, err
	}

	att := domain.Attachment{
		ID:          s.genID.Generate(),
		CostSheetID: sheet.ID,
		Path:        path,
		Filename:    filename,
		UploadedAt:  s.clock.Now().UTC(),
	}
	if err := s.repo.InsertAttachment(ctx, s.db, &att); err != nil {
		_ = s.store.Delete(path)
		return domain.Attachment{}, err
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

func (s *Service) transition(ctx context.Context, id snowflake.ID, apply func(*domain.CostSheet) error) (domain.CostSheetView, error) {
	sheet, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CostSheetView{}, err
	}
	if sheet == nil {
		return domain.CostSheetView{}, domain.ErrNotFound
	}

	if err := apply(sheet); err != nil {
		return domain.CostSheetView{}, err
	}
	sheet.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, sheet); err != nil {
		return domain.CostSheetView{}, err
	}
	return s.view(ctx, id)
}

func (s *Service) replaceAllItems(ctx context.Context, tx *gorm.DB, sheetID snowflake.ID, items domain.ItemsInput) error {
	if err := s.repo.ReplaceLicenseItems(ctx, tx, sheetID, s.buildLicenseItems(sheetID, items.LicenseItems)); err != nil {
		return err
	}
	if err := s.repo.ReplaceImplementationItems(ctx, tx, sheetID, s.buildImplementationItems(sheetID, items.ImplementationItems)); err != nil {
		return err
	}
	if err := s.repo.ReplaceSupportItems(ctx, tx, sheetID, s.buildSupportItems(sheetID, items.SupportItems)); err != nil {
		return err
	}
	if err := s.repo.ReplaceInfraItems(ctx, tx, sheetID, s.buildInfraItems(sheetID, items.InfraItems)); err != nil {
		return err
	}
	return s.repo.ReplaceOtherItems(ctx, tx, sheetID, s.buildOtherItems(sheetID, items.OtherItems))
}

func (s *Service) buildLicenseItems(sheetID snowflake.ID, inputs []domain.LicenseItemInput) []domain.LicenseItem {
	rows := make([]domain.LicenseItem, 0, len(inputs))
	for _, in := range inputs {
		r := pricing.License(in.Rate, in.Qty, in.MarginPercentage)
		rows = append(rows, domain.LicenseItem{
			ID:                    s.genID.Generate(),
			CostSheetID:           sheetID,
			Name:                  in.Name,
			Type:                  in.Type,
			Rate:                  in.Rate,
			Qty:                   in.Qty,
			Period:                in.Period,
			MarginPercentage:      in.MarginPercentage,
			EstimatedCost:         r.Cost,
			EstimatedMarginAmount: r.MarginAmount,
			EstimatedPrice:        r.Price,
		})
	}
	return rows
}

func (s *Service) buildImplementationItems(sheetID snowflake.ID, inputs []domain.ResourceItemInput) []domain.ServiceImplementationItem {
	rows := make([]domain.ServiceImplementationItem, 0, len(inputs))
	for _, in := range inputs {
		totalDays, r := pricing.ResourceDays(in.NumResources, in.NumDays, in.RatePerDay, in.MarginPercentage)
		rows = append(rows, domain.ServiceImplementationItem{
			ID:                    s.genID.Generate(),
			CostSheetID:           sheetID,
			Category:              in.Category,
			NumResources:          in.NumResources,
			NumDays:               in.NumDays,
			RatePerDay:            in.RatePerDay,
			MarginPercentage:      in.MarginPercentage,
			TotalDays:             totalDays,
			EstimatedCost:         r.Cost,
			EstimatedMarginAmount: r.MarginAmount,
			EstimatedPrice:        r.Price,
		})
	}
	return rows
}

func (s *Service) buildSupportItems(sheetID snowflake.ID, inputs []domain.ResourceItemInput) []domain.ServiceSupportItem {
	rows := make([]domain.ServiceSupportItem, 0, len(inputs))
	for _, in := range inputs {
		totalDays, r := pricing.ResourceDays(in.NumResources, in.NumDays, in.RatePerDay, in.MarginPercentage)
		rows = append(rows, domain.ServiceSupportItem{
			ID:                    s.genID.Generate(),
			CostSheetID:           sheetID,
			Category:              in.Category,
			NumResources:          in.NumResources,
			NumDays:               in.NumDays,
			RatePerDay:            in.RatePerDay,
			MarginPercentage:      in.MarginPercentage,
			TotalDays:             totalDays,
			EstimatedCost:         r.Cost,
			EstimatedMarginAmount: r.MarginAmount,
			EstimatedPrice:        r.Price,
		})
	}
	return rows
}

func (s *Service) buildInfraItems(sheetID snowflake.ID, inputs []domain.InfrastructureItemInput) []domain.InfrastructureItem {
	rows := make([]domain.InfrastructureItem, 0, len(inputs))
	for _, in := range inputs {
		r := pricing.Infrastructure(in.Qty, in.RatePerMonth, in.Months, in.MarginPercentage)
		rows = append(rows, domain.InfrastructureItem{
			ID:                    s.genID.Generate(),
			CostSheetID:           sheetID,
			Name:                  in.Name,
			Qty:                   in.Qty,
			Months:                in.Months,
			RatePerMonth:          in.RatePerMonth,
			MarginPercentage:      in.MarginPercentage,
			EstimatedCost:         r.Cost,
			EstimatedMarginAmount: r.MarginAmount,
			EstimatedPrice:        r.Price,
		})
	}
	return rows
}

func (s *Service) buildOtherItems(sheetID snowflake.ID, inputs []domain.OtherItemInput) []domain.OtherItem {
	rows := make([]domain.OtherItem, 0, len(inputs))
	for _, in := range inputs {
		r := pricing.Direct(in.EstimatedCost, in.MarginPercentage)
		rows = append(rows, domain.OtherItem{
			ID:                    s.genID.Generate(),
			CostSheetID:           sheetID,
			Description:           in.Description,
			MarginPercentage:      in.MarginPercentage,
			EstimatedCost:         r.Cost,
			EstimatedMarginAmount: r.MarginAmount,
			EstimatedPrice:        r.Price,
		})
	}
	return rows
}

// rollup recomputes the sheet totals from the committed children inside the
// caller's transaction.
func (s *Service) rollup(ctx context.Context, tx *gorm.DB, sheet *domain.CostSheet) error {
	current, err := s.repo.FindByID(ctx, tx, sheet.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}

	cost, margin, price := decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range current.LicenseItems {
		cost = cost.Add(it.EstimatedCost)
		margin = margin.Add(it.EstimatedMarginAmount)
		price = price.Add(it.EstimatedPrice)
	}
	for _, it := range current.ImplementationItems {
		cost = cost.Add(it.EstimatedCost)
		margin = margin.Add(it.EstimatedMarginAmount)
		price = price.Add(it.EstimatedPrice)
	}
	for _, it := range current.SupportItems {
		cost = cost.Add(it.EstimatedCost)
		margin = margin.Add(it.EstimatedMarginAmount)
		price = price.Add(it.EstimatedPrice)
	}
	for _, it := range current.InfraItems {
		cost = cost.Add(it.EstimatedCost)
		margin = margin.Add(it.EstimatedMarginAmount)
		price = price.Add(it.EstimatedPrice)
	}
	for _, it := range current.OtherItems {
		cost = cost.Add(it.EstimatedCost)
		margin = margin.Add(it.EstimatedMarginAmount)
		price = price.Add(it.EstimatedPrice)
	}

	sheet.TotalEstimatedCost = cost
	sheet.TotalEstimatedMargin = margin
	sheet.TotalEstimatedPrice = price
	sheet.UpdatedAt = s.clock.Now().UTC()
	return s.repo.Update(ctx, tx, sheet)
}

func (s *Service) view(ctx context.Context, id snowflake.ID) (domain.CostSheetView, error) {
	sheet, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CostSheetView{}, err
	}
	if sheet == nil {
		return domain.CostSheetView{}, domain.ErrNotFound
	}

	view := domain.CostSheetView{CostSheet: *sheet}
	lead, err := s.leadRepo.FindByID(ctx, s.db, sheet.LeadID)
	if err != nil {
		return domain.CostSheetView{}, err
	}
	if lead != nil {
		fillLeadFields(&view, lead)
	}
	return view, nil
}

func fillLeadFields(view *domain.CostSheetView, lead *leaddomain.Lead) {
	view.LeadNo = lead.LeadNo
	view.CustomerName = lead.CustomerName
	view.ProjectName = lead.ProjectName
	view.ProjectManager = lead.ProjectManager
	view.SalesPerson = lead.SalesPerson
}
