package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/pkg/db"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("lead.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	leadNo := strings.TrimSpace(req.LeadNo)
	if leadNo == "" {
		return domain.Lead{}, domain.ErrInvalidLeadNo
	}
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return domain.Lead{}, domain.ErrInvalidCustomerName
	}

	now := s.clock.Now().UTC()
	lead := domain.Lead{
		ID:             s.genID.Generate(),
		LeadNo:         leadNo,
		CustomerName:   customerName,
		ProjectName:    strings.TrimSpace(req.ProjectName),
		ProjectManager: strings.TrimSpace(req.ProjectManager),
		SalesPerson:    strings.TrimSpace(req.SalesPerson),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &lead); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Lead{}, domain.ErrDuplicateLeadNo
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *lead, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListLeadFilter, page pagination.Pagination) (domain.ListLeadResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListLeadResponse{}, err
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item != nil {
			leads = append(leads, *item)
		}
	}
	return domain.ListLeadResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Leads:    leads,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateLeadRequest) (domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead == nil {
		return domain.Lead{}, domain.ErrNotFound
	}

	// LeadNo is identity and never changes here.
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return domain.Lead{}, domain.ErrInvalidCustomerName
		}
		lead.CustomerName = name
	}
	if req.ProjectName != nil {
		lead.ProjectName = strings.TrimSpace(*req.ProjectName)
	}
	if req.ProjectManager != nil {
		lead.ProjectManager = strings.TrimSpace(*req.ProjectManager)
	}
	if req.SalesPerson != nil {
		lead.SalesPerson = strings.TrimSpace(*req.SalesPerson)
	}
	lead.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, lead); err != nil {
		return domain.Lead{}, err
	}
	return *lead, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	lead, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
