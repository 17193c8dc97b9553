package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/internal/clock"
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
		log:   p.Log.Named("bankconnection.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBankConnectionRequest) (domain.BankConnection, error) {
	if strings.TrimSpace(req.BankName) == "" {
		return domain.BankConnection{}, domain.ErrInvalidBankName
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return domain.BankConnection{}, domain.ErrInvalidAccountNumber
	}

	now := s.clock.Now().UTC()
	conn := domain.BankConnection{
		ID:               s.genID.Generate(),
		BankName:         strings.TrimSpace(req.BankName),
		AccountNumber:    strings.TrimSpace(req.AccountNumber),
		APIKey:           req.APIKey,
		ClientID:         req.ClientID,
		OAuthCredentials: req.OAuthCredentials,
		Token:            req.Token,
		SecretKey:        req.SecretKey,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &conn); err != nil {
		return domain.BankConnection{}, err
	}
	return conn, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.BankConnection, error) {
	conn, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BankConnection{}, err
	}
	if conn == nil {
		return domain.BankConnection{}, domain.ErrNotFound
	}
	return *conn, nil
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) (domain.ListBankConnectionResponse, error) {
	conns, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return domain.ListBankConnectionResponse{}, err
	}

	out := make([]domain.BankConnection, 0, len(conns))
	for _, c := range conns {
		if c != nil {
			out = append(out, *c)
		}
	}
	return domain.ListBankConnectionResponse{
		PageInfo:        pagination.BuildPageInfo(page, total),
		BankConnections: out,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateBankConnectionRequest) (domain.BankConnection, error) {
	conn, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BankConnection{}, err
	}
	if conn == nil {
		return domain.BankConnection{}, domain.ErrNotFound
	}

	if req.BankName != nil {
		if strings.TrimSpace(*req.BankName) == "" {
			return domain.BankConnection{}, domain.ErrInvalidBankName
		}
		conn.BankName = strings.TrimSpace(*req.BankName)
	}
	if req.AccountNumber != nil {
		if strings.TrimSpace(*req.AccountNumber) == "" {
			return domain.BankConnection{}, domain.ErrInvalidAccountNumber
		}
		conn.AccountNumber = strings.TrimSpace(*req.AccountNumber)
	}
	if req.APIKey != nil {
		conn.APIKey = *req.APIKey
	}
	if req.ClientID != nil {
		conn.ClientID = *req.ClientID
	}
	if req.OAuthCredentials != nil {
		conn.OAuthCredentials = *req.OAuthCredentials
	}
	if req.Token != nil {
		conn.Token = *req.Token
	}
	if req.SecretKey != nil {
		conn.SecretKey = *req.SecretKey
	}
	if req.IsActive != nil {
		conn.IsActive = *req.IsActive
	}
	conn.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, conn); err != nil {
		return domain.BankConnection{}, err
	}
	return *conn, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	conn, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if conn == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
