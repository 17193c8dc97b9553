package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
)

type CreateLeadRequest struct {
	LeadNo         string
	CustomerName   string
	ProjectName    string
	ProjectManager string
	SalesPerson    string
}

type UpdateLeadRequest struct {
	CustomerName   *string
	ProjectName    *string
	ProjectManager *string
	SalesPerson    *string
}

type ListLeadFilter struct {
	LeadNo       string
	CustomerName string
}

type ListLeadResponse struct {
	pagination.PageInfo
	Leads []Lead `json:"leads"`
}

type Service interface {
	Create(ctx context.Context, req CreateLeadRequest) (Lead, error)
	GetByID(ctx context.Context, id snowflake.ID) (Lead, error)
	List(ctx context.Context, filter ListLeadFilter, page pagination.Pagination) (ListLeadResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateLeadRequest) (Lead, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidLeadNo       = errors.New("invalid_lead_no")
	ErrInvalidCustomerName = errors.New("invalid_customer_name")
	ErrDuplicateLeadNo     = errors.New("duplicate_lead_no")
	ErrNotFound            = errors.New("lead_not_found")
)
