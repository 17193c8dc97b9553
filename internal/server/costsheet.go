package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type licenseItemRequest struct {
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Rate             decimal.Decimal `json:"rate"`
	Qty              int             `json:"qty"`
	Period           string          `json:"period"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

type resourceItemRequest struct {
	Category         string          `json:"category"`
	NumResources     int             `json:"num_resources"`
	NumDays          int             `json:"num_days"`
	RatePerDay       decimal.Decimal `json:"rate_per_day"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

type infrastructureItemRequest struct {
	Name             string          `json:"name"`
	Qty              int             `json:"qty"`
	Months           int             `json:"months"`
	RatePerMonth     decimal.Decimal `json:"rate_per_month"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

type otherItemRequest struct {
	Description      string          `json:"description"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

type createCostSheetRequest struct {
	CostSheetNo         string                      `json:"cost_sheet_no"`
	CostSheetDate       *time.Time                  `json:"cost_sheet_date"`
	LeadID              string                      `json:"lead_id"`
	LicenseItems        []licenseItemRequest        `json:"license_items"`
	ImplementationItems []resourceItemRequest       `json:"implementation_items"`
	SupportItems        []resourceItemRequest       `json:"support_items"`
	InfraItems          []infrastructureItemRequest `json:"infra_items"`
	OtherItems          []otherItemRequest          `json:"other_items"`
}

func licenseInputs(items []licenseItemRequest) []costsheetdomain.LicenseItemInput {
	out := make([]costsheetdomain.LicenseItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, costsheetdomain.LicenseItemInput{
			Name:             strings.TrimSpace(it.Name),
			Type:             strings.TrimSpace(it.Type),
			Rate:             it.Rate,
			Qty:              it.Qty,
			Period:           strings.TrimSpace(it.Period),
			MarginPercentage: it.MarginPercentage,
		})
	}
	return out
}

func resourceInputs(items []resourceItemRequest) []costsheetdomain.ResourceItemInput {
	out := make([]costsheetdomain.ResourceItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, costsheetdomain.ResourceItemInput{
			Category:         strings.TrimSpace(it.Category),
			NumResources:     it.NumResources,
			NumDays:          it.NumDays,
			RatePerDay:       it.RatePerDay,
			MarginPercentage: it.MarginPercentage,
		})
	}
	return out
}

func infraInputs(items []infrastructureItemRequest) []costsheetdomain.InfrastructureItemInput {
	out := make([]costsheetdomain.InfrastructureItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, costsheetdomain.InfrastructureItemInput{
			Name:             strings.TrimSpace(it.Name),
			Qty:              it.Qty,
			Months:           it.Months,
			RatePerMonth:     it.RatePerMonth,
			MarginPercentage: it.MarginPercentage,
		})
	}
	return out
}

func otherInputs(items []otherItemRequest) []costsheetdomain.OtherItemInput {
	out := make([]costsheetdomain.OtherItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, costsheetdomain.OtherItemInput{
			Description:      strings.TrimSpace(it.Description),
			EstimatedCost:    it.EstimatedCost,
			MarginPercentage: it.MarginPercentage,
		})
	}
	return out
}

func (s *Server) CreateCostSheet(c *gin.Context) {
	var req createCostSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	leadID, err := parsePathID(req.LeadID)
	if err != nil {
		AbortWithError(c, newValidationError("lead_id", "invalid_lead_id", "invalid lead_id"))
		return
	}

	resp, err := s.costSheetSvc.Create(c.Request.Context(), costsheetdomain.CreateCostSheetRequest{
		CostSheetNo:   strings.TrimSpace(req.CostSheetNo),
		CostSheetDate: req.CostSheetDate,
		LeadID:        leadID,
		Items: costsheetdomain.ItemsInput{
			LicenseItems:        licenseInputs(req.LicenseItems),
			ImplementationItems: resourceInputs(req.ImplementationItems),
			SupportItems:        resourceInputs(req.SupportItems),
			InfraItems:          infraInputs(req.InfraItems),
			OtherItems:          otherInputs(req.OtherItems),
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "cost_sheet.create", "cost_sheet", resp.ID.String(), map[string]interface{}{
		"cost_sheet_no": resp.CostSheetNo,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCostSheets(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status       string `form:"status"`
		LeadID       string `form:"lead_id"`
		CustomerName string `form:"customer_name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	leadID, err := parseOptionalSnowflakeID(query.LeadID)
	if err != nil {
		AbortWithError(c, newValidationError("lead_id", "invalid_lead_id", "invalid lead_id"))
		return
	}

	filter := costsheetdomain.ListCostSheetFilter{
		Status:       costsheetdomain.Status(strings.ToUpper(strings.TrimSpace(query.Status))),
		CustomerName: strings.TrimSpace(query.CustomerName),
	}
	if leadID != nil {
		filter.LeadID = *leadID
	}

	resp, err := s.costSheetSvc.List(c.Request.Context(), filter, query.Pagination)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCostSheet(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.costSheetSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCostSheetRequest struct {
	CostSheetDate       *time.Time                   `json:"cost_sheet_date"`
	LicenseItems        *[]licenseItemRequest        `json:"license_items"`
	ImplementationItems *[]resourceItemRequest       `json:"implementation_items"`
	SupportItems        *[]resourceItemRequest       `json:"support_items"`
	InfraItems          *[]infrastructureItemRequest `json:"infra_items"`
	OtherItems          *[]otherItemRequest          `json:"other_items"`
}

func (s *Server) UpdateCostSheet(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateCostSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := costsheetdomain.UpdateItemsInput{}
	if req.LicenseItems != nil {
		in := licenseInputs(*req.LicenseItems)
		items.LicenseItems = &in
	}
	if req.ImplementationItems != nil {
		in := resourceInputs(*req.ImplementationItems)
		items.ImplementationItems = &in
	}
	if req.SupportItems != nil {
		in := resourceInputs(*req.SupportItems)
		items.SupportItems = &in
	}
	if req.InfraItems != nil {
		in := infraInputs(*req.InfraItems)
		items.InfraItems = &in
	}
	if req.OtherItems != nil {
		in := otherInputs(*req.OtherItems)
		items.OtherItems = &in
	}

	resp, err := s.costSheetSvc.Update(c.Request.Context(), id, costsheetdomain.UpdateCostSheetRequest{
		CostSheetDate: req.CostSheetDate,
		Items:         items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCostSheet(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.costSheetSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "cost_sheet.delete", "cost_sheet", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) SubmitCostSheet(c *gin.Context) {
	s.transitionCostSheet(c, "cost_sheet.submit", s.costSheetSvc.Submit)
}

func (s *Server) ApproveCostSheet(c *gin.Context) {
	s.transitionCostSheet(c, "cost_sheet.approve", s.costSheetSvc.Approve)
}

type commentsRequest struct {
	Comments string `json:"comments"`
}

func (s *Server) RejectCostSheet(c *gin.Context) {
	var req commentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	s.transitionCostSheet(c, "cost_sheet.reject", func(ctx context.Context, id snowflake.ID) (costsheetdomain.CostSheetView, error) {
		return s.costSheetSvc.Reject(ctx, id, strings.TrimSpace(req.Comments))
	})
}

func (s *Server) RevertCostSheet(c *gin.Context) {
	var req commentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	s.transitionCostSheet(c, "cost_sheet.revert", func(ctx context.Context, id snowflake.ID) (costsheetdomain.CostSheetView, error) {
		return s.costSheetSvc.Revert(ctx, id, strings.TrimSpace(req.Comments))
	})
}

func (s *Server) transitionCostSheet(c *gin.Context, action string, fn func(context.Context, snowflake.ID) (costsheetdomain.CostSheetView, error)) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), action, "cost_sheet", id.String(), map[string]interface{}{
		"status": string(resp.Status),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportCostSheets(c *gin.Context) {
	var query struct {
		From   string `form:"from"`
		To     string `form:"to"`
		Preset string `form:"preset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}

	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	filename := fmt.Sprintf("cost_sheets_%s.csv", time.Now().UTC().Format(dateOnlyLayout))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.costSheetSvc.ExportCSV(c.Request.Context(), costsheetdomain.ExportRequest{
		From:   from,
		To:     to,
		Preset: strings.TrimSpace(query.Preset),
	}, c.Writer); err != nil {
		AbortWithError(c, err)
		return
	}
}

func (s *Server) AddCostSheetAttachment(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, costsheetdomain.ErrMissingFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	resp, err := s.costSheetSvc.AddAttachment(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCostSheetAttachment(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	attachmentID, err := parsePathID(c.Param("attachmentId"))
	if err != nil {
		AbortWithError(c, newValidationError("attachmentId", "invalid_attachment_id", "invalid attachment id"))
		return
	}

	if err := s.costSheetSvc.DeleteAttachment(c.Request.Context(), id, attachmentID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
