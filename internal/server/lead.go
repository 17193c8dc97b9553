package server

import (
	"net/http"
	"strings"

	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createLeadRequest struct {
	LeadNo         string `json:"lead_no"`
	CustomerName   string `json:"customer_name"`
	ProjectName    string `json:"project_name"`
	ProjectManager string `json:"project_manager"`
	SalesPerson    string `json:"sales_person"`
}

func (s *Server) CreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), leaddomain.CreateLeadRequest{
		LeadNo:         strings.TrimSpace(req.LeadNo),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		ProjectName:    strings.TrimSpace(req.ProjectName),
		ProjectManager: strings.TrimSpace(req.ProjectManager),
		SalesPerson:    strings.TrimSpace(req.SalesPerson),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "lead.create", "lead", resp.ID.String(), map[string]interface{}{
		"lead_no": resp.LeadNo,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	var query struct {
		pagination.Pagination
		LeadNo       string `form:"lead_no"`
		CustomerName string `form:"customer_name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.List(c.Request.Context(), leaddomain.ListLeadFilter{
		LeadNo:       strings.TrimSpace(query.LeadNo),
		CustomerName: strings.TrimSpace(query.CustomerName),
	}, query.Pagination)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLead(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.leadSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateLeadRequest struct {
	CustomerName   *string `json:"customer_name"`
	ProjectName    *string `json:"project_name"`
	ProjectManager *string `json:"project_manager"`
	SalesPerson    *string `json:"sales_person"`
}

func (s *Server) UpdateLead(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Update(c.Request.Context(), id, leaddomain.UpdateLeadRequest{
		CustomerName:   req.CustomerName,
		ProjectName:    req.ProjectName,
		ProjectManager: req.ProjectManager,
		SalesPerson:    req.SalesPerson,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLead(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.leadSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "lead.delete", "lead", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
