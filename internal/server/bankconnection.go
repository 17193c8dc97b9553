package server

import (
	"net/http"
	"strings"

	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateBankConnection(c *gin.Context) {
	var req bankconndomain.CreateBankConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.BankName = strings.TrimSpace(req.BankName)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)

	resp, err := s.bankConnSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_connection.create", "bank_connection", resp.ID.String(), map[string]interface{}{
		"bank_name": resp.BankName,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBankConnections(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bankConnSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBankConnection(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.bankConnSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBankConnection(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req bankconndomain.UpdateBankConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bankConnSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_connection.update", "bank_connection", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBankConnection(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.bankConnSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_connection.delete", "bank_connection", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
