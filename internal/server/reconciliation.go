package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	recondomain "github.com/finbooks/salesdesk/internal/reconciliation/domain"
	"github.com/gin-gonic/gin"
)

type matchTransactionRequest struct {
	ReceiptIDs         []string `json:"receipt_ids"`
	ReconciliationDate string   `json:"reconciliation_date"`
}

func (s *Server) MatchTransaction(c *gin.Context) {
	txID, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req matchTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	receiptIDs := make([]snowflake.ID, 0, len(req.ReceiptIDs))
	for _, raw := range req.ReceiptIDs {
		id, err := parsePathID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("receipt_ids", "invalid_receipt_id", "invalid receipt id"))
			return
		}
		receiptIDs = append(receiptIDs, id)
	}

	var reconDate *time.Time
	if v := strings.TrimSpace(req.ReconciliationDate); v != "" {
		parsed, err := parseOptionalTime(v, false)
		if err != nil {
			AbortWithError(c, newValidationError("reconciliation_date", "invalid_reconciliation_date", "invalid reconciliation_date"))
			return
		}
		reconDate = parsed
	}

	resp, err := s.reconSvc.Match(c.Request.Context(), recondomain.MatchRequest{
		TransactionID:      txID,
		ReceiptIDs:         receiptIDs,
		ReconciliationDate: reconDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "reconciliation.match", "bank_transaction", txID.String(), map[string]interface{}{
		"receipt_ids": req.ReceiptIDs,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type excludeTransactionRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) ExcludeTransaction(c *gin.Context) {
	txID, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	// Reason is optional; an absent body means "Other".
	var req excludeTransactionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.reconSvc.Exclude(c.Request.Context(), recondomain.ExcludeRequest{
		TransactionID: txID,
		Reason:        strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "reconciliation.exclude", "bank_transaction", txID.String(), map[string]interface{}{
		"reason": resp.ExclusionReason,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UndoExcludeTransaction(c *gin.Context) {
	txID, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.reconSvc.UndoExclude(c.Request.Context(), txID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "reconciliation.undo_exclude", "bank_transaction", txID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
