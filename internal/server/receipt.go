package server

import (
	"net/http"
	"strings"
	"time"

	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type adjustmentRequest struct {
	InvoiceID     string          `json:"invoice_id"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	TDSAmount     decimal.Decimal `json:"tds_amount"`
	BankCharges   decimal.Decimal `json:"bank_charges"`
}

type createReceiptVoucherRequest struct {
	CustomerName    string              `json:"customer_name"`
	LeadID          string              `json:"lead_id"`
	PaymentDate     time.Time           `json:"payment_date"`
	ReferenceNumber string              `json:"reference_number"`
	PaymentMethod   string              `json:"payment_method"`
	DepositToID     string              `json:"deposit_to_id"`
	AmountReceived  decimal.Decimal     `json:"amount_received"`
	TDSReceivable   decimal.Decimal     `json:"tds_receivable"`
	ExchangeRate    decimal.Decimal     `json:"exchange_rate"`
	Adjustments     []adjustmentRequest `json:"adjustments"`
}

func (s *Server) CreateReceiptVoucher(c *gin.Context) {
	var req createReceiptVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	leadID, err := parseOptionalSnowflakeID(req.LeadID)
	if err != nil {
		AbortWithError(c, newValidationError("lead_id", "invalid_lead_id", "invalid lead_id"))
		return
	}

	depositToID, err := parseOptionalSnowflakeID(req.DepositToID)
	if err != nil {
		AbortWithError(c, newValidationError("deposit_to_id", "invalid_deposit_to_id", "invalid deposit_to_id"))
		return
	}

	adjustments := make([]receiptdomain.AdjustmentInstruction, 0, len(req.Adjustments))
	for _, adj := range req.Adjustments {
		invoiceID, err := parsePathID(adj.InvoiceID)
		if err != nil {
			AbortWithError(c, newValidationError("adjustments.invoice_id", "invalid_invoice_id", "invalid invoice_id"))
			return
		}
		adjustments = append(adjustments, receiptdomain.AdjustmentInstruction{
			InvoiceID:     invoiceID,
			PaymentAmount: adj.PaymentAmount,
			TDSAmount:     adj.TDSAmount,
			BankCharges:   adj.BankCharges,
		})
	}

	resp, err := s.receiptSvc.Create(c.Request.Context(), receiptdomain.CreateReceiptVoucherRequest{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		LeadID:          leadID,
		PaymentDate:     req.PaymentDate,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		DepositToID:     depositToID,
		AmountReceived:  req.AmountReceived,
		TDSReceivable:   req.TDSReceivable,
		ExchangeRate:    req.ExchangeRate,
		Adjustments:     adjustments,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "receipt_voucher.create", "receipt_voucher", resp.ID.String(), map[string]interface{}{
		"receipt_no": resp.ReceiptNo,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReceiptVouchers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status       string `form:"status"`
		CustomerName string `form:"customer_name"`
		Unreconciled bool   `form:"unreconciled"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.receiptSvc.List(c.Request.Context(), receiptdomain.ListReceiptVoucherFilter{
		Status:       receiptdomain.Status(strings.ToUpper(strings.TrimSpace(query.Status))),
		CustomerName: strings.TrimSpace(query.CustomerName),
		Unreconciled: query.Unreconciled,
	}, query.Pagination)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReceiptVoucher(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.receiptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteReceiptVoucher(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.receiptSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "receipt_voucher.delete", "receipt_voucher", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AddReceiptAttachment(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, receiptdomain.ErrMissingFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	resp, err := s.receiptSvc.AddAttachment(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteReceiptAttachment(c *gin.Context) {
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

	if err := s.receiptSvc.DeleteAttachment(c.Request.Context(), id, attachmentID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
