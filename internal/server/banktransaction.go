package server

import (
	"net/http"
	"strings"
	"time"

	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createBankTransactionRequest struct {
	BankConnectionID string          `json:"bank_connection_id"`
	TransactionDate  string          `json:"transaction_date"`
	Description      string          `json:"description"`
	CustomerName     string          `json:"customer_name"`
	WithdrawalAmount decimal.Decimal `json:"withdrawal_amount"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	TransactionID    string          `json:"transaction_id"`
	ChequeRefNo      string          `json:"cheque_ref_no"`
	Balance          decimal.Decimal `json:"balance"`
}

func (s *Server) CreateBankTransaction(c *gin.Context) {
	var req createBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	connID, err := parsePathID(req.BankConnectionID)
	if err != nil {
		AbortWithError(c, newValidationError("bank_connection_id", "invalid_bank_connection_id", "invalid bank_connection_id"))
		return
	}

	var txDate time.Time
	if v := strings.TrimSpace(req.TransactionDate); v != "" {
		parsed, err := parseOptionalTime(v, false)
		if err != nil {
			AbortWithError(c, newValidationError("transaction_date", "invalid_transaction_date", "invalid transaction_date"))
			return
		}
		txDate = *parsed
	}

	resp, err := s.bankTxSvc.Create(c.Request.Context(), banktxdomain.CreateBankTransactionRequest{
		BankConnectionID: connID,
		TransactionDate:  txDate,
		Description:      strings.TrimSpace(req.Description),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		WithdrawalAmount: req.WithdrawalAmount,
		DepositAmount:    req.DepositAmount,
		TransactionID:    strings.TrimSpace(req.TransactionID),
		ChequeRefNo:      strings.TrimSpace(req.ChequeRefNo),
		Balance:          req.Balance,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_transaction.create", "bank_transaction", resp.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBankTransactions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status           string `form:"status"`
		Source           string `form:"source"`
		BankConnectionID string `form:"bank_connection_id"`
		Search           string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	connID, err := parseOptionalSnowflakeID(query.BankConnectionID)
	if err != nil {
		AbortWithError(c, newValidationError("bank_connection_id", "invalid_bank_connection_id", "invalid bank_connection_id"))
		return
	}

	filter := banktxdomain.ListBankTransactionFilter{
		Status: banktxdomain.Status(strings.ToUpper(strings.TrimSpace(query.Status))),
		Source: banktxdomain.Source(strings.ToUpper(strings.TrimSpace(query.Source))),
		Search: strings.TrimSpace(query.Search),
	}
	if connID != nil {
		filter.BankConnectionID = *connID
	}

	resp, err := s.bankTxSvc.List(c.Request.Context(), filter, query.Pagination)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBankTransaction(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.bankTxSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBankTransaction(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.bankTxSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_transaction.delete", "bank_transaction", id.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) UploadStatement(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, banktxdomain.ErrMissingFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	report, err := s.bankTxSvc.Import(c.Request.Context(), banktxdomain.ImportRequest{
		Filename: header.Filename,
		BankType: strings.TrimSpace(c.PostForm("bank_type")),
		Content:  file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_transaction.import", "bank_transaction", "", map[string]interface{}{
		"filename": header.Filename,
		"created":  report.Created,
		"skipped":  len(report.Skipped),
	})

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) SyncBankTransactions(c *gin.Context) {
	report, err := s.bankTxSvc.Sync(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditRecorder.Record(c.Request.Context(), actorName(c), "bank_transaction.sync", "bank_transaction", "", map[string]interface{}{
		"created": report.Created,
	})

	c.JSON(http.StatusOK, gin.H{"data": report})
}
