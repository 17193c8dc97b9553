package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/audit"
	"github.com/finbooks/salesdesk/internal/auth"
	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	"github.com/finbooks/salesdesk/internal/bankconnection"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/internal/banktransaction"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/config"
	"github.com/finbooks/salesdesk/internal/costsheet"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	"github.com/finbooks/salesdesk/internal/invoice"
	invoicedomain "github.com/finbooks/salesdesk/internal/invoice/domain"
	"github.com/finbooks/salesdesk/internal/lead"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/internal/observability"
	obsmiddleware "github.com/finbooks/salesdesk/internal/observability/logger"
	obsmetrics "github.com/finbooks/salesdesk/internal/observability/metrics"
	obstracing "github.com/finbooks/salesdesk/internal/observability/tracing"
	"github.com/finbooks/salesdesk/internal/receipt"
	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/internal/reconciliation"
	recondomain "github.com/finbooks/salesdesk/internal/reconciliation/domain"
	"github.com/finbooks/salesdesk/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	auth.Module,
	storage.Module,
	lead.Module,
	costsheet.Module,
	invoice.Module,
	bankconnection.Module,
	banktransaction.Module,
	receipt.Module,
	reconciliation.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	authSvc       authdomain.Service
	auditRecorder *audit.Recorder
	leadSvc       leaddomain.Service
	costSheetSvc  costsheetdomain.Service
	invoiceSvc    invoicedomain.Service
	bankConnSvc   bankconndomain.Service
	bankTxSvc     banktxdomain.Service
	receiptSvc    receiptdomain.Service
	reconSvc      recondomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	AuthSvc       authdomain.Service
	AuditRecorder *audit.Recorder
	LeadSvc       leaddomain.Service
	CostSheetSvc  costsheetdomain.Service
	InvoiceSvc    invoicedomain.Service
	BankConnSvc   bankconndomain.Service
	BankTxSvc     banktxdomain.Service
	ReceiptSvc    receiptdomain.Service
	ReconSvc      recondomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		authSvc:       p.AuthSvc,
		auditRecorder: p.AuditRecorder,
		leadSvc:       p.LeadSvc,
		costSheetSvc:  p.CostSheetSvc,
		invoiceSvc:    p.InvoiceSvc,
		bankConnSvc:   p.BankConnSvc,
		bankTxSvc:     p.BankTxSvc,
		receiptSvc:    p.ReceiptSvc,
		reconSvc:      p.ReconSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)

	users := authGroup.Group("/users", s.AuthRequired())
	{
		users.GET("", s.ListUsers)
		users.POST("", s.AdminRequired(), s.CreateUser)
		users.DELETE("/:id", s.AdminRequired(), s.DeleteUser)
	}
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	leads := api.Group("/leads")
	{
		leads.POST("", s.CreateLead)
		leads.GET("", s.ListLeads)
		leads.GET("/:id", s.GetLead)
		leads.PATCH("/:id", s.UpdateLead)
		leads.DELETE("/:id", s.DeleteLead)
	}

	costSheets := api.Group("/cost-sheets")
	{
		costSheets.POST("", s.CreateCostSheet)
		costSheets.GET("", s.ListCostSheets)
		costSheets.GET("/export", s.ExportCostSheets)
		costSheets.GET("/:id", s.GetCostSheet)
		costSheets.PATCH("/:id", s.UpdateCostSheet)
		costSheets.DELETE("/:id", s.DeleteCostSheet)

		costSheets.POST("/:id/submit", s.SubmitCostSheet)
		costSheets.POST("/:id/approve", s.ApproveCostSheet)
		costSheets.POST("/:id/reject", s.RejectCostSheet)
		costSheets.POST("/:id/revert", s.RevertCostSheet)

		costSheets.POST("/:id/attachments", s.AddCostSheetAttachment)
		costSheets.DELETE("/:id/attachments/:attachmentId", s.DeleteCostSheetAttachment)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", s.CreateInvoice)
		invoices.GET("", s.ListInvoices)
		invoices.GET("/:id", s.GetInvoice)
		invoices.PATCH("/:id", s.UpdateInvoice)
		invoices.DELETE("/:id", s.DeleteInvoice)
	}

	bankConnections := api.Group("/bank-connections")
	{
		bankConnections.POST("", s.CreateBankConnection)
		bankConnections.GET("", s.ListBankConnections)
		bankConnections.GET("/:id", s.GetBankConnection)
		bankConnections.PATCH("/:id", s.UpdateBankConnection)
		bankConnections.DELETE("/:id", s.DeleteBankConnection)
	}

	bankTransactions := api.Group("/bank-transactions")
	{
		bankTransactions.POST("", s.CreateBankTransaction)
		bankTransactions.GET("", s.ListBankTransactions)
		bankTransactions.GET("/:id", s.GetBankTransaction)
		bankTransactions.DELETE("/:id", s.DeleteBankTransaction)

		bankTransactions.POST("/upload", s.UploadStatement)
		bankTransactions.POST("/sync", s.SyncBankTransactions)

		bankTransactions.POST("/:id/match", s.MatchTransaction)
		bankTransactions.POST("/:id/exclude", s.ExcludeTransaction)
		bankTransactions.POST("/:id/undo-exclude", s.UndoExcludeTransaction)
	}

	receipts := api.Group("/receipt-vouchers")
	{
		receipts.POST("", s.CreateReceiptVoucher)
		receipts.GET("", s.ListReceiptVouchers)
		receipts.GET("/:id", s.GetReceiptVoucher)
		receipts.DELETE("/:id", s.DeleteReceiptVoucher)

		receipts.POST("/:id/attachments", s.AddReceiptAttachment)
		receipts.DELETE("/:id/attachments/:attachmentId", s.DeleteReceiptAttachment)
	}

	api.GET("/audit-logs", s.AdminRequired(), s.ListAuditLogs)
}
