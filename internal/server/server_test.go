package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/audit"
	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	authrepo "github.com/finbooks/salesdesk/internal/auth/repository"
	authservice "github.com/finbooks/salesdesk/internal/auth/service"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	bankconnrepo "github.com/finbooks/salesdesk/internal/bankconnection/repository"
	bankconnservice "github.com/finbooks/salesdesk/internal/bankconnection/service"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/config"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	costsheetrepo "github.com/finbooks/salesdesk/internal/costsheet/repository"
	costsheetservice "github.com/finbooks/salesdesk/internal/costsheet/service"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	leadrepo "github.com/finbooks/salesdesk/internal/lead/repository"
	"github.com/finbooks/salesdesk/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupServer wires a Server against in-memory sqlite with a logged-in
// app_user session, for exercising route-level access rules.
func setupServer(t *testing.T) (*Server, string, *gorm.DB, *snowflake.Node) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&leaddomain.Lead{},
		&costsheetdomain.CostSheet{},
		&costsheetdomain.LicenseItem{},
		&costsheetdomain.ServiceImplementationItem{},
		&costsheetdomain.ServiceSupportItem{},
		&costsheetdomain.InfrastructureItem{},
		&costsheetdomain.OtherItem{},
		&costsheetdomain.Attachment{},
		&bankconndomain.BankConnection{},
		&authdomain.User{},
		&authdomain.Group{},
		&authdomain.Session{},
		&audit.Entry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewSystem()
	cfg := config.Config{SessionTTLHours: 1}

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	authSvc := authservice.New(authservice.Params{
		Config: cfg,
		DB:     conn,
		Log:    log,
		GenID:  node,
		Clock:  clk,
		Repo:   authrepo.Provide(),
	})
	costSheetSvc := costsheetservice.New(costsheetservice.Params{
		DB:       conn,
		Log:      log,
		GenID:    node,
		Clock:    clk,
		Repo:     costsheetrepo.Provide(),
		LeadRepo: leadrepo.Provide(),
		Store:    store,
	})
	bankConnSvc := bankconnservice.New(bankconnservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  bankconnrepo.Provide(),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:           engine,
		Cfg:           cfg,
		DB:            conn,
		GenID:         node,
		AuthSvc:       authSvc,
		AuditRecorder: audit.NewRecorder(audit.Params{DB: conn, Log: log, GenID: node}),
		CostSheetSvc:  costSheetSvc,
		BankConnSvc:   bankConnSvc,
	})

	_, err = authSvc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Username: "analyst",
		Email:    "analyst@example.com",
		Password: "analyst-pass",
	})
	require.NoError(t, err)
	login, err := authSvc.Login(context.Background(), authdomain.LoginRequest{
		Username: "analyst",
		Password: "analyst-pass",
	})
	require.NoError(t, err)
	require.Equal(t, authdomain.RoleAppUser, login.User.Role)

	return srv, login.Token, conn, node
}

func doJSON(t *testing.T, srv *Server, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestApprovalOpenToAuthenticatedUsers(t *testing.T) {
	srv, token, conn, node := setupServer(t)

	lead := &leaddomain.Lead{ID: node.Generate(), LeadNo: "LD-300", CustomerName: "Acme Corp"}
	require.NoError(t, conn.Create(lead).Error)

	view, err := srv.costSheetSvc.Create(context.Background(), costsheetdomain.CreateCostSheetRequest{
		CostSheetNo: "CS-300",
		LeadID:      lead.ID,
	})
	require.NoError(t, err)
	_, err = srv.costSheetSvc.Submit(context.Background(), view.ID)
	require.NoError(t, err)

	w := doJSON(t, srv, token, http.MethodPost, "/api/v1/cost-sheets/"+view.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "APPROVED")
}

func TestBankConnectionsOpenToAuthenticatedUsers(t *testing.T) {
	srv, token, _, _ := setupServer(t)

	w := doJSON(t, srv, token, http.MethodPost, "/api/v1/bank-connections",
		`{"bank_name":"HDFC Bank","account_number":"50100123456","api_key":"key-123"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "HDFC Bank")
	// Credentials stay write-only.
	assert.NotContains(t, w.Body.String(), "key-123")
}

func TestUserManagementStillAdminOnly(t *testing.T) {
	srv, token, _, _ := setupServer(t)

	w := doJSON(t, srv, token, http.MethodPost, "/auth/users",
		`{"username":"intruder","email":"i@example.com","password":"longenough1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}
