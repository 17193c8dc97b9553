package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/internal/bankconnection/repository"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.BankConnection{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:    conn,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.NewSystem(),
		repo:  repository.Provide(),
	}
}

func TestCredentialsNeverSerialize(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(context.Background(), domain.CreateBankConnectionRequest{
		BankName:      "ICICI",
		AccountNumber: "000405001234",
		APIKey:        "key-123",
		Token:         "tok-456",
		SecretKey:     "sec-789",
	})
	require.NoError(t, err)

	body, err := json.Marshal(created)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "key-123")
	assert.NotContains(t, string(body), "tok-456")
	assert.NotContains(t, string(body), "sec-789")
	assert.Contains(t, string(body), "ICICI")

	// Stored values are intact even though they never render.
	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "key-123", got.APIKey)
}

func TestCreateValidation(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), domain.CreateBankConnectionRequest{AccountNumber: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidBankName)

	_, err = svc.Create(context.Background(), domain.CreateBankConnectionRequest{BankName: "ICICI"})
	assert.ErrorIs(t, err, domain.ErrInvalidAccountNumber)
}

func TestUpdatePatchesCredentialsWithoutClearing(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(context.Background(), domain.CreateBankConnectionRequest{
		BankName:      "IDFC",
		AccountNumber: "10042237",
		APIKey:        "orig-key",
	})
	require.NoError(t, err)

	inactive := false
	newToken := "rotated"
	got, err := svc.Update(context.Background(), created.ID, domain.UpdateBankConnectionRequest{
		Token:    &newToken,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "rotated", got.Token)
	assert.Equal(t, "orig-key", got.APIKey)
	assert.False(t, got.IsActive)
}

func TestDeleteMissing(t *testing.T) {
	svc := setupService(t)
	err := svc.Delete(context.Background(), snowflake.ID(42))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
