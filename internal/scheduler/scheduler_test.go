package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBankTxService struct {
	syncs atomic.Int32
	err   error
}

func (s *stubBankTxService) Sync(context.Context) (banktxdomain.SyncReport, error) {
	s.syncs.Add(1)
	return banktxdomain.SyncReport{Created: 1}, s.err
}

func (s *stubBankTxService) Create(context.Context, banktxdomain.CreateBankTransactionRequest) (banktxdomain.BankTransactionView, error) {
	return banktxdomain.BankTransactionView{}, nil
}
func (s *stubBankTxService) GetByID(context.Context, snowflake.ID) (banktxdomain.BankTransactionView, error) {
	return banktxdomain.BankTransactionView{}, nil
}
func (s *stubBankTxService) List(context.Context, banktxdomain.ListBankTransactionFilter, pagination.Pagination) (banktxdomain.ListBankTransactionResponse, error) {
	return banktxdomain.ListBankTransactionResponse{}, nil
}
func (s *stubBankTxService) Delete(context.Context, snowflake.ID) error { return nil }
func (s *stubBankTxService) Import(context.Context, banktxdomain.ImportRequest) (banktxdomain.ImportReport, error) {
	return banktxdomain.ImportReport{}, nil
}

func TestSchedulerTicksAndStops(t *testing.T) {
	stub := &stubBankTxService{}
	s := &Scheduler{
		log:      zap.NewNop(),
		bankTxs:  stub,
		interval: 10 * time.Millisecond,
		enabled:  true,
	}

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return stub.syncs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := stub.syncs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, stub.syncs.Load())
}

func TestSchedulerDisabled(t *testing.T) {
	stub := &stubBankTxService{}
	s := &Scheduler{log: zap.NewNop(), bankTxs: stub, enabled: false}

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.EqualValues(t, 0, stub.syncs.Load())
}

func TestSchedulerToleratesNoActiveConnections(t *testing.T) {
	stub := &stubBankTxService{err: banktxdomain.ErrNoActiveConnection}
	s := &Scheduler{log: zap.NewNop(), bankTxs: stub, interval: 5 * time.Millisecond, enabled: true}

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return stub.syncs.Load() >= 1 }, time.Second, 2*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}
