// Package scheduler runs the periodic bank-feed sync when it is enabled.
package scheduler

import (
	"context"
	"errors"
	"time"

	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	BankTxs banktxdomain.Service
}

type Scheduler struct {
	log      *zap.Logger
	bankTxs  banktxdomain.Service
	interval time.Duration
	enabled  bool

	cancel context.CancelFunc
	done   chan struct{}
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		bankTxs:  p.BankTxs,
		interval: p.Config.BankSyncEvery(),
		enabled:  p.Config.BankSyncEnabled,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if !s.enabled {
		s.log.Info("bank sync disabled")
		return nil
	}
	if s.interval <= 0 {
		s.interval = time.Hour
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx)
	s.log.Info("bank sync scheduled", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *Scheduler) syncOnce(ctx context.Context) {
	report, err := s.bankTxs.Sync(ctx)
	if err != nil {
		if errors.Is(err, banktxdomain.ErrNoActiveConnection) {
			s.log.Debug("bank sync skipped, no active connections")
			return
		}
		s.log.Error("bank sync failed", zap.Error(err))
		return
	}
	s.log.Info("bank sync complete", zap.Int("created", report.Created))
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{OnStart: s.Start, OnStop: s.Stop})
	}),
)
