package bankaccount

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/escore/escore"
)

// Service orchestrates command handling end-to-end using the generic
// escore.Execute loop, logging each command's outcome.
type Service struct {
	store  escore.EventStore
	repo   *Repository
	svc    Services
	logger *zap.Logger
}

// NewService wires a store, an optional FraudChecker, and a logger
// together. A nil logger falls back to zap.NewNop().
func NewService(store escore.EventStore, svc Services, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, repo: NewRepository(store), svc: svc, logger: logger}
}

// Handle executes a command end-to-end: load-or-create, dispatch, append.
func (s *Service) Handle(ctx context.Context, streamID string, cmd any, md escore.Metadata) (*BankAccount, error) {
	start := time.Now()

	a, err := escore.Execute(
		ctx,
		s.store,
		Registry(),
		streamID,
		md,
		nil,
		func(id string) *BankAccount { return New(id) },
		func(a *BankAccount) error { return a.Handle(cmd, s.svc) },
	)

	fields := []zap.Field{
		zap.String("stream_id", streamID),
		zap.String("command", commandName(cmd)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("command failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	s.logger.Info("command handled", append(fields, zap.Int64("version", a.Version()))...)
	return a, nil
}

func commandName(cmd any) string {
	switch cmd.(type) {
	case OpenCommand:
		return "OpenCommand"
	case DepositCommand:
		return "DepositCommand"
	case WithdrawCommand:
		return "WithdrawCommand"
	default:
		return "unknown"
	}
}
