package app

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
)

// DisabledExecutor is registered when no execution wallet is
// configured. Quoting still works; execution attempts fail cleanly.
type DisabledExecutor struct{}

var _ Executor = DisabledExecutor{}

// Bridge always fails with a wallet-not-configured error.
func (DisabledExecutor) Bridge(_ context.Context, _ ExecutionRequest, _ domain.ProgressFunc) (*domain.Receipt, error) {
	return nil, apperror.New(apperror.CodeWalletNotConfigured)
}
