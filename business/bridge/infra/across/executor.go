package across

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/bridge/app"
	"github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

const (
	// fillDeadlineWindow bounds how long relayers may take to fill.
	fillDeadlineWindow = 5 * time.Hour

	fillPollInterval = 5 * time.Second
)

// Ensure Executor implements the port.
var _ app.Executor = (*Executor)(nil)

// Executor runs the approve + depositV3 sequence on the origin chain
// and waits for the destination fill.
type Executor struct {
	key     *ecdsa.PrivateKey
	sender  common.Address
	clients map[uint64]*ethclient.Client

	erc20ABI abi.ABI
	spokeABI abi.ABI

	statusClient *Client
	logger       logger.LoggerInterface
	tracer       trace.Tracer
}

// NewExecutor creates a bridge executor signing with the given hex key.
func NewExecutor(privateKeyHex string, clients map[uint64]*ethclient.Client, statusClient *Client, log logger.LoggerInterface) (*Executor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, apperror.New(apperror.CodeWalletNotConfigured,
			apperror.WithCause(err),
			apperror.WithContext("invalid private key"))
	}

	erc20ABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}
	spokeABI, err := abi.JSON(strings.NewReader(SpokePoolABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spoke pool ABI: %w", err)
	}

	return &Executor{
		key:          key,
		sender:       crypto.PubkeyToAddress(key.PublicKey),
		clients:      clients,
		erc20ABI:     erc20ABI,
		spokeABI:     spokeABI,
		statusClient: statusClient,
		logger:       log,
		tracer:       otel.Tracer(tracerName),
	}, nil
}

// Sender returns the executing wallet address.
func (e *Executor) Sender() common.Address {
	return e.sender
}

// Bridge executes the transfer described by the quote: approve the
// spoke pool if needed, submit depositV3, then wait for the fill.
func (e *Executor) Bridge(ctx context.Context, req app.ExecutionRequest, onProgress domain.ProgressFunc) (*domain.Receipt, error) {
	quote := req.Quote
	if !quote.Usable() {
		return nil, apperror.New(apperror.CodeBridgeAmountTooLow)
	}

	ctx, span := e.tracer.Start(ctx, "across.bridge",
		trace.WithAttributes(
			attribute.Int64("origin_chain_id", int64(quote.OriginChainID)),
			attribute.Int64("destination_chain_id", int64(quote.DestinationChainID)),
			attribute.String("token", quote.Token.Symbol()),
		),
	)
	defer span.End()

	client, ok := e.clients[quote.OriginChainID]
	if !ok {
		return nil, apperror.New(apperror.CodeUnknownChain,
			apperror.WithContext(fmt.Sprintf("no client for chain %d", quote.OriginChainID)))
	}

	notify := func(p domain.Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	receipt := &domain.Receipt{}
	tokenAddr := quote.Token.Address()

	// Stage 1: approve, skipped when the allowance already covers the amount.
	allowance, err := e.allowance(ctx, client, tokenAddr, quote.SpokePool)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(quote.InputAmount.Raw()) < 0 {
		notify(domain.Progress{Stage: domain.StageApprove, Status: domain.StatusPending})

		callData, err := e.erc20ABI.Pack("approve", quote.SpokePool, quote.InputAmount.Raw())
		if err != nil {
			return nil, fmt.Errorf("failed to encode approve: %w", err)
		}

		tx, err := e.sendTransaction(ctx, client, quote.OriginChainID, tokenAddr, nil, callData)
		if err != nil {
			notify(domain.Progress{Stage: domain.StageApprove, Status: domain.StatusError, Err: err})
			return nil, apperror.New(apperror.CodeApprovalFailed, apperror.WithCause(err))
		}
		if _, err := bind.WaitMined(ctx, client, tx); err != nil {
			notify(domain.Progress{Stage: domain.StageApprove, Status: domain.StatusError, Err: err})
			return nil, apperror.New(apperror.CodeApprovalFailed, apperror.WithCause(err))
		}

		receipt.ApproveTx = tx.Hash()
		notify(domain.Progress{Stage: domain.StageApprove, Status: domain.StatusSuccess, TxHash: tx.Hash()})
	}

	// Stage 2: depositV3 on the spoke pool.
	notify(domain.Progress{Stage: domain.StageDeposit, Status: domain.StatusPending})

	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = e.sender
	}

	fillDeadline := uint32(time.Now().Add(fillDeadlineWindow).Unix())
	callData, err := e.spokeABI.Pack("depositV3",
		e.sender,
		recipient,
		tokenAddr,
		tokenAddr, // same token on the destination chain
		quote.InputAmount.Raw(),
		quote.NetAmount.Raw(),
		new(big.Int).SetUint64(quote.DestinationChainID),
		quote.ExclusiveRelayer,
		quote.QuoteTimestamp,
		fillDeadline,
		quote.ExclusivityDeadline,
		[]byte{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode depositV3: %w", err)
	}

	tx, err := e.sendTransaction(ctx, client, quote.OriginChainID, quote.SpokePool, nil, callData)
	if err != nil {
		notify(domain.Progress{Stage: domain.StageDeposit, Status: domain.StatusError, Err: err})
		return nil, apperror.New(apperror.CodeDepositFailed, apperror.WithCause(err))
	}
	if _, err := bind.WaitMined(ctx, client, tx); err != nil {
		notify(domain.Progress{Stage: domain.StageDeposit, Status: domain.StatusError, Err: err})
		return nil, apperror.New(apperror.CodeDepositFailed, apperror.WithCause(err))
	}

	receipt.DepositTx = tx.Hash()
	receipt.DepositedAt = time.Now()
	notify(domain.Progress{Stage: domain.StageDeposit, Status: domain.StatusSuccess, TxHash: tx.Hash()})

	e.logger.Info(ctx, "bridge deposit confirmed",
		"tx", tx.Hash().Hex(),
		"origin", quote.OriginChainID,
		"destination", quote.DestinationChainID,
	)

	// Stage 3: wait for the destination fill.
	notify(domain.Progress{Stage: domain.StageFill, Status: domain.StatusPending})

	filled, err := e.waitForFill(ctx, quote, tx.Hash())
	if err != nil {
		notify(domain.Progress{Stage: domain.StageFill, Status: domain.StatusError, Err: err})
		span.SetStatus(codes.Error, "fill wait failed")
		return receipt, err
	}

	receipt.Filled = filled
	if filled {
		receipt.FilledAt = time.Now()
		notify(domain.Progress{Stage: domain.StageFill, Status: domain.StatusSuccess, TxHash: tx.Hash()})
	}

	span.SetStatus(codes.Ok, "bridged")
	return receipt, nil
}

// allowance reads the current spoke pool allowance of the sender.
func (e *Executor) allowance(ctx context.Context, client *ethclient.Client, token, spender common.Address) (*big.Int, error) {
	callData, err := e.erc20ABI.Pack("allowance", e.sender, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to encode allowance: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: callData}, nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed, apperror.WithCause(err))
	}

	outputs, err := e.erc20ABI.Unpack("allowance", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode allowance: %w", err)
	}
	return outputs[0].(*big.Int), nil
}

// sendTransaction signs and broadcasts a legacy transaction.
func (e *Executor) sendTransaction(ctx context.Context, client *ethclient.Client, chainID uint64, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	nonce, err := client.PendingNonceAt(ctx, e.sender)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  e.sender,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gasLimit += gasLimit / 10 // headroom for state drift between estimate and inclusion

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(chainID))
	signedTx, err := types.SignTx(tx, signer, e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send tx: %w", err)
	}

	return signedTx, nil
}

// waitForFill polls the deposit status until the relayer fill lands or
// the window (4x the quoted fill time, at least 2 minutes) elapses.
// Returns false without error on timeout: the deposit is still valid
// and will fill eventually or expire at the fill deadline.
func (e *Executor) waitForFill(ctx context.Context, quote *domain.Quote, depositTx common.Hash) (bool, error) {
	window := 4 * quote.EstimatedFillTime
	if window < 2*time.Minute {
		window = 2 * time.Minute
	}

	deadline := time.NewTimer(window)
	defer deadline.Stop()
	ticker := time.NewTicker(fillPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			e.logger.Warn(ctx, "fill not observed within window",
				"deposit_tx", depositTx.Hex(), "window", window.String())
			return false, nil
		case <-ticker.C:
			filled, err := e.statusClient.DepositFilled(ctx, quote.OriginChainID, depositTx)
			if err != nil {
				e.logger.Debug(ctx, "fill status check failed", "error", err)
				continue
			}
			if filled {
				return true, nil
			}
		}
	}
}
