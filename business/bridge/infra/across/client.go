// Package across implements the bridge ports against the Across protocol.
package across

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/bridge/app"
	"github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/httpclient"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/ratelimit"
)

const (
	tracerName = "across"
	meterName  = "across"

	defaultAPIBaseURL = "https://across.to/api"
	defaultTimeout    = 10 * time.Second

	// The fee API tolerates roughly two requests per second.
	defaultRequestsPerSecond = 2
)

// Ensure Client implements QuoteClient.
var _ app.QuoteClient = (*Client)(nil)

// ClientConfig holds configuration for the Across fee client.
type ClientConfig struct {
	APIBaseURL string
	Timeout    time.Duration
	RateLimit  float64 // requests per second
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIBaseURL: defaultAPIBaseURL,
		Timeout:    defaultTimeout,
		RateLimit:  defaultRequestsPerSecond,
	}
}

type clientMetrics struct {
	quotesTotal  metric.Int64Counter
	amountTooLow metric.Int64Counter
}

// Client fetches bridge fee quotes from the Across suggested-fees API.
type Client struct {
	config  ClientConfig
	http    httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a new Across fee client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRequestsPerSecond
	}

	tracer := otel.Tracer(tracerName)

	httpClient, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("across"),
		httpclient.WithBaseURL(cfg.APIBaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	c := &Client{
		config:  cfg,
		http:    httpClient,
		limiter: ratelimit.NewWithBurst(cfg.RateLimit, 1),
		logger:  log,
		tracer:  tracer,
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.quotesTotal, err = meter.Int64Counter(
		"bridge_quotes_total",
		metric.WithDescription("Total bridge fee quote requests"),
	)
	if err != nil {
		return err
	}

	c.metrics.amountTooLow, err = meter.Int64Counter(
		"bridge_amount_too_low_total",
		metric.WithDescription("Quotes rejected for being below the bridge minimum"),
	)
	if err != nil {
		return err
	}

	return nil
}

// feeComponent is one fee entry in the suggested-fees payload.
type feeComponent struct {
	Total string `json:"total"`
	Pct   string `json:"pct"`
}

// suggestedFeesResponse mirrors the fields we consume.
type suggestedFeesResponse struct {
	RelayerFee           feeComponent `json:"relayerFee"`
	LPFee                feeComponent `json:"lpFee"`
	IsAmountTooLow       bool         `json:"isAmountTooLow"`
	EstimatedFillTimeSec int          `json:"estimatedFillTimeSec"`
	Timestamp            string       `json:"timestamp"`
	SpokePoolAddress     string       `json:"spokePoolAddress"`
	ExclusiveRelayer     string       `json:"exclusiveRelayer"`
	ExclusivityDeadline  string       `json:"exclusivityDeadline"`
}

// SuggestedFees fetches a fee quote for bridging req.Amount of the
// token from the origin to the destination chain.
func (c *Client) SuggestedFees(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "across.suggested_fees",
		trace.WithAttributes(
			attribute.Int64("origin_chain_id", int64(req.OriginChainID)),
			attribute.Int64("destination_chain_id", int64(req.DestinationChainID)),
			attribute.String("token", req.Token.Hex()),
			attribute.String("amount", req.Amount.Raw().String()),
		),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.metrics.quotesTotal.Add(ctx, 1)

	var result suggestedFeesResponse
	resp, err := c.http.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "suggested_fees")),
	).
		SetQueryParam("token", req.Token.Hex()).
		SetQueryParam("originChainId", strconv.FormatUint(req.OriginChainID, 10)).
		SetQueryParam("destinationChainId", strconv.FormatUint(req.DestinationChainID, 10)).
		SetQueryParam("amount", req.Amount.Raw().String()).
		SetQueryParam("recipient", req.Recipient.Hex()).
		SetResult(&result).
		Get(ctx, "/suggested-fees")
	if err != nil {
		span.RecordError(err)
		return nil, apperror.New(apperror.CodeBridgeAPIError,
			apperror.WithCause(err),
			apperror.WithContext("suggested-fees request failed"))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeBridgeAPIError,
			apperror.WithContext(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.String())))
	}

	token := req.Amount.Asset()

	if result.IsAmountTooLow {
		c.metrics.amountTooLow.Add(ctx, 1)
		span.AddEvent("amount_too_low")
		return &domain.Quote{
			OriginChainID:      req.OriginChainID,
			DestinationChainID: req.DestinationChainID,
			Token:              token,
			InputAmount:        req.Amount,
			IsAmountTooLow:     true,
			Timestamp:          time.Now(),
		}, nil
	}

	relayerFee, err := parseRawAmount(token, result.RelayerFee.Total)
	if err != nil {
		return nil, apperror.New(apperror.CodeBridgeAPIError,
			apperror.WithCause(err),
			apperror.WithContext("invalid relayer fee"))
	}
	lpFee, err := parseRawAmount(token, result.LPFee.Total)
	if err != nil {
		return nil, apperror.New(apperror.CodeBridgeAPIError,
			apperror.WithCause(err),
			apperror.WithContext("invalid lp fee"))
	}

	totalFee := relayerFee.MustAdd(lpFee)
	netAmount := req.Amount.MustSub(totalFee)

	fillTime := time.Duration(result.EstimatedFillTimeSec) * time.Second
	if fillTime <= 0 {
		fillTime = time.Minute
	}

	quote := &domain.Quote{
		OriginChainID:       req.OriginChainID,
		DestinationChainID:  req.DestinationChainID,
		Token:               token,
		InputAmount:         req.Amount,
		RelayerFee:          relayerFee,
		LPFee:               lpFee,
		TotalFee:            totalFee,
		NetAmount:           netAmount,
		EstimatedFillTime:   fillTime,
		SpokePool:           common.HexToAddress(result.SpokePoolAddress),
		ExclusiveRelayer:    common.HexToAddress(result.ExclusiveRelayer),
		QuoteTimestamp:      parseUint32(result.Timestamp),
		ExclusivityDeadline: parseUint32(result.ExclusivityDeadline),
		Timestamp:           time.Now(),
	}

	span.SetAttributes(
		attribute.String("total_fee", totalFee.String()),
		attribute.Int("fill_time_sec", result.EstimatedFillTimeSec),
	)

	c.logger.Debug(ctx, "bridge quote",
		"origin", req.OriginChainID,
		"destination", req.DestinationChainID,
		"token", token.Symbol(),
		"total_fee", totalFee.String(),
	)

	return quote, nil
}

// depositStatusResponse mirrors the deposit/status payload.
type depositStatusResponse struct {
	Status string `json:"status"`
}

// DepositFilled reports whether the deposit has been filled on the
// destination chain.
func (c *Client) DepositFilled(ctx context.Context, originChainID uint64, depositTx common.Hash) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	var result depositStatusResponse
	resp, err := c.http.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "deposit_status")),
	).
		SetQueryParam("originChainId", strconv.FormatUint(originChainID, 10)).
		SetQueryParam("depositTxHash", depositTx.Hex()).
		SetResult(&result).
		Get(ctx, "/deposit/status")
	if err != nil {
		return false, apperror.New(apperror.CodeBridgeAPIError, apperror.WithCause(err))
	}
	if resp.IsError() {
		return false, apperror.New(apperror.CodeBridgeAPIError,
			apperror.WithContext(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.String())))
	}

	return result.Status == "filled", nil
}

func parseRawAmount(token *asset.Asset, raw string) (asset.Amount, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return asset.Amount{}, fmt.Errorf("not a base-unit integer: %q", raw)
	}
	return asset.NewAmount(token, v), nil
}

func parseUint32(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
