// Package gemini implements the advisory gate over the Gemini
// generateContent REST API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/arbitrage/app"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/httpclient"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

const (
	tracerName = "gemini"
	meterName  = "gemini"

	defaultAPIURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 15 * time.Second

	// executeVerdict is the only answer that lets an opportunity pass.
	executeVerdict = "EXECUTE"
)

// Ensure Advisor implements the port.
var _ app.Advisor = (*Advisor)(nil)

// AdvisorConfig holds Gemini client settings.
type AdvisorConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type advisorMetrics struct {
	verdictsTotal metric.Int64Counter
	routesTotal   metric.Int64Counter
}

// Advisor asks the model for a one-word verdict on an opportunity and
// for triangular route suggestions. Any failure degrades to a deny or
// to no suggestions; the scan never stops because the model is down.
type Advisor struct {
	config AdvisorConfig
	client httpclient.Client
	logger logger.LoggerInterface

	tracer  trace.Tracer
	metrics *advisorMetrics
}

// NewAdvisor creates a Gemini-backed advisor.
func NewAdvisor(cfg AdvisorConfig, log logger.LoggerInterface) (*Advisor, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("gemini"),
		httpclient.WithBaseURL(cfg.APIURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Content-Type": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	a := &Advisor{
		config: cfg,
		client: client,
		logger: log,
		tracer: tracer,
	}

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return a, nil
}

func (a *Advisor) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &advisorMetrics{}

	a.metrics.verdictsTotal, err = meter.Int64Counter(
		"advisor_verdicts_total",
		metric.WithDescription("Advisory verdicts by outcome"),
	)
	if err != nil {
		return err
	}

	a.metrics.routesTotal, err = meter.Int64Counter(
		"advisor_route_suggestions_total",
		metric.WithDescription("Triangular routes suggested by the advisor"),
	)
	if err != nil {
		return err
	}

	return nil
}

// generateContent request and response payloads.
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func newGenerateRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
}

// Approve asks for a verdict on the opportunity. Only a response whose
// trimmed, uppercased text equals EXECUTE passes.
func (a *Advisor) Approve(ctx context.Context, opp *domain.Opportunity) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "gemini.approve",
		trace.WithAttributes(attribute.String("opportunity_id", opp.ID)),
	)
	defer span.End()

	text, err := a.generate(ctx, approvalPrompt(opp))
	if err != nil {
		a.metrics.verdictsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return false, err
	}

	verdict := strings.ToUpper(strings.TrimSpace(text))
	approved := verdict == executeVerdict

	outcome := "deny"
	if approved {
		outcome = "approve"
	}
	a.metrics.verdictsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	a.logger.Debug(ctx, "advisor verdict", "opportunity", opp.ID, "verdict", verdict)

	return approved, nil
}

// SuggestRoutes asks for triangular routes as a JSON array. Anything
// the model returns that does not parse yields no suggestions.
func (a *Advisor) SuggestRoutes(ctx context.Context, chainID uint64) []app.TriangularRoute {
	ctx, span := a.tracer.Start(ctx, "gemini.suggest_routes",
		trace.WithAttributes(attribute.Int64("chain_id", int64(chainID))),
	)
	defer span.End()

	text, err := a.generate(ctx, routePrompt(chainID))
	if err != nil {
		a.logger.Debug(ctx, "route suggestion failed", "chain", chainID, "error", err)
		return nil
	}

	routes := parseRoutes(text)
	a.metrics.routesTotal.Add(ctx, int64(len(routes)))
	return routes
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	var result generateResponse
	resp, err := a.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "generate_content")),
	).
		SetQueryParam("key", a.config.APIKey).
		SetBody(newGenerateRequest(prompt)).
		SetResult(&result).
		Post(ctx, fmt.Sprintf("/models/%s:generateContent", a.config.Model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.String())
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func approvalPrompt(opp *domain.Opportunity) string {
	return fmt.Sprintf(
		"You are a conservative arbitrage execution gate. Opportunity: token %s, "+
			"buy on %s at %s, sell on %s at %s, spread %s%%, estimated net profit $%s "+
			"after $%s costs, risk %s. Respond with exactly one word: EXECUTE if this "+
			"should be executed, otherwise SKIP.",
		opp.Token,
		opp.BuyVenue, opp.BuyPrice.StringFixed(6),
		opp.SellVenue, opp.SellPrice.StringFixed(6),
		opp.SpreadPercent.StringFixed(4),
		opp.Profit.Net().StringFixed(2),
		opp.Profit.Costs().StringFixed(2),
		opp.Risk,
	)
}

func routePrompt(chainID uint64) string {
	return fmt.Sprintf(
		"Suggest up to 3 triangular arbitrage routes on %s using tokens WETH, USDC, "+
			"USDT, DAI, WBTC. Respond with only a JSON array, no prose, of objects "+
			`like {"tokens":["WETH","USDC","DAI","WETH"],"venues":["uniswap","uniswap","uniswap"]}.`,
		asset.ChainName(chainID),
	)
}

// suggestedRoute mirrors the JSON shape the route prompt requests.
type suggestedRoute struct {
	Tokens []string `json:"tokens"`
	Venues []string `json:"venues"`
}

// parseRoutes strips markdown code fences the model tends to add and
// decodes the array. A malformed payload yields nil.
func parseRoutes(text string) []app.TriangularRoute {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw []suggestedRoute
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil
	}

	routes := make([]app.TriangularRoute, 0, len(raw))
	for _, r := range raw {
		if len(r.Tokens) != 4 || len(r.Venues) != 3 || r.Tokens[0] != r.Tokens[3] {
			continue
		}
		routes = append(routes, app.TriangularRoute{Tokens: r.Tokens, Venues: r.Venues})
	}
	return routes
}
