package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Scanner-specific error codes
const (
	// Blockchain/RPC errors
	CodeChainConnectionFailed Code = "CHAIN_CONNECTION_FAILED"
	CodeChainRPCError         Code = "CHAIN_RPC_ERROR"
	CodeUnknownChain          Code = "UNKNOWN_CHAIN"
	CodeGasEstimationFailed   Code = "GAS_ESTIMATION_FAILED"

	// DEX quoter errors
	CodeQuoteFailed        Code = "QUOTE_FAILED"
	CodePoolNotFound       Code = "POOL_NOT_FOUND"
	CodeInvalidQuote       Code = "INVALID_QUOTE"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodeTokenNotListed     Code = "TOKEN_NOT_LISTED"

	// Bridge errors
	CodeBridgeAPIError     Code = "BRIDGE_API_ERROR"
	CodeBridgeAmountTooLow Code = "BRIDGE_AMOUNT_TOO_LOW"
	CodeBridgeRouteMissing Code = "BRIDGE_ROUTE_MISSING"

	// Price feed errors
	CodeFeedUnavailable Code = "FEED_UNAVAILABLE"
	CodeFeedRateLimited Code = "FEED_RATE_LIMITED"

	// Opportunity evaluation errors
	CodePriceCalculationFailed Code = "PRICE_CALCULATION_FAILED"
	CodeBelowThreshold         Code = "BELOW_THRESHOLD"
	CodeAdvisorRejected        Code = "ADVISOR_REJECTED"
	CodeAdvisorUnavailable     Code = "ADVISOR_UNAVAILABLE"

	// Execution errors
	CodeExecutionFailed     Code = "EXECUTION_FAILED"
	CodeApprovalFailed      Code = "APPROVAL_FAILED"
	CodeDepositFailed       Code = "DEPOSIT_FAILED"
	CodeAlreadyExecuting    Code = "ALREADY_EXECUTING"
	CodeOpportunityGone     Code = "OPPORTUNITY_GONE"
	CodeWalletNotConfigured Code = "WALLET_NOT_CONFIGURED"

	// History store errors
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeStoreQueryFailed Code = "STORE_QUERY_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
