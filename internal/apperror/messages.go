package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Blockchain/RPC errors
	CodeChainConnectionFailed: "Failed to connect to chain RPC node",
	CodeChainRPCError:         "Chain RPC call failed",
	CodeUnknownChain:          "Chain is not configured",
	CodeGasEstimationFailed:   "Gas estimation failed",

	// DEX quoter errors
	CodeQuoteFailed:        "Failed to get DEX quote",
	CodePoolNotFound:       "No pool found for pair",
	CodeInvalidQuote:       "Invalid quote data",
	CodeContractCallFailed: "Smart contract call failed",
	CodeTokenNotListed:     "Token is not listed on this chain",

	// Bridge errors
	CodeBridgeAPIError:     "Bridge fee API error",
	CodeBridgeAmountTooLow: "Amount is below the bridge minimum",
	CodeBridgeRouteMissing: "Bridge route is not supported",

	// Price feed errors
	CodeFeedUnavailable: "Price feed unavailable",
	CodeFeedRateLimited: "Price feed rate limit exceeded",

	// Opportunity evaluation errors
	CodePriceCalculationFailed: "Price calculation failed",
	CodeBelowThreshold:         "Opportunity is below the profitability threshold",
	CodeAdvisorRejected:        "Advisor rejected the opportunity",
	CodeAdvisorUnavailable:     "Advisor is unavailable",

	// Execution errors
	CodeExecutionFailed:     "Opportunity execution failed",
	CodeApprovalFailed:      "Token approval transaction failed",
	CodeDepositFailed:       "Bridge deposit transaction failed",
	CodeAlreadyExecuting:    "Opportunity is already being executed",
	CodeOpportunityGone:     "Opportunity no longer exists",
	CodeWalletNotConfigured: "No execution wallet configured",

	// History store errors
	CodeStoreUnavailable: "History store unavailable",
	CodeStoreQueryFailed: "History store query failed",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
