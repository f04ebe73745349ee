package constant

import (
	"time"
)

const ContextSystem = "system"

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleUser       = "user"
)

const (
	RequestParamPage       = "page"
	RequestParamSortBy     = "sort_by"
	RequestParamSortDir    = "sort_dir"
	RequestParamChargeable = "chargeable"
	RequestParamSearch     = "search"
	RequestParamStatus     = "status"
	RequestParamFrom       = "from"
	RequestParamTo         = "to"
	RequestParamPageSize   = "page_size"
)

const (
	RequestParamID      = "id"
	RequestParamGateway = "gateway"
)

const (
	StatusDoNotCharge = "Do Not Charge"
	StatusUnknown     = "Unknown"
	StatusActive      = "Active"
	StatusAll         = "All Status"
)

const (
	// ChargeableThreshold is the single chargeability cutoff: a balance must be
	// strictly greater than this to be charged.
	ChargeableThreshold = "0.49"
	DefaultCurrency     = "USD"
)

const (
	PaymentChannelDoNotCharge = "Do Not Charge"
	PaymentChannelManual      = "manual"

	TransactionTypeDoNotCharge = "do_not_charge"
	TransactionTypeManual      = "manual_payment"
	TransactionTypeCharge      = "charge"
)

const (
	ResponseStatusSuccess = "success"
	ResponseStatusError   = "error"
)

const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

var AllowedPageSizes = []int{10, 25, 50, 100}

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
	BookedOnFormat = "1/2/06"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderContentDisposition = "Content-Disposition"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const ServerEnvDevelopment = "development"

const (
	Asterix = "*"
	Empty   = ""
)
