package dashboard

import (
	"context"
	"errors"
	"net/http"
)

const (
	MessageGeneric          = "Something went wrong. Please try again."
	MessageNetwork          = "The server could not be reached. Please try again."
	MessageContactSupport   = "This payment needs additional verification. Please contact support."
	MessageCardIncomplete   = "Card number, expiration date and CVV are required"
	MessageExpiryMalformed  = "Expiration date must be in MM/YY format"
	MessageReferenceMissing = "Reference number is required"
	MessagePortalMissing    = "No partner portal link is available for this reservation"
	MessageAmountInvalid    = "Amount must be greater than zero"
	MessageExpediaMissing   = "Expedia reservation id is required"
)

var (
	ErrNotOpen              = errors.New("no reservation is open")
	ErrBusy                 = errors.New("an action is already being submitted")
	ErrNoMethod             = errors.New("no payment method selected")
	ErrConfirmationRequired = errors.New("do not charge must be confirmed first")
	ErrNotConfirmable       = errors.New("only do not charge has a confirmation step")
	ErrNotAuthenticated     = errors.New("login required")
	ErrUnknownReservation   = errors.New("reservation is not in the loaded list")
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindTransientNetwork
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindTransientNetwork:
		return "transient_network"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// APIError is what every failed action surfaces inline. Message is shown to
// staff as is; upstream messages are never rewritten.
type APIError struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func validationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// KindOf reports the kind of err, KindInternal when it is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindInternal
}

// Message is the text to render for err. Cancellation renders nothing.
func Message(err error) string {
	if err == nil || errors.Is(err, context.Canceled) {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return MessageGeneric
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusGatewayTimeout:
		return KindTransientNetwork
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return KindUpstream
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return KindValidation
	default:
		return KindInternal
	}
}

// transportError maps a failed round trip: timeouts, resets and refused
// connections are all transient. Cancellation passes through untouched so
// callers can drop it silently.
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}

	return &APIError{Kind: KindTransientNetwork, Message: MessageNetwork}
}
