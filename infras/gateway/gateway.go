// Package gateway charges cards and issues hosted payment links through
// third-party payment providers.
package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	NameFlutterwave = "flutterwave"
	NameStripe      = "stripe"
)

const CodeRequiresVerification = "requires_verification"

// ErrUnavailable is returned while a gateway's circuit is open.
var ErrUnavailable = errors.New("payment gateway temporarily unavailable")

type Card struct {
	Number      string
	CVV         string
	ExpiryMonth string
	ExpiryYear  string
}

type ChargeRequest struct {
	Amount   decimal.Decimal
	Currency string
	Email    string
	Card     Card
}

// ChargeResult describes an accepted charge. RequiresVerification means the
// issuer wants an extra step (PIN, OTP, 3-D Secure) before funds move.
type ChargeResult struct {
	TransactionID        string
	Reference            string
	RedirectURL          string
	Status               string
	Message              string
	RequiresVerification bool
}

type LinkRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Email       string
	Description string
}

type LinkResult struct {
	URL       string
	Reference string
}

// RejectedError is a refusal reported by the gateway itself, such as a
// declined card. Message is the gateway's own text.
type RejectedError struct {
	Gateway string
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	PaymentLink(ctx context.Context, req LinkRequest) (LinkResult, error)
}

// Registry resolves gateways by their route name.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	registry := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, gw := range gateways {
		registry.gateways[gw.Name()] = gw
	}

	return registry
}

func (r *Registry) Get(name string) (Gateway, bool) {
	gw, ok := r.gateways[name]

	return gw, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// minorUnits converts an amount to the smallest currency unit.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
