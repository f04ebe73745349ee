package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"vcardops/config"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/paymentmethod"
)

const stripeDefaultMessage = "Card was declined"

type stripeGateway struct {
	successURL string
	cancelURL  string
}

// NewStripe configures the process-wide stripe backend. Network retries are
// disabled so the circuit breaker sees every failure.
func NewStripe(cfg *config.Config) Gateway {
	stripeCfg := cfg.Gateway.Stripe
	stripe.Key = stripeCfg.SecretKey

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if stripeCfg.BaseURL != "" {
		backendCfg.URL = stripe.String(stripeCfg.BaseURL)
	}

	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg))

	return &stripeGateway{
		successURL: stripeCfg.SuccessURL,
		cancelURL:  stripeCfg.CancelURL,
	}
}

func (s *stripeGateway) Name() string {
	return NameStripe
}

func (s *stripeGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	month, err := strconv.ParseInt(req.Card.ExpiryMonth, 10, 64)
	if err != nil {
		return ChargeResult{}, &RejectedError{Gateway: NameStripe, Code: "invalid_expiry_month", Message: "Invalid expiry month"}
	}

	year, err := strconv.ParseInt(req.Card.ExpiryYear, 10, 64)
	if err != nil {
		return ChargeResult{}, &RejectedError{Gateway: NameStripe, Code: "invalid_expiry_year", Message: "Invalid expiry year"}
	}

	methodParams := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(req.Card.Number),
			ExpMonth: stripe.Int64(month),
			ExpYear:  stripe.Int64(year),
			CVC:      stripe.String(req.Card.CVV),
		},
	}
	methodParams.Context = ctx

	method, err := paymentmethod.New(methodParams)
	if err != nil {
		return ChargeResult{}, mapStripeError(err)
	}

	intentParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(req.Amount)),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod:      stripe.String(method.ID),
		PaymentMethodTypes: stripe.StringSlice([]string{string(stripe.PaymentMethodTypeCard)}),
		ReceiptEmail:       stripe.String(req.Email),
		Confirm:            stripe.Bool(true),
	}
	intentParams.Context = ctx

	intent, err := paymentintent.New(intentParams)
	if err != nil {
		return ChargeResult{}, mapStripeError(err)
	}

	result := ChargeResult{
		TransactionID: intent.ID,
		Reference:     intent.ID,
		Status:        string(intent.Status),
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
	case stripe.PaymentIntentStatusRequiresAction:
		result.RequiresVerification = true
		if intent.NextAction != nil && intent.NextAction.RedirectToURL != nil {
			result.RedirectURL = intent.NextAction.RedirectToURL.URL
		}
	default:
		return ChargeResult{}, &RejectedError{Gateway: NameStripe, Code: string(intent.Status), Message: stripeDefaultMessage}
	}

	return result, nil
}

func (s *stripeGateway) PaymentLink(ctx context.Context, req LinkRequest) (LinkResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(minorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return LinkResult{}, mapStripeError(err)
	}

	return LinkResult{URL: sess.URL, Reference: sess.ID}, nil
}

// mapStripeError turns card and request errors into rejections and leaves
// server side failures as plain errors.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		log.Error().Err(err).Msg("failed to call stripe")

		return fmt.Errorf("failed to call stripe: %w", err)
	}

	if stripeErr.HTTPStatusCode >= http.StatusInternalServerError || stripeErr.Type == stripe.ErrorTypeAPI {
		log.Error().Err(err).Int("status", stripeErr.HTTPStatusCode).Msg("stripe returned server error")

		return fmt.Errorf("stripe returned status %d: %w", stripeErr.HTTPStatusCode, err)
	}

	message := stripeErr.Msg
	if message == "" {
		message = stripeDefaultMessage
	}

	return &RejectedError{Gateway: NameStripe, Code: string(stripeErr.Code), Message: message}
}
