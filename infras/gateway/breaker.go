package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
	"vcardops/config"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/rs/zerolog/log"
)

type breakerGateway struct {
	next    Gateway
	breaker circuitbreaker.CircuitBreaker[any]
}

// WithBreaker guards a gateway with a circuit breaker. Transport failures
// and upstream 5xx responses count toward opening it; a RejectedError does
// not, since the provider answered.
func WithBreaker(next Gateway, cfg *config.Config) Gateway {
	breakerCfg := cfg.Gateway.Breaker

	breaker := circuitbreaker.NewBuilder[any]().
		HandleIf(func(_ any, err error) bool {
			var rejected *RejectedError

			return err != nil && !errors.As(err, &rejected)
		}).
		WithFailureThresholdRatio(breakerCfg.FailureThreshold, breakerCfg.MinRequests).
		WithDelay(time.Duration(breakerCfg.DelaySeconds) * time.Second).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			log.Warn().
				Str("gateway", next.Name()).
				Str("from", event.OldState.String()).
				Str("to", event.NewState.String()).
				Msg("gateway circuit breaker state changed")
		}).
		Build()

	return &breakerGateway{next: next, breaker: breaker}
}

func (b *breakerGateway) Name() string {
	return b.next.Name()
}

func (b *breakerGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	res, err := failsafe.With(b.breaker).WithContext(ctx).Get(func() (any, error) {
		return b.next.Charge(ctx, req)
	})
	if err != nil {
		return ChargeResult{}, b.mapError(err)
	}

	return res.(ChargeResult), nil //nolint:forcetypeassert
}

func (b *breakerGateway) PaymentLink(ctx context.Context, req LinkRequest) (LinkResult, error) {
	res, err := failsafe.With(b.breaker).WithContext(ctx).Get(func() (any, error) {
		return b.next.PaymentLink(ctx, req)
	})
	if err != nil {
		return LinkResult{}, b.mapError(err)
	}

	return res.(LinkResult), nil //nolint:forcetypeassert
}

func (b *breakerGateway) mapError(err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		log.Warn().Str("gateway", b.next.Name()).Msg("gateway circuit is open, rejecting call")

		return fmt.Errorf("%w: %s", ErrUnavailable, b.next.Name())
	}

	return err
}
