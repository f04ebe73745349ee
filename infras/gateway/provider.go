package gateway

import (
	"vcardops/config"

	"github.com/rs/zerolog/log"
)

// NewFromConfig registers every provider behind its own circuit breaker.
// A provider that cannot be built is left out of the registry, so its route
// answers 404 instead of failing startup.
func NewFromConfig(cfg *config.Config) *Registry {
	gateways := []Gateway{WithBreaker(NewStripe(cfg), cfg)}

	flutterwave, err := NewFlutterwave(cfg)
	if err != nil {
		log.Error().Err(err).Str("gateway", NameFlutterwave).Msg("payment gateway disabled")
	} else {
		gateways = append(gateways, WithBreaker(flutterwave, cfg))
	}

	return NewRegistry(gateways...)
}
