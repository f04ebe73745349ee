// Package timezone pins every wall-clock read and date parse to the timezone
// configured in APP_TIMEZONE. Use IANA names such as "America/New_York".
package timezone

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"vcardops/config"

	"github.com/rs/zerolog/log"
)

var (
	loadOnce sync.Once
	location atomic.Pointer[time.Location]
)

// Set switches the application timezone. An empty name selects UTC.
func Set(name string) error {
	if name == "" {
		location.Store(time.UTC)

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	location.Store(loc)

	return nil
}

// GetLocation returns the application timezone, loading it from config on
// first use unless Set ran earlier.
func GetLocation() *time.Location {
	loadOnce.Do(func() {
		if location.Load() != nil {
			return
		}

		name := config.Get().App.Timezone
		if err := Set(name); err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("invalid timezone, falling back to UTC")
			location.Store(time.UTC)

			return
		}

		log.Info().Str("timezone", location.Load().String()).Msg("application timezone initialized")
	})

	return location.Load()
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
