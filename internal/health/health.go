package health

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// Fold derives the tri-state system status from the component signals:
// green iff every component is up, red iff every component is down, yellow
// for any mix.
func Fold(statuses []domain.ServiceStatus) domain.SystemStatus {
	up := 0
	for _, s := range statuses {
		if s == domain.StatusUp {
			up++
		}
	}
	switch up {
	case len(statuses):
		return domain.SystemGreen
	case 0:
		return domain.SystemRed
	default:
		return domain.SystemYellow
	}
}

// Prober issues bounded-timeout liveness probes. Probes are independent: a
// failure is logged and reported as down, never propagated.
type Prober struct {
	client *http.Client
}

func NewProber(timeout time.Duration) *Prober {
	return &Prober{client: &http.Client{Timeout: timeout}}
}

// Probe GETs the service's liveness endpoint. Any 2xx response is up;
// timeouts, connection failures and other statuses are down.
func (p *Prober) Probe(service, baseURL string) domain.ServiceStatus {
	res, err := p.client.Get(baseURL + "/health")
	if err != nil {
		log.Error().Err(err).Str("service", service).Msg("probe failed")
		return domain.StatusDown
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Error().Int("status", res.StatusCode).Str("service", service).Msg("probe returned non-2xx")
		return domain.StatusDown
	}
	log.Info().Str("service", service).Msg("service status: up")
	return domain.StatusUp
}
