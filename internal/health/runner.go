package health

import (
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// Targets holds the base URLs of the four probed services.
type Targets struct {
	Receiver   string
	Storage    string
	AuditLog   string
	Processing string
}

// SnapshotStore is the slice of the repository the health aggregator owns.
type SnapshotStore interface {
	LatestHealth() (domain.Health, error)
	InsertHealth(domain.Health) error
}

type Runner struct {
	store   SnapshotStore
	prober  *Prober
	targets Targets
}

func NewRunner(store SnapshotStore, prober *Prober, targets Targets) *Runner {
	return &Runner{store: store, prober: prober, targets: targets}
}

// RunCycle probes every service and appends one snapshot row. Individual
// probe failures never abort the cycle or the remaining probes.
func (r *Runner) RunCycle() {
	log.Info().Msg("checking health of services")

	h := domain.Health{
		Receiver:    r.prober.Probe("receiver", r.targets.Receiver),
		Storage:     r.prober.Probe("storage", r.targets.Storage),
		AuditLog:    r.prober.Probe("audit_log", r.targets.AuditLog),
		Processing:  r.prober.Probe("processing", r.targets.Processing),
		LastUpdated: domain.Now(),
	}
	h.System = Fold([]domain.ServiceStatus{h.Receiver, h.Storage, h.AuditLog, h.Processing})

	switch h.System {
	case domain.SystemGreen:
		log.Info().Msg("system status: green")
	case domain.SystemYellow:
		log.Warn().Msg("system status: yellow")
	case domain.SystemRed:
		log.Error().Msg("system status: red")
	}

	if err := r.store.InsertHealth(h); err != nil {
		log.Error().Err(err).Msg("appending health snapshot failed")
	}
}
