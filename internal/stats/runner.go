package stats

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// SnapshotStore is the slice of the repository the aggregator owns.
type SnapshotStore interface {
	LatestStats() (domain.Stats, error)
	InsertStats(domain.Stats) error
}

// Runner executes one aggregation cycle per tick. It reads its own latest
// snapshot for the resumption cursor, queries the storage service over HTTP
// for rows at or past the cursor, folds them and appends a new snapshot.
type Runner struct {
	store      SnapshotStore
	storageURL string
	client     *http.Client
}

func NewRunner(store SnapshotStore, storageURL string, timeout time.Duration) *Runner {
	return &Runner{
		store:      store,
		storageURL: storageURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// RunCycle is the periodic job body. Failures are logged and abandon the
// cycle; the snapshot row from the last successful cycle keeps serving
// reads.
func (r *Runner) RunCycle() {
	log.Info().Msg("started periodic processing")

	prior, err := r.store.LatestStats()
	if err != nil {
		log.Error().Err(err).Msg("reading latest stats failed")
		return
	}
	// the layout carries a literal Z, so normalize whatever zone the row
	// was scanned with
	cursor := prior.LastUpdated.UTC().Format(domain.DatetimeFormat)

	temps, err := fetchSince[domain.TemperatureReading](r.client, r.storageURL+"/temperature", cursor)
	if err != nil {
		log.Error().Err(err).Msg("temperature query failed")
		return
	}
	log.Info().Int("rows", len(temps)).Msg("response received from storage")

	envs, err := fetchSince[domain.EnvironmentReading](r.client, r.storageURL+"/environment", cursor)
	if err != nil {
		log.Error().Err(err).Msg("environment query failed")
		return
	}
	log.Info().Int("rows", len(envs)).Msg("response received from storage")

	next, ok := Fold(prior, temps, envs)
	if !ok {
		log.Info().Msg("telemetry is up to date")
		return
	}
	if err := r.store.InsertStats(next); err != nil {
		log.Error().Err(err).Msg("appending stats snapshot failed")
		return
	}
	log.Info().
		Int64("count", next.Count).
		Float64("avg_temp", next.AvgTemp).
		Msg("stats updated with latest telemetry")
}

func fetchSince[T any](client *http.Client, endpoint, cursor string) ([]T, error) {
	u := endpoint + "?timestamp=" + url.QueryEscape(cursor)
	res, err := client.Get(u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", endpoint, res.StatusCode)
	}
	var out []T
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return out, nil
}
