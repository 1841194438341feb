package repository

import "github.com/sensorgrid/telemetry-pipeline/internal/domain"

// LatestStats returns the current rolling statistics snapshot, i.e. the row
// with the greatest last_updated.
func (r *Repos) LatestStats() (domain.Stats, error) {
	var s domain.Stats
	err := r.db.Get(&s,
		`SELECT id_, count, temp_buffer, max_temp, min_temp, avg_temp, max_pm2_5, max_co_2, last_updated
		 FROM stats ORDER BY last_updated DESC, id_ DESC LIMIT 1`)
	return s, err
}

// InsertStats appends a new snapshot row; prior rows are never mutated.
func (r *Repos) InsertStats(s domain.Stats) error {
	_, err := r.db.Exec(
		`INSERT INTO stats (count, temp_buffer, max_temp, min_temp, avg_temp, max_pm2_5, max_co_2, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.Count, s.TempBuffer, s.MaxTemp, s.MinTemp, s.AvgTemp, s.MaxPM25, s.MaxCO2, s.LastUpdated)
	return err
}

// SeedStats writes the initial snapshot once, on first-ever start.
func (r *Repos) SeedStats() error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM stats`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return r.InsertStats(domain.SeedStats())
}

func (r *Repos) LatestHealth() (domain.Health, error) {
	var h domain.Health
	err := r.db.Get(&h,
		`SELECT id_, system, receiver, storage, audit_log, processing, last_updated
		 FROM health ORDER BY last_updated DESC, id_ DESC LIMIT 1`)
	return h, err
}

func (r *Repos) InsertHealth(h domain.Health) error {
	_, err := r.db.Exec(
		`INSERT INTO health (system, receiver, storage, audit_log, processing, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		h.System, h.Receiver, h.Storage, h.AuditLog, h.Processing, h.LastUpdated)
	return err
}

func (r *Repos) SeedHealth() error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM health`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return r.InsertHealth(domain.SeedHealth())
}
