package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"holostream/internal/metrics/domain"
)

// Ensure Repository implements the domain Repository interface
var _ domain.Repository = (*Repository)(nil)

const defaultListLimit = 100

// Repository implements the history repository interface using SQLite.
// Timestamps are stored as unix milliseconds.
type Repository struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// NewRepository creates a new SQLite history repository
func NewRepository(readDB *sql.DB, writeDB *sql.DB) *Repository {
	return &Repository{
		readDB:  readDB,
		writeDB: writeDB,
	}
}

// InsertSamples writes a snapshot in one transaction
func (r *Repository) InsertSamples(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `insert into metric_samples (ts, name, type, value, labels) values (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		labels, err := marshalLabels(sample.Labels)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, sample.Timestamp.UnixMilli(), sample.Name, string(sample.Kind), sample.Value, labels); err != nil {
			return fmt.Errorf("failed to insert sample %s: %w", sample.Name, err)
		}
	}

	return tx.Commit()
}

// ListSamples queries archived samples, newest first, with optional filters
func (r *Repository) ListSamples(ctx context.Context, filters domain.SampleFilters) ([]domain.Sample, error) {
	limit := int64(defaultListLimit)
	if filters.Limit > 0 {
		limit = int64(filters.Limit)
	}
	offset := int64(filters.Offset)

	var from sql.NullInt64
	if filters.From != nil {
		from.Int64 = filters.From.UnixMilli()
		from.Valid = true
	}

	var to sql.NullInt64
	if filters.To != nil {
		to.Int64 = filters.To.UnixMilli()
		to.Valid = true
	}

	var name sql.NullString
	if filters.Name != nil {
		name.String = *filters.Name
		name.Valid = true
	}

	var kind sql.NullString
	if filters.Kind != nil {
		kind.String = string(*filters.Kind)
		kind.Valid = true
	}

	query := `select ts, name, type, value, labels
from metric_samples
where (ts >= ?1 or ?1 is null)
  and (ts <= ?2 or ?2 is null)
  and (name = ?3 or ?3 is null)
  and (type = ?4 or ?4 is null)
order by ts desc, id asc
limit ?5 offset ?6`

	rows, err := r.readDB.QueryContext(ctx, query, from, to, name, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domain.Sample
	for rows.Next() {
		var (
			ts     int64
			sample domain.Sample
			kind   string
			labels []byte
		)
		if err := rows.Scan(&ts, &sample.Name, &kind, &sample.Value, &labels); err != nil {
			return nil, err
		}

		var labelsMap map[string]string
		if err := json.Unmarshal(labels, &labelsMap); err != nil {
			return nil, fmt.Errorf("failed to decode labels of %s: %w", sample.Name, err)
		}
		if len(labelsMap) == 0 {
			labelsMap = nil
		}

		samples = append(samples, domain.NewSample(
			time.UnixMilli(ts),
			domain.Kind(kind),
			sample.Name,
			sample.Value,
			labelsMap,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// DeleteSamplesBefore removes samples with a timestamp before the cutoff
func (r *Repository) DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.writeDB.ExecContext(ctx, `delete from metric_samples where ts < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete samples: %w", err)
	}
	return res.RowsAffected()
}

func marshalLabels(labels map[string]string) ([]byte, error) {
	if len(labels) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labels: %w", err)
	}
	return b, nil
}
