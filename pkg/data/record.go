package data

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/pkg/errors"
)

const (
	SourceScore = "score"
	SourceSweep = "sweep"

	recordListLimitDefault = 100
)

var (
	insertRecord = `INSERT INTO record (
			source, input, prec, shift_mode, outcome, max_index,
			max_posterior, phred, clamped, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRecords = `SELECT
			id, source, input, prec, shift_mode, outcome, max_index,
			max_posterior, phred, clamped, error, created_at
		FROM record
		ORDER BY id DESC
		LIMIT ?
	`

	selectOutcomeCounts = `SELECT outcome, COUNT(*) FROM record GROUP BY outcome`
)

// Record is one persisted computation.
type Record struct {
	ID           int64         `json:"id,omitempty" yaml:"id,omitempty"`
	Source       string        `json:"source" yaml:"source"`
	Input        []float64     `json:"input" yaml:"input"`
	Precision    string        `json:"precision" yaml:"precision"`
	Shift        string        `json:"shift" yaml:"shift"`
	Outcome      phred.Outcome `json:"outcome" yaml:"outcome"`
	MaxIndex     int           `json:"max_index" yaml:"max_index"`
	MaxPosterior float64       `json:"max_posterior,omitempty" yaml:"max_posterior,omitempty"`
	Phred        float64       `json:"phred,omitempty" yaml:"phred,omitempty"`
	Clamped      bool          `json:"clamped,omitempty" yaml:"clamped,omitempty"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
}

// NewRecord captures the outcome of a single compute call.
// A +Inf score is recorded as saturated without a phred value.
func NewRecord(source string, input []float64, prec phred.Precision, opts phred.Options, res *phred.Result[float64], err error) *Record {
	r := &Record{
		Source:    source,
		Input:     input,
		Precision: prec.String(),
		Shift:     opts.Shift.String(),
		MaxIndex:  -1,
		CreatedAt: time.Now().UTC(),
	}

	var score float64
	if res != nil {
		score = res.Phred
	}
	r.Outcome = phred.Classify(score, err)

	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.MaxIndex = res.MaxIndex
	r.MaxPosterior = res.MaxPosterior
	r.Clamped = res.Clamped
	if !math.IsInf(res.Phred, 0) {
		r.Phred = res.Phred
	}
	return r
}

// SaveRecords inserts all records in a single transaction.
func SaveRecords(db *sql.DB, records []*Record) error {
	if db == nil {
		return errDBNotInitialized
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(insertRecord)
	if err != nil {
		rollbackTransaction(tx)
		return errors.Wrap(err, "failed to prepare record insert statement")
	}
	defer stmt.Close()

	for i, r := range records {
		if r == nil {
			rollbackTransaction(tx)
			return errors.Errorf("record %d is nil", i)
		}

		in, err := json.Marshal(r.Input)
		if err != nil {
			rollbackTransaction(tx)
			return errors.Wrapf(err, "failed to marshal input of record %d", i)
		}

		var post, score sql.NullFloat64
		if r.Outcome == phred.OutcomeValid {
			post = sql.NullFloat64{Float64: r.MaxPosterior, Valid: true}
			score = sql.NullFloat64{Float64: r.Phred, Valid: true}
		}

		created := r.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}

		if _, err = stmt.Exec(r.Source, string(in), r.Precision, r.Shift, string(r.Outcome), r.MaxIndex,
			post, score, r.Clamped, r.Error, created.Format(time.RFC3339Nano)); err != nil {
			rollbackTransaction(tx)
			return errors.Wrapf(err, "failed to insert record %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListRecords returns up to limit records, newest first.
func ListRecords(db *sql.DB, limit int) ([]*Record, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = recordListLimitDefault
	}

	stmt, err := db.Prepare(selectRecords)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare record select statement")
	}
	defer stmt.Close()

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute record select statement")
	}
	defer rows.Close()

	list := make([]*Record, 0)
	for rows.Next() {
		r := &Record{}
		var in, outcome, created string
		var post, score sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Source, &in, &r.Precision, &r.Shift, &outcome, &r.MaxIndex,
			&post, &score, &r.Clamped, &r.Error, &created); err != nil {
			return nil, errors.Wrap(err, "failed to scan record row")
		}
		if err := json.Unmarshal([]byte(in), &r.Input); err != nil {
			return nil, errors.Wrapf(err, "failed to parse input of record %d", r.ID)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, errors.Wrapf(err, "failed to parse timestamp of record %d", r.ID)
		}
		r.Outcome = phred.Outcome(outcome)
		r.MaxPosterior = post.Float64
		r.Phred = score.Float64
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate record rows")
	}

	return list, nil
}

// CountOutcomes returns the number of records per outcome.
func CountOutcomes(db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectOutcomeCounts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count outcomes")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, errors.Wrap(err, "failed to scan outcome count")
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate outcome counts")
	}
	return counts, nil
}

func rollbackTransaction(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
