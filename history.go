package sort_experiment

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// RunSummary aggregates the stored results of one run.
type RunSummary struct {
	RunID          uint
	CreatedAt      time.Time
	Outcome        Outcome
	MaxExponent    uint
	TrialsPerSize  uint
	ResultCount    uint
	MaxSize        int
	AvgInsertionMs float64
	AvgMergeMs     float64
}

// ParseSince maps a history window to its lower bound relative to ref.
// Accepted: "all" (zero time), "today", "week", "month", or a Go duration
// such as "36h" meaning that long before ref.
func ParseSince(window string, ref time.Time) (time.Time, error) {
	n := now.With(ref)
	switch w := strings.ToLower(strings.TrimSpace(window)); w {
	case "", "all":
		return time.Time{}, nil
	case "today":
		return n.BeginningOfDay(), nil
	case "week":
		return n.BeginningOfWeek(), nil
	case "month":
		return n.BeginningOfMonth(), nil
	default:
		d, err := time.ParseDuration(w)
		if err != nil || d < 0 {
			return time.Time{}, fmt.Errorf("unknown history window [%s]", window)
		}
		return ref.Add(-d), nil
	}
}

// QueryRunSummaries summarises runs created at or after since, newest first.
func (p *Persistence) QueryRunSummaries(since time.Time, limit int) ([]RunSummary, error) {
	db, err := p.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return queryRunSummaries(db, since, limit)
}

func queryRunSummaries(db *sql.DB, since time.Time, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows *sql.Rows
	var err error
	query := `SELECT r.id, r.created_at, r.outcome, r.max_exponent, r.trials_per_size,
		COUNT(t.id), COALESCE(MAX(t.size), 0),
		COALESCE(AVG(t.insertion_mean_ms), 0), COALESCE(AVG(t.merge_mean_ms), 0)
		FROM experiment_runs r
		LEFT JOIN trial_records t ON t.experiment_run_id = r.id
		%s
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ?`
	if since.IsZero() {
		rows, err = db.Query(fmt.Sprintf(query, ""), limit)
	} else {
		rows, err = db.Query(fmt.Sprintf(query, "WHERE r.created_at >= ?"), since, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run summaries: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		var outcome string
		if err := rows.Scan(&s.RunID, &s.CreatedAt, &outcome, &s.MaxExponent, &s.TrialsPerSize,
			&s.ResultCount, &s.MaxSize, &s.AvgInsertionMs, &s.AvgMergeMs); err != nil {
			return nil, err
		}
		s.Outcome = Outcome(outcome)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
