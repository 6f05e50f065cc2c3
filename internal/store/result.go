package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// statusTimedOut matches the text form of a deadline-finalized attempt.
const statusTimedOut = "timed_out"

var resultColumns = []string{
	"id", "sequence", "attempt_id", "exam_id", "exam_title", "participant",
	"status", "started_at", "completed_at", "correct_count", "total",
	"percentage", "passed", "answers", "outcomes", "recorded_at",
}

// resultRepo implements ResultRepo with ent's SQL builders.
type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *resultRepo) Save(ctx context.Context, res *ExamResult) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	answers, err := encodeAnswers(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	outcomes, err := json.Marshal(res.Outcomes)
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}
	if res.RecordedAt.IsZero() {
		res.RecordedAt = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableResults).
		Columns(resultColumns[1:]...).
		Values(
			seqNum, res.AttemptID, res.ExamID, res.ExamTitle, res.Participant,
			res.Status, res.StartedAt.UnixMilli(), res.CompletedAt.UnixMilli(),
			res.CorrectCount, res.Total, res.Percentage, res.Passed,
			answers, string(outcomes), res.RecordedAt.UnixMilli(),
		).
		Query()

	var result sql.Result
	if err := r.drv.Exec(ctx, query, args, &result); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	res.ID = id
	res.Sequence = seqNum
	return nil
}

func (r *resultRepo) Get(ctx context.Context, attemptID string) (*ExamResult, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("attempt_id", attemptID)).
		Limit(1)

	results, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("result %q: %w", attemptID, ErrNotFound)
	}
	return &results[0], nil
}

func (r *resultRepo) List(ctx context.Context, opts QueryOpts) ([]ExamResult, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table(tableResults)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.ExamID != "" {
		preds = append(preds, entsql.EQ("exam_id", opts.ExamID))
	}
	if opts.Participant != "" {
		preds = append(preds, entsql.EQ("participant", opts.Participant))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	results, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

func (r *resultRepo) ExamStats(ctx context.Context, examID string) (*ExamStats, error) {
	results, err := r.List(ctx, QueryOpts{ExamID: examID})
	if err != nil {
		return nil, err
	}

	stats := &ExamStats{ExamID: examID, Attempts: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	sum := 0
	for _, res := range results {
		sum += res.Percentage
		if res.Passed {
			stats.Passes++
		}
		if res.Status == statusTimedOut {
			stats.TimedOut++
		}
		if res.Percentage > stats.Best {
			stats.Best = res.Percentage
		}
		if res.CompletedAt.After(stats.LastAttempt) {
			stats.LastAttempt = res.CompletedAt
		}
	}
	stats.Average = float64(sum) / float64(len(results))
	return stats, nil
}

func (r *resultRepo) DeleteAll(ctx context.Context) (int, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	var deleted int64
	for _, table := range []string{tableResults, tableEvents} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("delete %s: %w", table, err)
		}
		if table == tableResults {
			if deleted, err = res.RowsAffected(); err != nil {
				tx.Rollback()
				return 0, fmt.Errorf("delete %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(deleted), nil
}

func (r *resultRepo) query(ctx context.Context, sel *entsql.Selector) ([]ExamResult, error) {
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExamResult
	for rows.Next() {
		var res ExamResult
		var startedAt, completedAt, recordedAt int64
		var answers, outcomes string
		err := rows.Scan(
			&res.ID, &res.Sequence, &res.AttemptID, &res.ExamID, &res.ExamTitle,
			&res.Participant, &res.Status, &startedAt, &completedAt,
			&res.CorrectCount, &res.Total, &res.Percentage, &res.Passed,
			&answers, &outcomes, &recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.StartedAt = time.UnixMilli(startedAt)
		res.CompletedAt = time.UnixMilli(completedAt)
		res.RecordedAt = time.UnixMilli(recordedAt)
		if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		if err := json.Unmarshal([]byte(outcomes), &res.Outcomes); err != nil {
			return nil, fmt.Errorf("unmarshal outcomes: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// encodeAnswers stores question index → option index as a JSON object.
func encodeAnswers(m map[int]int) (string, error) {
	if m == nil {
		m = map[int]int{}
	}
	b, err := json.Marshal(m)
	return string(b), err
}
