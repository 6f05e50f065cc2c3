package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableResults = "exam_results"
	tableEvents  = "attempt_events"
)

// migrate creates the result and event tables and their indexes if they do
// not exist. Schema changes are additive only.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	b := entsql.Dialect(dialect.SQLite)

	stmts := []entsql.Querier{
		b.CreateTable(tableResults).IfNotExists().
			Columns(
				entsql.Column("id").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT"),
				entsql.Column("sequence").Type("integer").Attr("NOT NULL"),
				entsql.Column("attempt_id").Type("text").Attr("NOT NULL UNIQUE"),
				entsql.Column("exam_id").Type("text").Attr("NOT NULL"),
				entsql.Column("exam_title").Type("text").Attr("NOT NULL"),
				entsql.Column("participant").Type("text").Attr("NOT NULL"),
				entsql.Column("status").Type("text").Attr("NOT NULL"),
				entsql.Column("started_at").Type("integer").Attr("NOT NULL"),
				entsql.Column("completed_at").Type("integer").Attr("NOT NULL"),
				entsql.Column("correct_count").Type("integer").Attr("NOT NULL"),
				entsql.Column("total").Type("integer").Attr("NOT NULL"),
				entsql.Column("percentage").Type("integer").Attr("NOT NULL"),
				entsql.Column("passed").Type("integer").Attr("NOT NULL"),
				entsql.Column("answers").Type("text").Attr("NOT NULL"),
				entsql.Column("outcomes").Type("text").Attr("NOT NULL"),
				entsql.Column("recorded_at").Type("integer").Attr("NOT NULL"),
			),
		b.CreateIndex("exam_results_exam_id").IfNotExists().
			Table(tableResults).
			Columns("exam_id", "sequence"),
		b.CreateTable(tableEvents).IfNotExists().
			Columns(
				entsql.Column("id").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT"),
				entsql.Column("sequence").Type("integer").Attr("NOT NULL"),
				entsql.Column("attempt_id").Type("text").Attr("NOT NULL"),
				entsql.Column("exam_id").Type("text").Attr("NOT NULL"),
				entsql.Column("action").Type("text").Attr("NOT NULL"),
				entsql.Column("question_index").Type("integer").Attr("NOT NULL"),
				entsql.Column("option_index").Type("integer").Attr("NOT NULL"),
				entsql.Column("timestamp").Type("integer").Attr("NOT NULL"),
			),
		b.CreateIndex("attempt_events_attempt_id").IfNotExists().
			Table(tableEvents).
			Columns("attempt_id", "sequence"),
	}

	for _, stmt := range stmts {
		query, args := stmt.Query()
		if err := drv.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("%s: %w", query, err)
		}
	}
	return nil
}
