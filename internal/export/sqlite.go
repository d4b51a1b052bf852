package export

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"leaders-scraper/internal/model"

	"github.com/mazen160/go-random"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// OpenDB opens (or creates) a sqlite database and applies the schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// NewRunId returns a random identifier for a run.
func NewRunId() (string, error) {
	return random.String(12)
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// WriteSQLite stores the dataset as one run, in a single transaction.
func WriteSQLite(ctx context.Context, db *sql.DB, runId string, startedAt time.Time, dataset model.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"insert into run(id, started_at, country_count, leader_count) values (?, ?, ?, ?)",
		runId, startedAt.UTC().Format(time.RFC3339), len(dataset), dataset.LeaderCount(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `insert into leader(
		run_id, country, position, id, first_name, last_name,
		birth_year, wikipedia_url, summary, summarized, document
	) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, country := range dataset.Countries() {
		for i, leader := range dataset[country] {
			document, err := json.Marshal(leader)
			if err != nil {
				return err
			}
			var summary sql.NullString
			if leader.Summary != nil {
				summary = sql.NullString{String: *leader.Summary, Valid: true}
			}
			_, err = stmt.ExecContext(
				ctx,
				runId, country, i,
				leader.ID.String(), leader.FirstName, leader.LastName,
				nullableString(leader.BirthYear.String()),
				nullableString(leader.WikipediaUrl),
				summary,
				leader.Summarized,
				string(document),
			)
			if err != nil {
				return fmt.Errorf("insert leader %s of '%s': %w", leader.ID, country, err)
			}
		}
	}

	return tx.Commit()
}
