package sqlite

import (
	"context"
	"database/sql"

	"github.com/sandevgo/sentinel/internal/core"
)

type FactRepo struct {
	db    *sql.DB
	orgID int64
}

func NewFactRepo(db *sql.DB, orgID int64) *FactRepo {
	return &FactRepo{db: db, orgID: orgID}
}

func (r *FactRepo) LoadFactHistory(ctx context.Context, key string) ([]core.Fact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, version, created_at FROM truths WHERE org_id = ? AND key = ? ORDER BY version ASC`,
		r.orgID, key,
	)
	if err != nil {
		return nil, dbErr("query fact history", err)
	}
	return scanFacts(rows)
}

// AppendFact relies on UNIQUE(org_id, key, version): a second writer racing
// for the same version fails here rather than forking the history.
func (r *FactRepo) AppendFact(ctx context.Context, fact core.Fact) error {
	return insertFact(ctx, r.db, r.orgID, fact)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertFact(ctx context.Context, ex execer, orgID int64, fact core.Fact) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO truths (org_id, key, value, version, created_at) VALUES (?, ?, ?, ?, ?)`,
		orgID, fact.Key, fact.Value, fact.Version, formatTime(fact.CreatedAt),
	)
	if err != nil {
		return dbErr("insert fact", err)
	}
	return nil
}

func (r *FactRepo) ListFacts(ctx context.Context) ([]core.Fact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, version, created_at FROM truths WHERE org_id = ? ORDER BY key ASC, version ASC`,
		r.orgID,
	)
	if err != nil {
		return nil, dbErr("query facts", err)
	}
	return scanFacts(rows)
}

func scanFacts(rows *sql.Rows) ([]core.Fact, error) {
	defer rows.Close()

	facts := []core.Fact{}
	for rows.Next() {
		var (
			f       core.Fact
			created string
		)
		if err := rows.Scan(&f.Key, &f.Value, &f.Version, &created); err != nil {
			return nil, dbErr("scan fact", err)
		}
		f.CreatedAt = parseTime(created)
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read facts", err)
	}
	return facts, nil
}
