package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/pkg/log"
)

type IngestRepo struct {
	db    *sql.DB
	orgID int64
	now   func() time.Time
}

func NewIngestRepo(db *sql.DB, orgID int64) *IngestRepo {
	return &IngestRepo{db: db, orgID: orgID, now: time.Now}
}

// SaveIngest stores the ingest with its tasks, risk, truth versions and
// conflicts in one transaction.
func (r *IngestRepo) SaveIngest(ctx context.Context, rec core.IngestRecord) (int64, error) {
	reasons, err := json.Marshal(rec.Risk.Reasons)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal risk reasons: %w", err)
	}
	created := formatTime(r.now())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbErr("begin ingest", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO ingests (org_id, request_id, source, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.orgID, rec.RequestID, rec.Source, rec.Text, created,
	)
	if err != nil {
		return 0, dbErr("insert ingest", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbErr("read ingest id", err)
	}

	for _, t := range rec.Tasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (org_id, ingest_id, description, owner, status, deadline, dependency, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.orgID, id, t.Description, t.Owner, string(t.Status), t.Deadline, t.Dependency, created,
		)
		if err != nil {
			return 0, dbErr("insert task", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO risks (org_id, ingest_id, score, level, reasons, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.orgID, id, rec.Risk.Score, string(rec.Risk.Level), string(reasons), created,
	)
	if err != nil {
		return 0, dbErr("insert risk", err)
	}

	for _, f := range rec.Facts {
		if err := insertFact(ctx, tx, r.orgID, f); err != nil {
			return 0, err
		}
	}

	for _, c := range rec.Conflicts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO conflicts (org_id, ingest_id, key, old_value, new_value, question, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.orgID, id, c.Key, c.OldValue, c.NewValue, c.Question, created,
		)
		if err != nil {
			return 0, dbErr("insert conflict", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, dbErr("commit ingest", err)
	}

	log.FromCtx(ctx).Debug().Int64("ingest_id", id).Int("tasks", len(rec.Tasks)).Int("facts", len(rec.Facts)).Msg("ingest saved")
	return id, nil
}

func (r *IngestRepo) RecentIngests(ctx context.Context, limit int) ([]core.StoredIngest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, source, text, created_at FROM ingests WHERE org_id = ? ORDER BY id DESC LIMIT ?`,
		r.orgID, limit,
	)
	if err != nil {
		return nil, dbErr("query ingests", err)
	}
	defer rows.Close()

	out := []core.StoredIngest{}
	for rows.Next() {
		var (
			in      core.StoredIngest
			created string
		)
		if err := rows.Scan(&in.ID, &in.RequestID, &in.Source, &in.Text, &created); err != nil {
			return nil, dbErr("scan ingest", err)
		}
		in.CreatedAt = parseTime(created)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read ingests", err)
	}
	return out, nil
}

// LatestRisk returns nil when nothing has been analyzed yet.
func (r *IngestRepo) LatestRisk(ctx context.Context) (*core.StoredRisk, error) {
	var (
		risk    core.StoredRisk
		level   string
		reasons string
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT ingest_id, score, level, reasons, created_at FROM risks WHERE org_id = ? ORDER BY id DESC LIMIT 1`,
		r.orgID,
	).Scan(&risk.IngestID, &risk.Score, &level, &reasons, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr("query latest risk", err)
	}

	risk.Level = core.RiskLevel(level)
	risk.CreatedAt = parseTime(created)
	if err := json.Unmarshal([]byte(reasons), &risk.Reasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal risk reasons: %w", err)
	}
	if risk.Reasons == nil {
		risk.Reasons = []string{}
	}
	return &risk, nil
}

func (r *IngestRepo) TasksForIngest(ctx context.Context, ingestID int64) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT description, owner, status, deadline, dependency FROM tasks WHERE org_id = ? AND ingest_id = ? ORDER BY id ASC`,
		r.orgID, ingestID,
	)
	if err != nil {
		return nil, dbErr("query tasks", err)
	}
	defer rows.Close()

	out := []core.Task{}
	for rows.Next() {
		var (
			t      core.Task
			status string
		)
		if err := rows.Scan(&t.Description, &t.Owner, &status, &t.Deadline, &t.Dependency); err != nil {
			return nil, dbErr("scan task", err)
		}
		t.Status = core.TaskStatus(status)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read tasks", err)
	}
	return out, nil
}

func (r *IngestRepo) RecentConflicts(ctx context.Context, limit int) ([]core.StoredConflict, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, old_value, new_value, question, created_at FROM conflicts WHERE org_id = ? ORDER BY id DESC LIMIT ?`,
		r.orgID, limit,
	)
	if err != nil {
		return nil, dbErr("query conflicts", err)
	}
	defer rows.Close()

	out := []core.StoredConflict{}
	for rows.Next() {
		var (
			c       core.StoredConflict
			created string
		)
		if err := rows.Scan(&c.Key, &c.OldValue, &c.NewValue, &c.Question, &created); err != nil {
			return nil, dbErr("scan conflict", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read conflicts", err)
	}
	return out, nil
}
