package repo

import (
	"context"

	dom "TDL/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows mirrors pgx.ErrNoRows for Exec-based operations that cannot
// return it themselves.
var ErrNoRows = pgx.ErrNoRows

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	HardDelete(ctx context.Context, userID, id int64) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, due_at, priority, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id, user_id, title, description, due_at, COALESCE(priority, ''), status, created_at, updated_at`
	var out dom.Task
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.DueAt, string(t.Priority), string(t.Status),
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.DueAt,
		&out.Priority, &out.Status, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `
		SELECT id, user_id, title, description, due_at, COALESCE(priority, ''), status, created_at, updated_at
		FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueAt,
		&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// ListByUser returns every task for the user in one flat list, oldest
// first. The client redistributes by status.
func (r *PGTaskRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `
		SELECT id, user_id, title, description, due_at, COALESCE(priority, ''), status, created_at, updated_at
		FROM tasks WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueAt,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, due_at = $5, priority = NULLIF($6, ''), status = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, due_at, COALESCE(priority, ''), status, created_at, updated_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.DueAt, string(patch.Priority), string(patch.Status),
	).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueAt,
		&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// HardDelete removes the row permanently. Irreversible.
func (r *PGTaskRepo) HardDelete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
