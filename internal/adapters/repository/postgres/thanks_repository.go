package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/onetenth/thanks-point/internal/core/thanks"
	pgdb "github.com/onetenth/thanks-point/internal/platform/db/postgres"
)

const foreignKeyViolationCode = "23503"

// ThanksRepository は PostgreSQL を利用したサンキュー永続化の実装です。
type ThanksRepository struct {
	pool pgdb.Queryer
}

// NewThanksRepository は ThanksRepository を生成します。
func NewThanksRepository(pool pgdb.Queryer) *ThanksRepository {
	return &ThanksRepository{pool: pool}
}

// Insert はサンキューを 1 件登録します。createdAt がゼロ値の場合は
// 現在時刻を採用します。
func (r *ThanksRepository) Insert(ctx context.Context, t *thanks.Thanks, createdAt time.Time) (*thanks.Thanks, error) {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO thanks (id, from_employee_id, to_employee_id, message, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, from_employee_id, to_employee_id, message, created_at
    `,
		uuid.NewString(),
		t.FromEmployeeID,
		t.ToEmployeeID,
		t.Message,
		createdAt,
	)

	inserted, err := scanThanks(row)
	if err != nil {
		return nil, translateThanksPgError(err)
	}
	return inserted, nil
}

// ListAll はサンキューを作成日時の降順で全件取得します。
func (r *ThanksRepository) ListAll(ctx context.Context) ([]*thanks.Thanks, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, from_employee_id, to_employee_id, message, created_at
          FROM thanks
         ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, translateThanksPgError(err)
	}
	defer rows.Close()

	var events []*thanks.Thanks
	for rows.Next() {
		t, err := scanThanks(rows)
		if err != nil {
			return nil, translateThanksPgError(err)
		}
		events = append(events, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateThanksPgError(err)
	}

	return events, nil
}

func scanThanks(row pgx.Row) (*thanks.Thanks, error) {
	var (
		id        string
		fromID    string
		toID      string
		message   string
		createdAt time.Time
	)

	if err := row.Scan(&id, &fromID, &toID, &message, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, thanks.ErrThanksNotFound
		}
		return nil, err
	}

	return &thanks.Thanks{
		ID:             id,
		FromEmployeeID: fromID,
		ToEmployeeID:   toID,
		Message:        message,
		CreatedAt:      createdAt,
	}, nil
}

func translateThanksPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return thanks.ErrThanksNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		switch pgErr.ConstraintName {
		case "thanks_from_employee_id_fkey":
			return thanks.ErrInvalidSender
		case "thanks_to_employee_id_fkey":
			return thanks.ErrInvalidRecipient
		}
		return thanks.ErrInvalidSender
	}

	return err
}
