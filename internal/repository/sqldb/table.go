package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// Table implements domain.Repository for one resource table. Columns are the
// writable columns besides id and must match the entity's db tags.
type Table[T any, P domain.EntityPtr[T]] struct {
	db      *sqlx.DB
	name    string
	columns []string

	selectSQL string
	insertSQL string
	updateSQL string
}

func newTable[T any, P domain.EntityPtr[T]](db *sqlx.DB, name string, columns ...string) *Table[T, P] {
	named := make([]string, len(columns))
	assignments := make([]string, len(columns))
	for i, c := range columns {
		named[i] = ":" + c
		assignments[i] = c + " = :" + c
	}

	return &Table[T, P]{
		db:        db,
		name:      name,
		columns:   columns,
		selectSQL: fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(columns, ", "), name),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			name, strings.Join(columns, ", "), strings.Join(named, ", ")),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", name, strings.Join(assignments, ", ")),
	}
}

func (t *Table[T, P]) Create(ctx context.Context, entity *T) error {
	P(entity).Touch(time.Now().UTC())

	query, args, err := sqlx.Named(t.insertSQL, entity)
	if err != nil {
		return fmt.Errorf("bind %s insert: %w", t.name, err)
	}

	return withTx(ctx, t.db, func(tx *sqlx.Tx) error {
		var id int64
		if err := tx.QueryRowxContext(ctx, tx.Rebind(query), args...).Scan(&id); err != nil {
			return t.writeError("insert", err)
		}
		P(entity).SetEntityID(id)
		return nil
	})
}

func (t *Table[T, P]) GetByID(ctx context.Context, id int64) (*T, error) {
	return t.getWhere(ctx, "id", id)
}

func (t *Table[T, P]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := t.db.SelectContext(ctx, &out, t.selectSQL+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

func (t *Table[T, P]) Update(ctx context.Context, entity *T) error {
	P(entity).Touch(time.Now().UTC())

	return withTx(ctx, t.db, func(tx *sqlx.Tx) error {
		result, err := tx.NamedExecContext(ctx, t.updateSQL, entity)
		if err != nil {
			return t.writeError("update", err)
		}
		return requireRow(result, t.name)
	})
}

func (t *Table[T, P]) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, t.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+t.name+" WHERE id = ?"), id)
		if err != nil {
			if classify(err) == foreignKeyViolation {
				return fmt.Errorf("%w: %s %d is still referenced", domain.ErrConflict, t.name, id)
			}
			return fmt.Errorf("delete %s: %w", t.name, err)
		}
		return requireRow(result, t.name)
	})
}

func (t *Table[T, P]) getWhere(ctx context.Context, column string, value any) (*T, error) {
	entity := new(T)
	err := t.db.GetContext(ctx, entity, t.db.Rebind(t.selectSQL+" WHERE "+column+" = ?"), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query %s by %s: %w", t.name, column, err)
	}
	return entity, nil
}

func (t *Table[T, P]) listWhere(ctx context.Context, column string, value any) ([]T, error) {
	out := []T{}
	err := t.db.SelectContext(ctx, &out, t.db.Rebind(t.selectSQL+" WHERE "+column+" = ? ORDER BY id"), value)
	if err != nil {
		return nil, fmt.Errorf("list %s by %s: %w", t.name, column, err)
	}
	return out, nil
}

func (t *Table[T, P]) writeError(op string, err error) error {
	switch classify(err) {
	case uniqueViolation:
		return fmt.Errorf("%w: duplicate value in %s", domain.ErrConflict, t.name)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s references a missing record", domain.ErrInvalidInput, t.name)
	case otherViolation:
		return fmt.Errorf("%w: %s rejected by a table constraint", domain.ErrInvalidInput, t.name)
	}
	return fmt.Errorf("%s %s: %w", op, t.name, err)
}

func requireRow(result sql.Result, table string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", table, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
