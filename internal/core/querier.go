package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// setClause is one column assignment in a partial update. Update structs
// translate their non-nil fields into a fixed list of these; callers never
// derive column names from request input.
type setClause struct {
	column string
	value  any
}

// execUpdate runs UPDATE table SET ... , updated_at = now() WHERE id = $n
// and reports whether a row matched.
func execUpdate(ctx context.Context, q pgxQuerier, table string, id int, sets []setClause, extraWhere string) (bool, error) {
	if len(sets) == 0 {
		return false, nil
	}
	parts := make([]string, 0, len(sets)+1)
	args := make([]any, 0, len(sets)+1)
	for _, s := range sets {
		args = append(args, s.value)
		parts = append(parts, fmt.Sprintf("%s = $%d", s.column, len(args)))
	}
	parts = append(parts, "updated_at = now()")
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(parts, ", "), len(args))
	if extraWhere != "" {
		sql += " AND " + extraWhere
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// softDelete flags a row deleted. It returns NotFound when no live row matched.
func softDelete(ctx context.Context, q pgxQuerier, table, entity string, id int) error {
	tag, err := q.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET is_deleted = true, updated_at = now() WHERE id = $1 AND NOT is_deleted", table), id)
	if err != nil {
		return classifyPgError(err, "delete "+entity, "invalid "+entity+" reference")
	}
	if tag.RowsAffected() == 0 {
		return NotFoundf("%s %d not found", entity, id)
	}
	return nil
}
