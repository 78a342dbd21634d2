package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens err into structured log fields. Postgres diagnostics are
// added when a pgx or lib/pq error is in the chain.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	fields := map[string]any{
		"error":      err.Error(),
		"error_code": string(CodeOf(err)),
	}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields["error_chain"] = chain

	for k, v := range postgresFields(err) {
		fields[k] = v
	}
	return fields
}

func postgresFields(err error) map[string]string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return compact(map[string]string{
			"pg_code":       pgxErr.Code,
			"pg_constraint": pgxErr.ConstraintName,
			"pg_table":      pgxErr.TableName,
			"pg_column":     pgxErr.ColumnName,
			"pg_detail":     pgxErr.Detail,
			"pg_message":    pgxErr.Message,
		})
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return compact(map[string]string{
			"pg_code":       string(pqErr.Code),
			"pg_constraint": pqErr.Constraint,
			"pg_table":      pqErr.Table,
			"pg_column":     pqErr.Column,
			"pg_detail":     pqErr.Detail,
			"pg_message":    pqErr.Message,
		})
	}
	return nil
}

func compact(fields map[string]string) map[string]string {
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}
