package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE que se tratan de forma específica.
const (
	codeUniqueViolation       = "23505"
	codeInsufficientPrivilege = "42501"
	codeUndefinedFunction     = "42883"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if pgCode(err) == codeUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isPermissionDenied detecta errores de privilegios o de row-level security.
func isPermissionDenied(err error) bool {
	if pgCode(err) == codeInsufficientPrivilege {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "row-level security") || strings.Contains(msg, "permission denied")
}

// isUndefinedFunction detecta que un procedimiento almacenado no existe.
func isUndefinedFunction(err error) bool {
	return pgCode(err) == codeUndefinedFunction
}

// wrap antepone el contexto y traduce los errores de permisos al error de dominio.
func wrap(op string, err error) error {
	if isPermissionDenied(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
