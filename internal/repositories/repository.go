package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/jackc/pgx/v5"
)

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// querier runs queries on a pool or inside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// auditColumns is the column list every table shares, in scan order.
const auditColumns = "created_at, updated_at, created_by, last_modified_by"

// stampWrite fills a's write fields from the request principal.
func stampWrite(ctx context.Context, a *models.Audit) {
	a.Touch(auth.PrincipalFromContext(ctx), time.Now().UTC())
}

func auditDest(a *models.Audit) []interface{} {
	return []interface{}{&a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.LastModifiedBy}
}
