package ports

import (
	"context"

	"autocontract/internal/models"
)

type ClientStore interface {
	List(ctx context.Context) ([]models.Client, error)
	Append(ctx context.Context, c models.Client) (models.Client, error)
	Update(ctx context.Context, c models.Client) error
}

type ContractStore interface {
	List(ctx context.Context) ([]models.Contract, error)
	Append(ctx context.Context, c models.Contract) error
}

// Journal records completed operations. Implementations must tolerate being
// unconfigured.
type Journal interface {
	Record(ctx context.Context, e models.JournalEntry) error
}

// Archiver keeps a copy of a generated document and returns where it went.
type Archiver interface {
	Store(ctx context.Context, localPath string) (string, error)
}

type ctxKey string

const CtxOperator ctxKey = "operator"

// Operator returns the authenticated operator stored in ctx, if any.
func Operator(ctx context.Context) string {
	if v, ok := ctx.Value(CtxOperator).(string); ok {
		return v
	}
	return ""
}
