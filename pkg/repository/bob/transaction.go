package bob

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/stationlog/pkg/repository/api"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
)

type bobTransaction struct {
	db *bob.DB
}

var _ api.TransactionManager = (*bobTransaction)(nil)

func NewTransactionManager(db bob.DB) api.TransactionManager {
	return &bobTransaction{
		db: &db,
	}
}

// the contract with the repositories is:
// we put the current executor into the context, the repository should first look
// in the context for an executor and then use it to execute queries.
// A nested call joins the already running transaction.
//
//nolint:whitespace //editor/linter issue
func (b *bobTransaction) RunInTx(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if bobCtx.FromContext(ctx) != nil {
		return fn(ctx)
	}
	return b.db.RunInTx(ctx, nil, func(ctx context.Context, e bob.Executor) error {
		return fn(bobCtx.NewContext(ctx, e))
	})
}
