package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/farmquest/internal/db"
)

// FailingUoW runs transactions like the real unit of work but makes the
// FailOnExec-th write inside each transaction return Err. Reads are not
// counted. Use it to check that multi-row writes (rewards, imports) roll
// back as a whole.
type FailingUoW struct {
	DB         *sql.DB
	FailOnExec int
	Err        error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow    *FailingUoW
	writes int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.uow.FailOnExec {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
