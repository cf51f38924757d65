// Package history is the local cache of transaction history.
//
// After each successful history fetch the transfer service replaces the
// owner's cached rows, and it reads them back when the gateway is
// unreachable. Rows are partitioned by owner UPI id so switching accounts
// never leaks another account's history.
//
//	repo := history.NewSQLiteRepository(db)
//	_ = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return history.NewSQLiteRepository(tx).Replace(ctx, upiID, txs)
//	})
//	cached, _ := repo.List(ctx, upiID, 20)
package history
