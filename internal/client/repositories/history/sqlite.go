package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/dbx"
	"github.com/dmitrijs2005/upiwallet/internal/timex"
)

// SQLiteRepository implements Repository over a DBTX. Replace issues several
// statements, so callers wanting atomicity pass a *sql.Tx via dbx.WithTx.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Replace(ctx context.Context, owner string, txs []models.Transaction) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE owner_upi_id = ?`, owner); err != nil {
		return fmt.Errorf("failed to purge history for %s: %w", owner, err)
	}

	query := `INSERT INTO transactions (owner_upi_id, id, sender_upi_id, receiver_upi_id,
			amount, description, status, transaction_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_upi_id, id) DO NOTHING`
	for _, t := range txs {
		_, err := r.db.ExecContext(ctx, query,
			owner, t.ID, t.SenderUPIID, t.ReceiverUPIID,
			t.Amount, t.Description, string(t.Status), t.TransactionRef, formatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, owner string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, sender_upi_id, receiver_upi_id, amount, description, status,
			transaction_ref, created_at
		FROM transactions WHERE owner_upi_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var (
			t         models.Transaction
			status    string
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.SenderUPIID, &t.ReceiverUPIID, &t.Amount,
			&t.Description, &status, &t.TransactionRef, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		t.Status = models.TransactionStatus(status)
		if createdAt != "" {
			ts, err := timex.ParseTimestamp(createdAt)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
			}
			t.CreatedAt = ts
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// storedLayout is fixed width, so ORDER BY created_at sorts chronologically.
const storedLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(ts timex.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(storedLayout)
}

// AtomicRepository is a SQLiteRepository whose Replace runs in its own
// transaction, so a reader never sees a half-written snapshot.
type AtomicRepository struct {
	*SQLiteRepository
	db *sql.DB
}

func NewAtomicRepository(db *sql.DB) *AtomicRepository {
	return &AtomicRepository{SQLiteRepository: NewSQLiteRepository(db), db: db}
}

func (r *AtomicRepository) Replace(ctx context.Context, owner string, txs []models.Transaction) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Replace(ctx, owner, txs)
	})
}
