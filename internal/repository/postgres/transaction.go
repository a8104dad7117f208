package postgres

import (
	"context"

	"github.com/jhendriks/photoregister/internal/model"
)

var _ model.TransactionLog = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *Connection
}

func NewTransactionRepository(db *Connection) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

func (r *TransactionRepository) Record(ctx context.Context, rec model.TransactionRecord) error {
	const query = `INSERT INTO transactions (id, outcome, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, rec.ID, string(rec.Outcome), rec.CreatedAt)
	return err
}
