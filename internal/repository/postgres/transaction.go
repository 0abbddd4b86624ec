package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odonto/admin-api/internal/model"
)

type transactionRepository struct {
	BaseRepository
}

func (r *transactionRepository) ListRange(ctx context.Context, from, to string) (list []*model.Transaction, err error) {
	defer r.observe("transactions.list_range", time.Now(), &err)
	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD') AS date, description, category,
			method, type, value, created_at
		FROM transactions
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, created_at DESC`
	if err = r.db.SelectContext(ctx, &list, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return list, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) (err error) {
	defer r.observe("transactions.create", time.Now(), &err)
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	tx.CreatedAt = time.Now()

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (id, date, description, category, method, type, value, created_at)
		VALUES (:id, :date, :description, :category, :method, :type, :value, :created_at)
	`, tx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("transactions.delete", time.Now(), &err)
	if err = checkID(id, "transaction"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return affected(res, "transaction")
}

func (r *transactionRepository) SumByType(ctx context.Context, txType model.TransactionType, from, to string) (sum float64, err error) {
	defer r.observe("transactions.sum_by_type", time.Now(), &err)
	query := `
		SELECT COALESCE(SUM(value), 0)
		FROM transactions
		WHERE type = $1 AND date BETWEEN $2 AND $3`
	if err = r.db.GetContext(ctx, &sum, query, txType, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}
