package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_dashboard/internal/store"
)

// Repository is the persistence gateway for sales. Reads degrade to an empty
// result on failure; writes return the backend error to the caller.
type Repository struct {
	exec   store.Executor
	logger *zap.Logger
}

// NewRepository creates a new Repository over exec.
func NewRepository(exec store.Executor, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository{
		exec:   exec,
		logger: logger,
	}
}

// List returns every sale, newest date first. It never fails: backend errors
// are logged and an empty slice is returned.
func (r *Repository) List(ctx context.Context) []Sale {
	rows, err := r.exec.Execute(ctx, store.Select(Table).Order(colDate, false))
	if err != nil {
		r.logger.Error("error fetching sales", zap.Error(err))
		return []Sale{}
	}

	out := make([]Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomain(row))
	}
	return out
}

// BulkInsert stores all sales in one request.
func (r *Repository) BulkInsert(ctx context.Context, sales []Sale) error {
	if len(sales) == 0 {
		return nil
	}
	rows := make([]store.Row, len(sales))
	for i, s := range sales {
		rows[i] = ToStorage(s)
	}

	if _, err := r.exec.Execute(ctx, store.Insert(Table, rows...)); err != nil {
		r.logger.Error("error bulk saving sales", zap.Int("count", len(sales)), zap.Error(err))
		return fmt.Errorf("failed to save sales: %w", err)
	}
	r.logger.Info("sales imported", zap.Int("count", len(sales)))
	return nil
}

// Insert stores a single sale.
func (r *Repository) Insert(ctx context.Context, sale Sale) error {
	if _, err := r.exec.Execute(ctx, store.Insert(Table, ToStorage(sale))); err != nil {
		r.logger.Error("error adding sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return fmt.Errorf("failed to save sale: %w", err)
	}
	r.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("consultant", sale.ConsultantName))
	return nil
}

// Update replaces every field of the sale with the same ID.
func (r *Repository) Update(ctx context.Context, sale Sale) error {
	patch := ToStorage(sale)
	delete(patch, colID)

	if _, err := r.exec.Execute(ctx, store.Update(Table, patch).Eq(colID, sale.ID)); err != nil {
		r.logger.Error("error updating sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return fmt.Errorf("failed to update sale: %w", err)
	}
	r.logger.Info("sale updated", zap.String("sale_id", sale.ID))
	return nil
}

// Delete removes the sale with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.exec.Execute(ctx, store.Delete(Table).Eq(colID, id)); err != nil {
		r.logger.Error("error deleting sale", zap.String("sale_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	r.logger.Info("sale deleted", zap.String("sale_id", id))
	return nil
}

// GenerateSampleData inserts two example sales and returns them. It returns an
// empty slice when the insert fails.
func (r *Repository) GenerateSampleData(ctx context.Context) []Sale {
	samples := []Sale{
		{
			ID:             uuid.NewString(),
			ConsultantName: "Ana Silva",
			ClientName:     "Transportadora Veloz",
			Type:           HeavyMachinery,
			Value:          decimal.NewFromInt(450000),
			Date:           "2024-05-10",
			Status:         Approved,
		},
		{
			ID:             uuid.NewString(),
			ConsultantName: "Carlos Souza",
			ClientName:     "João Ferreira",
			Type:           Automobile,
			Value:          decimal.NewFromInt(80000),
			Date:           "2024-05-12",
			Status:         Approved,
		},
	}

	if err := r.BulkInsert(ctx, samples); err != nil {
		r.logger.Error("error generating sample data", zap.Error(err))
		return []Sale{}
	}
	return samples
}
