package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_dashboard/internal/store"
)

// failingExecutor rejects every request.
type failingExecutor struct{ err error }

func (f failingExecutor) Execute(context.Context, store.Request) ([]store.Row, error) {
	return nil, f.err
}

func newTestRepository(t *testing.T) (*Repository, *store.Memory) {
	mem := store.NewMemory()
	return NewRepository(mem, zaptest.NewLogger(t)), mem
}

func sale(id, date string, value int64) Sale {
	return Sale{
		ID:             id,
		ConsultantName: "Ana Silva",
		ClientName:     "Cliente " + id,
		Type:           Automobile,
		Value:          decimal.NewFromInt(value),
		Date:           date,
		Status:         Pending,
	}
}

// TestNewRepository verifies the repository is wired with its dependencies.
func TestNewRepository(t *testing.T) {
	repo := NewRepository(store.NewMemory(), nil)
	require.NotNil(t, repo)
	assert.NotNil(t, repo.exec)
	assert.NotNil(t, repo.logger)
}

func TestRepository_BulkInsertThenListOrdersByDateDesc(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	in := []Sale{
		sale("1", "2024-05-10", 100),
		sale("2", "2024-05-12", 200),
		sale("3", "2024-05-11", 300),
		sale("4", "2024-05-12", 400),
	}
	require.NoError(t, repo.BulkInsert(ctx, in))

	got := repo.List(ctx)
	require.Len(t, got, len(in))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Date, got[i].Date)
	}
	assert.ElementsMatch(t, ids(in), ids(got))
	assert.Equal(t, ids(got), ids(repo.List(ctx)), "repeated listing must be stable")
}

func TestRepository_InsertWithoutIDGetsOne(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sale("", "2024-05-10", 100)))

	got := repo.List(ctx)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}

func TestRepository_UpdateReplacesFields(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.BulkInsert(ctx, []Sale{sale("1", "2024-05-10", 100), sale("2", "2024-05-11", 200)}))

	changed := sale("1", "2024-06-01", 999)
	changed.Status = Cancelled
	changed.ClientName = "Outro"
	require.NoError(t, repo.Update(ctx, changed))

	got := repo.List(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, Cancelled, got[0].Status)
	assert.Equal(t, "Outro", got[0].ClientName)
	assert.True(t, decimal.NewFromInt(999).Equal(got[0].Value))
	assert.Equal(t, sale("2", "2024-05-11", 200).ClientName, got[1].ClientName)
	assert.Equal(t, Pending, got[1].Status)
}

func TestRepository_DeleteThenListOmitsID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.BulkInsert(ctx, []Sale{sale("1", "2024-05-10", 100), sale("2", "2024-05-11", 200)}))

	require.NoError(t, repo.Delete(ctx, "1"))

	assert.Equal(t, []string{"2"}, ids(repo.List(ctx)))
}

func TestRepository_ListDegradesOnError(t *testing.T) {
	repo := NewRepository(failingExecutor{err: errors.New("backend down")}, zaptest.NewLogger(t))

	got := repo.List(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepository_WritesPropagateErrors(t *testing.T) {
	backendErr := errors.New("backend down")
	repo := NewRepository(failingExecutor{err: backendErr}, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.Insert(ctx, sale("1", "2024-05-10", 1)), backendErr)
	assert.ErrorIs(t, repo.BulkInsert(ctx, []Sale{sale("1", "2024-05-10", 1)}), backendErr)
	assert.ErrorIs(t, repo.Update(ctx, sale("1", "2024-05-10", 1)), backendErr)
	assert.ErrorIs(t, repo.Delete(ctx, "1"), backendErr)
}

func TestRepository_GenerateSampleData(t *testing.T) {
	repo, mem := newTestRepository(t)
	ctx := context.Background()

	samples := repo.GenerateSampleData(ctx)
	require.Len(t, samples, 2)
	assert.Equal(t, 2, mem.Len(Table))
	assert.ElementsMatch(t, ids(samples), ids(repo.List(ctx)))

	again := repo.GenerateSampleData(ctx)
	assert.NotEqual(t, samples[0].ID, again[0].ID)

	failing := NewRepository(failingExecutor{err: errors.New("down")}, zaptest.NewLogger(t))
	assert.Empty(t, failing.GenerateSampleData(ctx))
}

func ids(sales []Sale) []string {
	out := make([]string, len(sales))
	for i, s := range sales {
		out[i] = s.ID
	}
	return out
}
