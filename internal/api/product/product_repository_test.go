package product

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock, slog.Default())
}

func productRows(id, categoryID uuid.UUID, status int, avg *float64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "name", "price", "images", "description", "phone",
		"category_id", "status", "average_rating", "created_at", "updated_at",
		"category_name",
	}).AddRow(
		id, "Solar Panel", 150.0, []string{"panel.jpg"}, "desc", "0912345678",
		categoryID, status, avg, now, now, "Energy",
	)
}

func TestRepositoryRate(t *testing.T) {
	t.Run("UpsertAndRecomputeInOneTransaction", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		userID := uuid.New()
		categoryID := uuid.New()
		avg := 5.0

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM products WHERE id = \$1 FOR UPDATE`).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(types.ProductStatusListed))
		mock.ExpectExec(`INSERT INTO product_ratings`).
			WithArgs(id, userID, 5.0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT (.+) FROM products p`).
			WithArgs(id).
			WillReturnRows(productRows(id, categoryID, types.ProductStatusListed, &avg))
		mock.ExpectQuery(`SELECT user_id, rate FROM product_ratings`).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "rate"}).AddRow(userID, 5.0))
		mock.ExpectRollback()

		p, err := repo.Rate(ctx, id, userID, 5.0)

		require.NoError(t, err)
		require.NotNil(t, p.AverageRating)
		assert.InDelta(t, 5.0, *p.AverageRating, 0.001)
		require.Len(t, p.Ratings, 1)
		assert.Equal(t, userID, p.Ratings[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingProductRollsBack", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM products WHERE id = \$1 FOR UPDATE`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Rate(ctx, id, userID, 4.0)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositorySetStatus(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		mock.ExpectExec(`UPDATE products SET status`).
			WithArgs(types.ProductStatusListed, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		_, err := repo.SetStatus(ctx, id, types.ProductStatusListed)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryCreate(t *testing.T) {
	t.Run("UnknownCategoryMapsToNotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		params := types.ProductParams{
			Name:       "Solar Panel",
			Price:      150,
			Phone:      "0912345678",
			CategoryID: uuid.New(),
		}
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs(params.Name, params.Price, params.Images, params.Description,
				params.Phone, params.CategoryID, types.ProductStatusPending).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.Create(ctx, params, types.ProductStatusPending)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, id)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, id)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryList(t *testing.T) {
	t.Run("FilterClausesAndCount", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		ctx := context.Background()

		id := uuid.New()
		categoryID := uuid.New()
		listed := types.ProductStatusListed
		minPrice := 100.0
		filter := types.ProductFilter{Status: &listed, MinPrice: &minPrice}

		mock.ExpectQuery(`SELECT (.+) FROM products p`).
			WithArgs(listed, minPrice, 10, 0).
			WillReturnRows(productRows(id, categoryID, listed, nil))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p`).
			WithArgs(listed, minPrice).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

		items, total, err := repo.List(ctx, filter, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Solar Panel", items[0].Name)
		require.NotNil(t, items[0].Category)
		assert.Equal(t, "Energy", items[0].Category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
