package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marktprijs/catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupermarketRepository_FindIDByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSupermarketRepository(db)
	ctx := context.Background()

	t.Run("case-insensitive lookup", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))

		mock.ExpectQuery("SELECT id FROM supermarkets WHERE LOWER\\(code\\) = LOWER\\(\\$1\\)").
			WithArgs("ah").
			WillReturnRows(rows)

		id, err := repo.FindIDByCode(ctx, "ah")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM supermarkets").
			WithArgs("NOPE").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindIDByCode(ctx, "NOPE")
		require.ErrorIs(t, err, repository.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSupermarketRepository_Ensure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSupermarketRepository(db)
	ctx := context.Background()

	t.Run("existing supermarket is returned as-is", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM supermarkets").
			WithArgs("AH").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		id, err := repo.Ensure(ctx, "AH", "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing supermarket is created with built-in defaults", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM supermarkets").
			WithArgs("jumbo").
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery("INSERT INTO supermarkets").
			WithArgs("JUMBO", "Jumbo", "https://www.jumbo.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

		id, err := repo.Ensure(ctx, "jumbo", "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(8), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown chain gets placeholder defaults", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM supermarkets").
			WithArgs("SPAR").
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery("INSERT INTO supermarkets").
			WithArgs("SPAR", "SPAR", "https://example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

		id, err := repo.Ensure(ctx, "SPAR", "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(9), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
