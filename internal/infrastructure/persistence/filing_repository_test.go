package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/shared"
)

// newTestRepository creates a repository backed by an in-memory sqlite database
func newTestRepository(t *testing.T) *GormFilingRepository {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	// isolate tests sharing the cache
	db.Exec("DELETE FROM filing_items")
	db.Exec("DELETE FROM filings")

	return NewGormFilingRepository(db)
}

func newStoredFiling(t *testing.T) *filing.Filing {
	f, err := filing.NewFiling("SHP-001", "INV-2026-042", "Nhava Sheva", decimal.NewFromInt(385), "",
		[]filing.ItemInput{
			{Description: "Steel bolts", Quantity: 10, UnitPrice: decimal.NewFromFloat(2.50)},
			{Description: "Copper wire", Quantity: 3, UnitPrice: decimal.NewFromInt(120)},
		})
	require.NoError(t, err)
	return f
}

func TestGormFilingRepository_InsertAndFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	f := newStoredFiling(t)
	require.NoError(t, repo.Insert(ctx, f))

	found, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)

	assert.Equal(t, f.ID, found.ID)
	assert.Equal(t, "SHP-001", found.ShipmentID)
	assert.Equal(t, filing.StatusSubmitted, found.Status)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Steel bolts", found.Items[0].Description)
	assert.Equal(t, int64(10), found.Items[0].Quantity)
	assert.True(t, found.Items[0].UnitPrice.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, found.DeclaredValue.Equal(decimal.NewFromInt(385)))
}

func TestGormFilingRepository_FindByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormFilingRepository_FindAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := newStoredFiling(t)
	require.NoError(t, repo.Insert(ctx, first))

	second, err := filing.NewFiling("SHP-002", "INV-2", "Chennai", decimal.NewFromInt(10), "",
		[]filing.ItemInput{{Description: "Crates", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}})
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, second))

	filings, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, filings, 2)

	// newest submission first
	assert.Equal(t, second.ID, filings[0].ID)
	assert.Equal(t, first.ID, filings[1].ID)
	assert.NotEmpty(t, filings[0].Items)
}

func TestGormFilingRepository_FindAllEmpty(t *testing.T) {
	repo := newTestRepository(t)

	filings, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, filings)
}

func TestGormFilingRepository_Replace(t *testing.T) {
	t.Run("replaces document and removes orphaned items", func(t *testing.T) {
		repo := newTestRepository(t)
		ctx := context.Background()

		f := newStoredFiling(t)
		require.NoError(t, repo.Insert(ctx, f))

		err := f.Update("SHP-099", "INV-099", "Mundra", decimal.NewFromInt(800), "Cleared",
			[]filing.ItemInput{{Description: "Aluminium sheets", Quantity: 4, UnitPrice: decimal.NewFromInt(200)}})
		require.NoError(t, err)
		require.NoError(t, repo.Replace(ctx, f))

		found, err := repo.FindByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "SHP-099", found.ShipmentID)
		assert.Equal(t, "Cleared", found.Status)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Aluminium sheets", found.Items[0].Description)

		// no orphaned rows left behind
		var count int64
		repo.db.Model(&filing.Item{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("preserves submission date column", func(t *testing.T) {
		repo := newTestRepository(t)
		ctx := context.Background()

		f := newStoredFiling(t)
		require.NoError(t, repo.Insert(ctx, f))
		stored, err := repo.FindByID(ctx, f.ID)
		require.NoError(t, err)
		submitted := stored.SubmissionDate

		require.NoError(t, f.Update("SHP-099", "INV-099", "Mundra", decimal.NewFromInt(800), "",
			[]filing.ItemInput{{Description: "Crates", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}}))
		require.NoError(t, repo.Replace(ctx, f))

		found, err := repo.FindByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, submitted.UTC(), found.SubmissionDate.UTC())
	})

	t.Run("missing filing", func(t *testing.T) {
		repo := newTestRepository(t)

		f := newStoredFiling(t)
		err := repo.Replace(context.Background(), f)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormFilingRepository_Remove(t *testing.T) {
	t.Run("removes filing and items", func(t *testing.T) {
		repo := newTestRepository(t)
		ctx := context.Background()

		f := newStoredFiling(t)
		require.NoError(t, repo.Insert(ctx, f))
		require.NoError(t, repo.Remove(ctx, f.ID))

		_, err := repo.FindByID(ctx, f.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		repo.db.Model(&filing.Item{}).Where("filing_id = ?", f.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("missing filing", func(t *testing.T) {
		repo := newTestRepository(t)
		err := repo.Remove(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
