package repositories_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hwcatalog/internal/models"
	"hwcatalog/internal/repositories"
)

type cpuRepoFactory func(t *testing.T) repositories.ProductRepository[models.CPU]

func newSQLiteCPURepo(t *testing.T) repositories.ProductRepository[models.CPU] {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.CPU{}))
	return repositories.NewGORMProductRepository[models.CPU](db, models.CPUSchema)
}

func newMemoryCPURepo(t *testing.T) repositories.ProductRepository[models.CPU] {
	return repositories.NewMemoryProductRepository[models.CPU](models.CPUSchema)
}

func newCPU(id int, name, price string, stock int) *models.CPU {
	return &models.CPU{
		Base: models.Base{
			UUID:        uuid.New(),
			ID:          id,
			Name:        name,
			Brand:       "AMD",
			Price:       decimal.RequireFromString(price),
			Description: "desktop processor",
			Available:   true,
			StockAmount: stock,
			Category:    models.CPUSchema.Name,
		},
		Socket:     "AM5",
		Cores:      8,
		Threads:    16,
		ClockSpeed: 4.2,
	}
}

func seedCPUs(t *testing.T, repo repositories.ProductRepository[models.CPU], n int) []*models.CPU {
	t.Helper()
	cpus := make([]*models.CPU, 0, n)
	for i := 1; i <= n; i++ {
		cpu := newCPU(i, fmt.Sprintf("Ryzen %02d", i), fmt.Sprintf("%d.99", 100+(i*37)%50), i)
		require.NoError(t, repo.Create(context.Background(), cpu))
		cpus = append(cpus, cpu)
	}
	return cpus
}

func TestProductRepositories(t *testing.T) {
	factories := map[string]cpuRepoFactory{
		"gorm-sqlite": newSQLiteCPURepo,
		"memory":      newMemoryCPURepo,
	}
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			runRepositoryContract(t, factory)
		})
	}
}

func runRepositoryContract(t *testing.T, newRepo cpuRepoFactory) {
	ctx := context.Background()

	t.Run("FindAll pages by id ascending", func(t *testing.T) {
		repo := newRepo(t)
		seedCPUs(t, repo, 15)

		page, err := repo.FindAll(ctx, repositories.ListQuery{Offset: 10, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page, 5)
		for i, cpu := range page {
			assert.Equal(t, 11+i, cpu.ID)
		}
	})

	t.Run("FindAll sorts by field then id", func(t *testing.T) {
		repo := newRepo(t)
		seedCPUs(t, repo, 6)
		field, ok := models.CPUSchema.Field("price")
		require.True(t, ok)

		page, err := repo.FindAll(ctx, repositories.ListQuery{Limit: 10, Sort: field, Descending: true})
		require.NoError(t, err)
		require.Len(t, page, 6)
		for i := 1; i < len(page); i++ {
			assert.GreaterOrEqual(t, page[i-1].Price.Cmp(page[i].Price), 0, "prices must be descending")
		}
	})

	t.Run("FindAll past the end is empty", func(t *testing.T) {
		repo := newRepo(t)
		seedCPUs(t, repo, 3)

		page, err := repo.FindAll(ctx, repositories.ListQuery{Offset: 10, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("GetByUUID", func(t *testing.T) {
		repo := newRepo(t)
		cpus := seedCPUs(t, repo, 2)

		got, err := repo.GetByUUID(ctx, cpus[1].UUID)
		require.NoError(t, err)
		assert.Equal(t, cpus[1].Name, got.Name)
		assert.Equal(t, 2, got.ID)
		assert.Equal(t, "AM5", got.Socket)
		assert.True(t, cpus[1].Price.Equal(got.Price))

		_, err = repo.GetByUUID(ctx, uuid.New())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("MaxID", func(t *testing.T) {
		repo := newRepo(t)
		maxID, err := repo.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, maxID)

		seedCPUs(t, repo, 4)
		maxID, err = repo.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, maxID)
	})

	t.Run("Create rejects a duplicate id", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newCPU(7, "first", "10.00", 1)))
		assert.Error(t, repo.Create(ctx, newCPU(7, "second", "10.00", 1)))
	})

	t.Run("Update overwrites mutable fields only", func(t *testing.T) {
		repo := newRepo(t)
		cpus := seedCPUs(t, repo, 1)

		replacement := newCPU(99, "Ryzen 9 9950X", "649.00", 0)
		replacement.UUID = cpus[0].UUID
		replacement.Category = "GPU"
		replacement.Available = false
		replacement.Cores = 16
		require.NoError(t, repo.Update(ctx, replacement))

		got, err := repo.GetByUUID(ctx, cpus[0].UUID)
		require.NoError(t, err)
		assert.Equal(t, "Ryzen 9 9950X", got.Name)
		assert.Equal(t, 16, got.Cores)
		assert.False(t, got.Available)
		assert.Equal(t, 0, got.StockAmount)
		assert.Equal(t, 1, got.ID, "id is not reassignable")
		assert.Equal(t, models.CPUSchema.Name, got.Category, "category never changes")
		assert.Equal(t, 1, replacement.ID, "stored id is written back")

		missing := newCPU(5, "ghost", "1.00", 1)
		assert.ErrorIs(t, repo.Update(ctx, missing), repositories.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		cpus := seedCPUs(t, repo, 1)

		require.NoError(t, repo.Delete(ctx, cpus[0].UUID))
		_, err := repo.GetByUUID(ctx, cpus[0].UUID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, cpus[0].UUID), repositories.ErrNotFound)
	})

	t.Run("SetStock and SetPrice", func(t *testing.T) {
		repo := newRepo(t)
		cpus := seedCPUs(t, repo, 1)

		require.NoError(t, repo.SetStock(ctx, cpus[0].UUID, 42))
		require.NoError(t, repo.SetPrice(ctx, cpus[0].UUID, decimal.RequireFromString("0.01")))

		got, err := repo.GetByUUID(ctx, cpus[0].UUID)
		require.NoError(t, err)
		assert.Equal(t, 42, got.StockAmount)
		assert.True(t, decimal.RequireFromString("0.01").Equal(got.Price), "got %s", got.Price)

		assert.ErrorIs(t, repo.SetStock(ctx, uuid.New(), 1), repositories.ErrNotFound)
		assert.ErrorIs(t, repo.SetPrice(ctx, uuid.New(), decimal.NewFromInt(1)), repositories.ErrNotFound)
	})

	t.Run("AdjustStock rejects negative results", func(t *testing.T) {
		repo := newRepo(t)
		cpu := newCPU(1, "Ryzen 5", "199.00", 3)
		require.NoError(t, repo.Create(ctx, cpu))

		stock, err := repo.AdjustStock(ctx, cpu.UUID, -5)
		assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
		assert.Equal(t, 3, stock)

		stock, err = repo.AdjustStock(ctx, cpu.UUID, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, stock)

		stock, err = repo.AdjustStock(ctx, cpu.UUID, -5)
		require.NoError(t, err)
		assert.Equal(t, 0, stock)

		_, err = repo.AdjustStock(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("AdjustStock rejects overflow", func(t *testing.T) {
		repo := newRepo(t)
		cpu := newCPU(1, "Ryzen 5", "199.00", 5)
		require.NoError(t, repo.Create(ctx, cpu))

		stock, err := repo.AdjustStock(ctx, cpu.UUID, math.MaxInt)
		assert.ErrorIs(t, err, repositories.ErrStockOverflow)
		assert.Equal(t, 5, stock)

		stock, err = repo.AdjustStock(ctx, cpu.UUID, math.MaxInt-5)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, stock)

		stock, err = repo.AdjustStock(ctx, cpu.UUID, math.MinInt)
		assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
		assert.Equal(t, math.MaxInt, stock)
	})

	t.Run("AdjustStock concurrent decrements never go negative", func(t *testing.T) {
		repo := newRepo(t)
		cpu := newCPU(1, "Ryzen 7", "299.00", 10)
		require.NoError(t, repo.Create(ctx, cpu))

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.AdjustStock(ctx, cpu.UUID, -1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		got, err := repo.GetByUUID(ctx, cpu.UUID)
		require.NoError(t, err)
		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 0, got.StockAmount)
	})

	t.Run("GetAll returns every record by id", func(t *testing.T) {
		repo := newRepo(t)
		seedCPUs(t, repo, 12)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 12)
		assert.Equal(t, 1, all[0].ID)
		assert.Equal(t, 12, all[11].ID)
	})
}
