package offers

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/qtyoffers/pkg/config"
	"github.com/angelmondragon/qtyoffers/pkg/db"
	"github.com/angelmondragon/qtyoffers/pkg/db/models"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/redis"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductQuantityOffer{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

func openTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("connect miniredis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, 0), mr
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, regular string, sale string) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:          fmt.Sprintf("SKU-%s", uuid.NewString()),
		Title:        "Test Product",
		RegularPrice: decimal.RequireFromString(regular),
	}
	if sale != "" {
		product.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(sale))
	}
	created, err := NewRepository(conn).CreateProduct(context.Background(), product)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return created
}

func newTestService(t *testing.T, conn *gorm.DB, cache *Cache) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		DB:     db.NewFromConn(conn, db.DriverSQLite),
		Cache:  cache,
		Logger: logger.Nop(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
