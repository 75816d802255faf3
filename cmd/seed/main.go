// Command seed creates the admin profile and, when a product file is given,
// imports the catalog.
//
//	go run ./cmd/seed [products.csv | https://host/products.csv]
//
// The product source falls back to SEED_PRODUCTS.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"

	"etshoes/internal/config"
	"etshoes/internal/db"
	"etshoes/internal/logger"
	"etshoes/internal/repository"
	"etshoes/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zap.L().Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	seedService := service.NewSeedService(
		repository.NewProfileRepository(gormDB),
		repository.NewProductRepository(gormDB),
		repository.NewVariantRepository(gormDB),
	)
	ctx := context.Background()

	if cfg.AdminEmail != "" {
		created, err := seedService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			zap.L().Fatal("seed admin", zap.Error(err))
		}
		zap.L().Info("admin profile", zap.String("email", cfg.AdminEmail), zap.Bool("created", created))
	} else {
		zap.L().Info("ADMIN_EMAIL not set, skipping admin profile")
	}

	source := cfg.SeedProducts
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	if source == "" {
		zap.L().Info("no product source given, catalog left as is")
		return
	}

	r, err := openSource(ctx, source)
	if err != nil {
		zap.L().Fatal("open product source", zap.String("source", source), zap.Error(err))
	}
	defer r.Close()

	result, err := seedService.ImportProducts(ctx, r)
	if err != nil {
		zap.L().Fatal("import products", zap.Error(err))
	}
	zap.L().Info("seed completed",
		zap.Int("products_created", result.Products),
		zap.Int("variants_created", result.Variants),
		zap.Int("products_existing", result.Existing),
		zap.Int("rows_skipped", result.Skipped),
	)
}

// openSource reads a local file, or downloads the CSV when source is a URL.
func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	var (
		body []byte
		code int
	)
	err := gout.GET(source).
		WithContext(ctx).
		SetTimeout(30 * time.Second).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status code: %d", code)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
