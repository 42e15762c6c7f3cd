//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	repo "github.com/onetenth/thanks-point/internal/adapters/repository/postgres"
	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/thanks"
	"github.com/onetenth/thanks-point/internal/platform/config"
	pg "github.com/onetenth/thanks-point/internal/platform/db/postgres"
)

const migrationsDir = "assets/migrations"

func TestThanksFlowIntegration(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	employeeRepo := repo.NewEmployeeRepository(pool)
	thanksRepo := repo.NewThanksRepository(pool)

	clock := stubClock{now: time.Now().UTC()}
	employeeSvc := employee.NewService(employeeRepo, clock, pg.NewTransactionManager(pool))
	thanksSvc := thanks.NewService(thanksRepo, employeeRepo, clock)

	sender, err := employeeSvc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Name:     "山田太郎",
		Email:    "yamada@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}

	recipient, err := employeeSvc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Name:     "佐藤花子",
		Email:    "sato@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}

	if _, err := thanksSvc.SendThanks(ctx, thanks.SendThanksInput{
		FromEmployeeID: sender.ID,
		ToEmployeeID:   recipient.ID,
		Message:        "助かりました",
	}); err != nil {
		t.Fatalf("SendThanks error: %v", err)
	}

	ranked, err := thanksSvc.Ranking(ctx, thanks.Filter{}, thanks.DirectionReceived)
	if err != nil {
		t.Fatalf("Ranking error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked employees, got %d", len(ranked))
	}
	if ranked[0].Employee.ID != recipient.ID || ranked[0].Points != 1 {
		t.Fatalf("unexpected top rank: %+v", ranked[0])
	}

	if err := employeeSvc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: recipient.ID}); err != nil {
		t.Fatalf("DeleteEmployee error: %v", err)
	}

	events, err := thanksRepo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected cascade delete to remove events, got %d", len(events))
	}

	if _, err := employeeRepo.FindByID(ctx, recipient.ID); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
