package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"crewboard/frontend/finance"
	"crewboard/frontend/login"
	"crewboard/frontend/projects"
	"crewboard/frontend/tasks"
	"crewboard/infrastructure/activity"
	"crewboard/infrastructure/cache"
	httpserver "crewboard/infrastructure/http"
	"crewboard/infrastructure/rbac"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "crewboard.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	rbacCache := cache.NewRbacRolesCache()
	rbacSvc := rbac.New(rbacCache)
	hub := watch.NewHub()
	activitySvc := activity.NewService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores := &httpserver.Stores{
		Projects: watch.NewStore(hub, watch.Projects, func(ctx context.Context) ([]models.Project, error) {
			return projects.List(ctx, db)
		}),
		Tasks: watch.NewStore(hub, watch.Tasks, func(ctx context.Context) ([]models.Task, error) {
			return tasks.List(ctx, db)
		}),
		Users: watch.NewStore(hub, watch.Users, func(ctx context.Context) ([]models.User, error) {
			return login.ListUsers(ctx, db)
		}),
		Revenues: watch.NewStore(hub, watch.Revenues, func(ctx context.Context) ([]models.RevenueEntry, error) {
			return finance.ListRevenues(ctx, db)
		}),
		Expenses: watch.NewStore(hub, watch.Expenses, func(ctx context.Context) ([]models.ExpenseEntry, error) {
			return finance.ListExpenses(ctx, db)
		}),
	}
	go stores.Projects.Run(ctx)
	go stores.Tasks.Run(ctx)
	go stores.Users.Run(ctx)
	go stores.Revenues.Run(ctx)
	go stores.Expenses.Run(ctx)

	// Keep display names fresh as users change.
	go func() {
		usersCh, cancelSub := stores.Users.Subscribe()
		defer cancelSub()
		for {
			select {
			case <-ctx.Done():
				return
			case users := <-usersCh:
				userCache.ReplaceAll(users)
			}
		}
	}()

	go finance.NewReconciler(db, hub).Run(ctx)

	server := httpserver.NewServer(addr, db, sessionCache, userCache, rbacSvc, rbacCache, hub, activitySvc, stores)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	slog.Info("crewboard listening", slog.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
