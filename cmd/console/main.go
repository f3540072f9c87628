package main

import (
	"context"
	"log"
	"os"

	"student-manager/internal/app"
	"student-manager/internal/auth"
	"student-manager/internal/config"
	"student-manager/internal/console"
	"student-manager/internal/db"
	"student-manager/internal/logger"
	"student-manager/internal/student"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	slogLogger := logger.NewWithServiceContext(app.ServiceName, app.Version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database := db.New(cfg.Database)
	defer db.Close(database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database, (*student.Student)(nil), (*auth.User)(nil)); err != nil {
		slogLogger.Error("failed to ensure schema; data access will fail", "error", err)
	}

	studentService := student.NewService(student.NewRepository(database))
	authService := auth.NewService(auth.NewRepository(database))

	c := console.New(studentService, authService, os.Stdin, os.Stdout, slogLogger)
	if err := c.Run(ctx); err != nil {
		log.Fatalf("console session failed: %v", err)
	}
}
