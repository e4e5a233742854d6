package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/quimipool/quimipool/infrastructure/service/password"
	"github.com/quimipool/quimipool/internal/adapter/persistence"
	"github.com/quimipool/quimipool/internal/domain"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email")
	name := flag.String("name", "", "admin full name")
	pass := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *name == "" || *pass == "" {
		log.Fatal("usage: createadmin -email ... -name ... -password ...")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := password.NewBcryptService(0).Hash(*pass)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	directory := persistence.NewPostgresEmployeeDirectory(db)
	employee := &domain.Employee{
		Email:        *email,
		FullName:     *name,
		Role:         "admin",
		PasswordHash: hash,
		Active:       true,
	}
	if err := directory.Create(ctx, employee); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("created admin %s (%s)\n", employee.FullName, employee.ID)
}
