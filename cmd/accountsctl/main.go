// Command accountsctl bootstraps an administrator account. It connects
// straight to the database, so it works before any admin exists and without
// going through the email activation flow.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "accountsctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dsn, email string
	flag.StringVar(&dsn, "d", "", "database dsn")
	flag.StringVar(&email, "e", "", "admin email")
	flag.Parse()

	if dsn == "" || email == "" {
		return fmt.Errorf("both -d (dsn) and -e (email) are required")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	admin, err := models.NewUser(email, models.GroupAdmin)
	if err != nil {
		return err
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	admin.IsActive = true

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.Users(tx)
		created, err := repo.Create(ctx, admin)
		if err != nil {
			return err
		}
		return repo.SetActive(ctx, created.ID, true)
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	fmt.Printf("admin %s created\n", admin.Email)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
