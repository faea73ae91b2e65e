// Command useradd provisions credential records. It writes directly into
// the durable store the server reads from; the serving path itself never
// creates or mutates accounts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/invoclear/go-extract-server/internal/config"
	"github.com/invoclear/go-extract-server/internal/storage"
	"github.com/invoclear/go-extract-server/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "useradd:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.New()

	var (
		dbPath   = flag.String("db", cfg.GetDatabasePath(), "path to the sqlite database")
		username = flag.String("user", "", "username (required)")
		password = flag.String("password", "", "password (required)")
		roles    = flag.String("roles", "", "comma-separated role tags")
		maxPages = flag.Int("max-pages", 0, "account max pages quota (0 = unset)")
		maxFiles = flag.Int("max-files", 0, "account max files quota (0 = unset)")
		expires  = flag.String("expires", "", "expiry date YYYY-MM-DD (empty = never)")
		disable  = flag.Bool("disable", false, "create the record disabled")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		return fmt.Errorf("-user and -password are required")
	}

	record, err := users.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	credential := &users.Credential{
		Username:     *username,
		PasswordHash: record.Hash,
		Salt:         record.Salt,
		Iterations:   record.Iterations,
		Digest:       record.Digest,
		Quota:        users.Quota{MaxPages: *maxPages, MaxFiles: *maxFiles},
		Status:       users.StatusActive,
		CreatedAt:    time.Now(),
	}
	if *roles != "" {
		credential.Roles = strings.Split(*roles, ",")
	}
	if *expires != "" {
		t, err := time.Parse("2006-01-02", *expires)
		if err != nil {
			return fmt.Errorf("parse -expires: %w", err)
		}
		credential.Expires = &t
	}
	if *disable {
		credential.Status = users.StatusDisabled
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := users.NewSqliteRepo(db).Upsert(ctx, credential); err != nil {
		return err
	}
	fmt.Printf("provisioned %q (status=%s)\n", credential.Username, credential.Status)
	return nil
}
