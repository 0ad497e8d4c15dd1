package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/lumalink/lumalink/config"
	"github.com/lumalink/lumalink/pkg/helpers"
)

// Seeds a local admin account with an active profile. Development only; the
// password is printed to stdout.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@lumalink.local"
	username := "lumalink-admin"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO accounts (email, username, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_admin = TRUE
		RETURNING id
	`, email, username, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	fmt.Printf("seeded admin account: id=%s email=%s username=%s password=%s\n", id, email, username, password)

	if _, err := db.Exec(`
		INSERT INTO profiles (account_id, display_name, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (account_id) DO NOTHING
	`, id, "LumaLink Admin"); err != nil {
		log.Fatalf("failed to seed admin profile: %v", err)
	}
	fmt.Println("admin profile ensured")
}
