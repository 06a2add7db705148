package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/nsdigital/agency-api/config"
	"github.com/nsdigital/agency-api/pkg/helpers"
)

// Seeds the first administrator account. Registration always creates USER
// accounts, so this is the only way to bootstrap an admin.
func main() {
	email := flag.String("email", "admin@agency.local", "admin email")
	password := flag.String("password", "changeme1", "admin password")
	name := flag.String("name", "Administrator", "admin display name")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, 'ADMIN')
		ON CONFLICT (email) DO UPDATE SET role = 'ADMIN', updated_at = now()
		RETURNING id
	`, *email, hash, *name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", id, *email)
}
