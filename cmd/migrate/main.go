package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"paulapastas-be/internal/config"
	"paulapastas-be/internal/db"
	"paulapastas-be/internal/migrate"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var openDBFunc = openDB

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", migrate.ModeUp, "migration mode: up or down")
	flag.Parse()

	version, err := run(*mode)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("migrations %s complete, schema version %d", *mode, version)
}

func run(mode string) (uint, error) {
	conn, err := openDBFunc()
	if err != nil {
		return 0, err
	}
	return migrate.Run(conn, mode)
}

// openDB prefers DB_URL and falls back to the DB_* settings the server uses.
func openDB() (*sql.DB, error) {
	if url := os.Getenv("DB_URL"); url != "" {
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect db: %w", err)
		}
		return conn, nil
	}
	return db.NewDatabase(config.LoadConfig())
}
