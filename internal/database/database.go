package database

import (
	"fmt"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"log"
	"os"
)

var DB (*sqlx.DB)

func dsnFromEnv() string {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "prefer"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func InitDB() {
	var err error
	DB, err = sqlx.Connect("postgres", dsnFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	DB = DB.Unsafe()

	if err := DB.Ping(); err != nil {
		log.Fatal(err)
	}
	log.Println("Successfully connected to database.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("error applying schema: %v", err)
	}
	log.Println("Schema up to date.")
}

// Migrate applies the idempotent DDL. Safe to run on every boot.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(Schema)
	return err
}
