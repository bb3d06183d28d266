// Command migrate applies the database schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"outfitted/internal/config"
	"outfitted/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect migrates on its own outside production.
	db, err := database.Open(database.Dialector(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Ping(ctx, db); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
		log.Println("schema migrated")
	case "status":
		migrator := db.WithContext(ctx).Migrator()
		for _, model := range database.PersistentModels() {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err != nil {
				return fmt.Errorf("parse model: %w", err)
			}
			log.Printf("table %-12s %s", stmt.Schema.Table, presence(migrator.HasTable(model)))
		}
		log.Printf("table %-12s %s", "outfit_items", presence(migrator.HasTable("outfit_items")))
	default:
		return usage()
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
