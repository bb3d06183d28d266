// Package main provides admin management utilities for Outfitted.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"outfitted/internal/bootstrap"
	"outfitted/internal/config"
	"outfitted/internal/database"
	"outfitted/internal/models"
	"outfitted/internal/repository"

	"gorm.io/gorm"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  go run ./cmd/admin ensure               - Create or promote the configured admin")
	fmt.Fprintln(w, "  go run ./cmd/admin promote <user_id>    - Promote user to admin")
	fmt.Fprintln(w, "  go run ./cmd/admin demote <user_id>     - Demote user from admin")
	fmt.Fprintln(w, "  go run ./cmd/admin list-admins          - List all admins")
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := run(context.Background(), db, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string, out io.Writer) error {
	users := repository.NewUserRepository(db)

	switch args[0] {
	case "ensure":
		admin, err := bootstrap.EnsureAdmin(ctx, db, bootstrap.AdminAccount{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		fmt.Fprintf(out, "Admin %s (ID: %d) is in place\n", admin.Username, admin.ID)
		return nil

	case "promote", "demote":
		if len(args) < 2 {
			return fmt.Errorf("usage: go run ./cmd/admin %s <user_id>", args[0])
		}
		id, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[1])
		}
		return setAdmin(ctx, users, uint(id), args[0] == "promote", out)

	case "list-admins":
		return listAdmins(ctx, users, out)

	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func setAdmin(ctx context.Context, users repository.UserRepository, id uint, admin bool, out io.Writer) error {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return fmt.Errorf("user with ID %d not found", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	verb := "promoted to"
	if !admin {
		verb = "demoted from"
	}

	if user.IsAdmin == admin {
		if admin {
			fmt.Fprintf(out, "User %s (ID: %d) is already an admin\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(out, "User %s (ID: %d) is not an admin\n", user.Username, user.ID)
		}
		return nil
	}

	user.IsAdmin = admin
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	fmt.Fprintf(out, "Successfully %s admin: %s (ID: %d)\n", verb, user.Username, user.ID)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository, out io.Writer) error {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Fprintln(out, "No admins found in the system")
		return nil
	}

	fmt.Fprintln(out, "Current Admins:")
	for _, admin := range admins {
		fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
	return nil
}
