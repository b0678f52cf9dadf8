// Ops CLI for account management: provisioning administrators, resetting
// passwords and deleting residents without going through the API.
package main

import (
	"fmt"
	"log"
	"os"

	"aptcare/backend/internal/auth"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/models"
	"aptcare/backend/internal/storage"
	"aptcare/backend/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	// No redis here: token revocation is skipped for CLI-driven changes.
	store := storage.NewService(db, nil, logger.New(cfg.Env))

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-admin <name> <email> <password>")
			os.Exit(1)
		}
		if err := createAdmin(store, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Administrator %s created.\n", os.Args[3])

	case "reset-password":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin reset-password <email> <new_password>")
			os.Exit(1)
		}
		if err := resetPassword(store, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error resetting password: %v", err)
		}
		fmt.Printf("Password for %s has been reset.\n", os.Args[2])

	case "delete-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-user <email>")
			os.Exit(1)
		}
		removed, err := deleteUser(store, os.Args[2])
		if err != nil {
			log.Fatalf("Error deleting user: %v", err)
		}
		fmt.Printf("User %s deleted along with %d complaint(s).\n", os.Args[2], removed)

	case "list-users":
		users, err := store.ListResidents()
		if err != nil {
			log.Fatalf("Error listing users: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%s  %-30s door %-6s %s\n", u.ID, u.Email, u.DoorNumber, u.Name)
		}

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <create-admin|reset-password|delete-user|list-users> [args]")
	os.Exit(1)
}

func createAdmin(store storage.Storage, name, email, password string) error {
	if len(password) < config.MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", config.MinPasswordLen)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return store.CreateUser(&models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
}

func resetPassword(store storage.Storage, email, password string) error {
	if len(password) < config.MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", config.MinPasswordLen)
	}
	user, err := store.GetUserByEmail(email)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return store.UpdateUser(user)
}

func deleteUser(store storage.Storage, email string) (int64, error) {
	user, err := store.GetUserByEmail(email)
	if err != nil {
		return 0, err
	}
	if user.IsAdmin() {
		return 0, fmt.Errorf("refusing to delete an administrator account")
	}
	return store.DeleteUserCascade(user.ID)
}
