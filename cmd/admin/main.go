// Command admin manages the admin role from the shell: promote or
// demote a user by id, or list everyone currently holding the role.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"alcove/internal/config"
	"alcove/internal/database"
	"alcove/internal/models"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf(`usage: go run ./cmd/admin/main.go <command>
  promote <user_id>   grant the admin role
  demote <user_id>    revoke the admin role
  list-admins         show current admins`)
}

func run() error {
	if len(os.Args) < 2 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch cmd := os.Args[1]; cmd {
	case "promote":
		return setRole(db, os.Args[2:], models.RoleAdmin)
	case "demote":
		return setRole(db, os.Args[2:], models.RoleSubscriber)
	case "list-admins":
		return listAdmins(db)
	default:
		return usage()
	}
}

func setRole(db *gorm.DB, args []string, role string) error {
	if len(args) < 1 {
		return usage()
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	var user models.User
	if err := db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		return fmt.Errorf("load user %d: %w", id, err)
	}

	if user.Role == role {
		fmt.Printf("%s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return nil
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		return fmt.Errorf("update role for user %d: %w", id, err)
	}

	fmt.Printf("✅ %s (ID: %d) is now %s\n", user.Username, user.ID, role)
	return nil
}

func listAdmins(db *gorm.DB) error {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Order("id").Find(&admins).Error; err != nil {
		return fmt.Errorf("fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Println("no admins found")
		return nil
	}

	fmt.Printf("📋 %d admin(s):\n", len(admins))
	for _, admin := range admins {
		fmt.Printf("  %d  %s  <%s>\n", admin.ID, admin.Username, admin.Email)
	}
	return nil
}
