package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"civicbot/backend/internal/models"
	"civicbot/backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-company":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-company <name> <slug>")
			os.Exit(1)
		}
		company, err := createCompany(storageSvc, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Error creating company: %v", err)
		}
		fmt.Printf("Company %s created with id %s.\n", company.Name, company.ID)
	case "create-user":
		if len(os.Args) < 7 {
			fmt.Println("Usage: admin create-user <company_id> <name> <email> <password> <role>")
			os.Exit(1)
		}
		user, err := createUser(storageSvc, os.Args[2], os.Args[3], os.Args[4], os.Args[5], os.Args[6])
		if err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User %s created with id %s.\n", user.Email, user.ID)
	case "set-role":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-role <user_id> <role>")
			os.Exit(1)
		}
		if err := setRole(storageSvc, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error setting role: %v", err)
		}
		fmt.Printf("User %s role set to %s.\n", os.Args[2], os.Args[3])
	case "deactivate-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate-user <user_id>")
			os.Exit(1)
		}
		if err := deactivateUser(storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %s has been deactivated.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func createCompany(s storage.Storage, name, slug string) (*models.Company, error) {
	company := &models.Company{
		Name:   name,
		Slug:   strings.ToLower(slug),
		Active: true,
	}
	if err := s.SaveCompany(company); err != nil {
		return nil, err
	}
	return company, nil
}

func createUser(s storage.Storage, companyID, name, email, password, role string) (*models.User, error) {
	r := models.Role(role)
	if r != models.RoleSuperAdmin && r != models.RoleAdmin && r != models.RoleStaff {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		CompanyID:    companyID,
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         r,
		Active:       true,
	}
	if err := s.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func setRole(s storage.Storage, userID, role string) error {
	r := models.Role(role)
	if r != models.RoleSuperAdmin && r != models.RoleAdmin && r != models.RoleStaff {
		return fmt.Errorf("invalid role %q", role)
	}
	user, err := s.FindUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = r
	return s.SaveUser(user)
}

func deactivateUser(s storage.Storage, userID string) error {
	user, err := s.FindUserByID(userID)
	if err != nil {
		return err
	}
	user.Active = false
	return s.SaveUser(user)
}
