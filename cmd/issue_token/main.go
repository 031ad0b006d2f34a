package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"transaction_api/internal/domain"
	"transaction_api/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	role := flag.String("role", domain.RoleUser, "caller role: admin, service or user")
	userID := flag.String("user", "", "user id")
	companyID := flag.String("company", "", "company id")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if *userID == "" {
		log.Fatal("-user is required")
	}

	switch *role {
	case domain.RoleAdmin, domain.RoleService, domain.RoleUser:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	token, err := service.NewJWTService(secret).Generate(domain.Identity{
		UserID:    *userID,
		CompanyID: *companyID,
		Role:      *role,
	}, *ttl)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
