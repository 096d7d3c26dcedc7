// Command seed provisions the default admin and affiliate accounts and prints
// a signed admin token for manual testing.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/affipay/payout-api/internal/auth"
	"github.com/affipay/payout-api/internal/config"
	"github.com/affipay/payout-api/internal/identity"
	"github.com/affipay/payout-api/internal/infra"
	"github.com/affipay/payout-api/internal/logging"
)

const adminEmail = "admin@example.com"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set to seed users")
		os.Exit(1)
	}

	logger := logging.Text(cfg.LogLevel)

	ctx := context.Background()
	if err := infra.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("migrate postgres", "error", err)
		os.Exit(1)
	}
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := identity.NewService(identity.NewPostgresRepository(db))

	seeds := []identity.RegisterInput{
		{Email: adminEmail, Password: "adminpassword123", UserType: identity.UserTypeAdmin},
		{Email: "user@example.com", Password: "userpassword123", UserType: "user"},
	}
	for _, seed := range seeds {
		user, err := users.Register(ctx, seed)
		if err != nil {
			logger.Error("register user", "email", seed.Email, "error", err)
			os.Exit(1)
		}
		logger.Info("user ready", "email", user.Email, "user_type", user.UserType, "id", user.ID)
	}

	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	token, err := codec.Sign(adminEmail, cfg.TokenTTL)
	if err != nil {
		logger.Error("sign token", "error", err)
		os.Exit(1)
	}

	// Decode what was just issued so a broken secret/algorithm pairing is
	// caught here rather than on the first API call.
	claims := codec.DecodeClaims(token)
	if sub, _ := claims["sub"].(string); sub != adminEmail {
		logger.Error("issued token failed verification", "sub", sub)
		os.Exit(1)
	}

	fmt.Printf("admin token: %s\n", token)
}
