// Command roaming-token issues bearer tokens for the state-changing verbs of roaming-api.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chargenet/backend/services/roaming-api/internal/auth"
	"chargenet/backend/services/roaming-api/internal/config"
)

func main() {
	subject := flag.String("sub", "", "subject of the token, usually an operator or provider id")
	role := flag.String("role", "operator", "informational role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt secret is not configured (ROAMING_JWT_SECRET)")
		os.Exit(1)
	}

	token, err := auth.NewTokenService(cfg.JWT.Secret, *ttl).GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
