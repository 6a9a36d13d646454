package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/spec-kit/submission-service/internal/auth"
	"github.com/spec-kit/submission-service/internal/config"
	"github.com/spec-kit/submission-service/internal/domain"
)

// gen-token mints a bearer token accepted by the service in AUTH_MODE=jwt.
func main() {
	var (
		role   = flag.String("role", string(domain.RoleUser), "role claim, e.g. ROLE_USER or ROLE_ADMIN")
		bearer = flag.Bool("bearer", false, "prefix the token with \"Bearer \"")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		log.Fatal("usage: gen-token [-role ROLE_ADMIN] [-bearer] <user-id>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	token, _, err := tokens.GenerateToken(args[0], domain.Role(*role))
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	if *bearer {
		fmt.Print("Bearer ")
	}
	fmt.Print(token)
}
