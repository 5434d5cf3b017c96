// cmd/devtoken/main.go
//
// Mints a bearer token for local development against the configured
// auth.jwt_secret:
//
//	go run ./cmd/devtoken -sub u123 -role admin -ttl 12h
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/config"
	"github.com/yanizio/triomap/internal/vault"
)

func main() {
	sub := flag.String("sub", "dev-user", "token subject (user id)")
	role := flag.String("role", auth.RoleUser, "role claim: user or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	zap.ReplaceGlobals(zap.NewNop())

	if *role != auth.RoleUser && *role != auth.RoleAdmin {
		fmt.Fprintf(os.Stderr, "devtoken: unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.HasSecrets() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		vc, err := vault.New(ctx)
		if err == nil {
			err = cfg.ResolveSecrets(ctx, vc)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "devtoken: resolve secrets: %v\n", err)
			os.Exit(1)
		}
	}

	v := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	tok, err := v.Sign(auth.Principal{UserID: *sub, Role: *role}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: sign: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
