// Command admintoken mints a JWT for an operator of the admin API.
//
//	admintoken -sub ops@example.com -role analyst -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/microsite-ads/backend/internal/auth"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/rbac"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	cfg := config.Load()

	sub := flag.String("sub", "", "operator id recorded in the audit log")
	role := flag.String("role", rbac.RoleAdmin, "admin or analyst")
	ttl := flag.Duration("ttl", cfg.JWTExpiration, "token lifetime")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -sub <operator> [-role admin|analyst] [-ttl 12h]")
		os.Exit(2)
	}
	if !rbac.IsValidRole(*role) {
		log.Fatal("unknown role", zap.String("role", *role))
	}
	if cfg.JWTSecret == "change-me-in-production" {
		log.Warn("signing with the default JWT_SECRET")
	}

	token, err := auth.GenerateJWT(cfg.JWTSecret, *sub, *role, *ttl)
	if err != nil {
		log.Fatal("failed to sign token", zap.Error(err))
	}

	log.Info("token issued", zap.String("sub", *sub), zap.String("role", *role), zap.Time("expires", time.Now().Add(*ttl)))
	fmt.Println(token)
}
