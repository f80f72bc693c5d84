package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/roster/internal/auth"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

var (
	tokenSubject string
	tokenExpiry  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:     "token",
	Short:   "Issue a bearer token naming the auditor of API writes",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}

		token, err := auth.NewTokenManager(cfg.Auth.JWTSecret, tokenExpiry).GenerateToken(tokenSubject)
		if err != nil {
			return fmt.Errorf("generating token: %w", err)
		}
		logger.Info("token issued", pkglogger.RedactedAttr("subject", tokenSubject, cfg.Server.Env))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "principal recorded as created_by/last_modified_by")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}
