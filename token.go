package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		operator string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the protected API routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Envs.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			tokenizer := token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
			t, err := tokenizer.Generate(map[string]interface{}{"operator": operator}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "admin", "operator name stored in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
