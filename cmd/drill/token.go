package main

import (
	"fmt"

	"github.com/phrazzld/lexicon/internal/config"
	"github.com/phrazzld/lexicon/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for a learner (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := parseOwner(ownerFlag)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("auth.jwt_secret must be configured: %w", err)
			}
			token, err := jwtService.GenerateToken(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "learner ID (UUID)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
