// Package token implements `licenser token`, minting admin API bearer tokens.
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/infrastructure/auth"
	"github.com/orris-inc/licenser/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/licenser/internal/shared/authorization"
)

var (
	env        string
	configPath string
	subject    string
	role       string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token",
		Long:  `Sign a bearer token for the admin API with the configured JWT secret.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&subject, "subject", "", "Name recorded in admin audit logs (required)")
	cmd.Flags().StringVar(&role, "role", authorization.RoleSupport.String(), "Role: admin or support")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.jwt.access_exp_minutes)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	r := authorization.Role(role)
	if !r.IsValid() {
		return fmt.Errorf("unknown role %q, expected admin or support", role)
	}

	cfg, _, err := bootstrap.Init(bootstrap.Options{Env: env, ConfigPath: configPath, SkipDatabase: true})
	if err != nil {
		return err
	}

	lifetime := ttl
	if lifetime <= 0 {
		lifetime = time.Duration(cfg.Auth.JWT.AccessExpMinutes) * time.Minute
	}

	jwtService, err := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	if err != nil {
		return err
	}
	signed, err := jwtService.Generate(subject, r, lifetime)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
