package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"labsite/internal/model"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Administrative tasks that must run before anyone can sign in to the admin panel.",
	}

	cmd.AddCommand(newAdminBootstrapCmd())

	return cmd
}

// ---------- admin bootstrap ----------

func newAdminBootstrapCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first super admin",
		Long: `Create the site owner account. Every later account is created by approving
an access request, so this only works while no super admin exists.`,
		Example: `  labsite admin bootstrap --email owner@lab.org --name "Lab Owner"
  labsite admin bootstrap --email owner@lab.org --password secret123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
			if password == "" {
				password, err = promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			stores, err := model.InitStores(&cfg)
			if err != nil {
				return fmt.Errorf("initialise stores: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			user, err := bootstrapSuperAdmin(ctx, stores.Repo, email, name, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created super admin %q (id %d)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Super admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func bootstrapSuperAdmin(ctx context.Context, repo model.Repository, email, name, password string) (*entity.DbUser, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %q", email)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.DbUser{
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := model.SeedSuperAdmin(ctx, repo, user); err != nil {
		if errors.Is(err, model.ErrSuperAdminExists) {
			return nil, errors.New("a super admin already exists; approve access requests to add accounts")
		}
		return nil, err
	}
	return user, nil
}

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Fprintln(out)

	if string(pwBytes) != string(confirmBytes) {
		return "", errors.New("passwords do not match")
	}
	return string(pwBytes), nil
}
