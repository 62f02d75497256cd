package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/app"
	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/provider"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/pkg/cryptox"
	"github.com/aussiebroadwan/authstate/pkg/idx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authstate",
		Short: "authstate service and tooling",
		Long:  "Password login issuing HS512 identity tokens, and per-connection authentication state.",
	}
	root.SilenceUsage = true

	root.AddCommand(serveCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(keygenCmd())
	root.AddCommand(usersCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and inspect identity tokens",
	}

	var username, password string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Log in with the configured provider and print the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			_, issuer, _, err := app.InitTokens(cfg, cliLogger(cfg))
			if err != nil {
				return err
			}

			roles, closeStore, err := openProvider(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			auth := &service.AuthenticationService{Provider: roles, Issuer: issuer}
			token, err := auth.Authenticate(cmd.Context(), domain.Credential{Username: username, Password: password})
			if errors.Is(err, service.ErrInvalidCredentials) {
				return errors.New("incorrect name or password")
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&username, "username", "", "Login name")
	issue.Flags().StringVar(&password, "password", "", "Password")
	_ = issue.MarkFlagRequired("username")
	_ = issue.MarkFlagRequired("password")

	decode := &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Validate a token and print the authentication state it carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			_, _, validator, err := app.InitTokens(cfg, cliLogger(cfg))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(validator.Decode(strings.TrimSpace(args[0])))
		},
	}

	cmd.AddCommand(issue, decode)
	return cmd
}

func keygenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random 512-bit signing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cryptox.GenerateToken(cryptox.TokenSize512)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}
			if err := os.WriteFile(out, []byte(key+"\n"), 0o600); err != nil {
				return fmt.Errorf("write key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signing key written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write the key to this file instead of stdout")
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts for the sqlite provider",
	}

	var (
		username, password, name string
		roles                    []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, pepper, err := app.OpenUserStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			generated := false
			if password == "" {
				if password, err = cryptox.GeneratePassword(); err != nil {
					return err
				}
				generated = true
			}

			hash, err := cryptox.HashPassword(password, pepper)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			err = db.Users().CreateUser(cmd.Context(), domain.User{
				ID:            idx.New().String(),
				Username:      username,
				PreferredName: name,
				PasswordHash:  hash,
				Roles:         domain.Roles(roles),
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("user %q already exists", username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s with roles %v\n", username, roles)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "generated password: %s\n", password)
			}
			return nil
		},
	}
	add.Flags().StringVar(&username, "username", "", "Login name")
	add.Flags().StringVar(&password, "password", "", "Password (generated when empty)")
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().StringArrayVar(&roles, "role", nil, "Role to grant, repeatable")
	_ = add.MarkFlagRequired("username")

	cmd.AddCommand(add, setRolesCmd(), deleteUserCmd())
	return cmd
}

func setRolesCmd() *cobra.Command {
	var (
		username string
		roles    []string
	)
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Replace an account's roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, username, func(users store.Users, u domain.User) error {
				if err := users.SetUserRoles(cmd.Context(), u.ID, domain.Roles(roles)); err != nil {
					return err
				}
				got, err := users.ListUserRoles(cmd.Context(), u.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now has roles %v\n", username, []string(got))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role to grant, repeatable; none clears all roles")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func deleteUserCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, username, func(users store.Users, u domain.User) error {
				if err := users.DeleteUser(cmd.Context(), u.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// withUser opens the user database and looks up username before calling fn.
func withUser(cmd *cobra.Command, username string, fn func(store.Users, domain.User) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	db, _, err := app.OpenUserStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	users := db.Users()
	u, err := users.GetUserByUsername(cmd.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return err
	}
	return fn(users, u)
}

// cliLogger keeps log lines on stderr so command output stays pipeable.
func cliLogger(cfg app.Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "authstate",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
	})
}

// openProvider builds the configured role provider. The returned func
// releases any store it opened.
func openProvider(cfg app.Config) (provider.RoleProvider, func(), error) {
	if cfg.Provider != provider.KindSQLite {
		p, err := provider.New(cfg.Provider, nil, "")
		return p, func() {}, err
	}

	db, pepper, err := app.OpenUserStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	p, err := provider.New(cfg.Provider, db.Users(), pepper)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return p, func() { _ = db.Close() }, nil
}
