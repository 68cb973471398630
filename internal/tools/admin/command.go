package admin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/config"
	"github.com/schoolsuite/institute-admin-api/internal/database"
	"github.com/schoolsuite/institute-admin-api/internal/tools/common"
	"github.com/schoolsuite/institute-admin-api/internal/tools/ui"
)

type options struct {
	envFile string
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "admin", Short: "Database migration and seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newMigrateCommand(opts), newSeedCommand(opts), newCreateSuperuserCommand(opts))
	return cmd
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "admin migrate", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				return []string{"schema migrated"}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "admin migrate", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newSeedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the permission catalogue and starter groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "admin seed", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				report, err := database.Seed(db)
				if err != nil {
					return nil, err
				}
				if report.Noop {
					return []string{"catalogue already seeded, nothing to do"}, nil
				}
				return []string{
					fmt.Sprintf("created %d permissions", report.CreatedPermissions),
					fmt.Sprintf("created %d groups", report.CreatedGroups),
				}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "admin seed", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newCreateSuperuserCommand(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create the bootstrap superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "admin create-superuser", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if email == "" {
					email = cfg.BootstrapAdminEmail
				}
				if password == "" {
					password = cfg.BootstrapAdminPassword
				}
				user, err := database.EnsureSuperAdmin(db, email, password)
				if err != nil {
					return nil, err
				}
				return []string{"superadmin present: " + strings.ToLower(user.Email)}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "admin create-superuser", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "superadmin email (defaults to BOOTSTRAP_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "superadmin password (defaults to BOOTSTRAP_ADMIN_PASSWORD)")
	return cmd
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
