package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/postgres"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL migrations",
	Long:  "Applies pending migrations to the database in DATABASE_URL, optionally seeding demo users into an empty users table.",
	RunE:  runMigrate,
}

var (
	migrateStatusOnly bool
	migrateSeed       bool
)

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatusOnly, "status", false, "Print migration status without applying anything")
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Insert demo users when the users table is empty")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.UsesDatabase() {
		return errors.New("DATABASE_URL is required for migrate")
	}

	conn, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn)
	if !migrateStatusOnly {
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if migrateSeed {
			if err := seedUsers(ctx, postgres.NewUserRepository(conn), log); err != nil {
				return err
			}
		}
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	applied := 0
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, m := range status {
		at := "pending"
		if m.IsApplied {
			applied++
			at = m.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%03d\t%s\t%s\n", m.Version, m.Name, at)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	log.Info("migrations completed", logger.Int("applied", applied), logger.Int("total", len(status)))
	return nil
}
