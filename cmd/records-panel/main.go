package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ehr/recordspanel/internal/config"
	"github.com/ehr/recordspanel/internal/dashboard"
	"github.com/ehr/recordspanel/internal/domain/account"
	"github.com/ehr/recordspanel/internal/domain/record"
	"github.com/ehr/recordspanel/internal/export"
	"github.com/ehr/recordspanel/internal/platform/auth"
	"github.com/ehr/recordspanel/internal/platform/db"
	"github.com/ehr/recordspanel/internal/tui"
	"github.com/ehr/recordspanel/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "records-panel",
		Short:        "Patient records admin panel",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(signoutCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the panel HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg, newLogger(cfg, os.Stdout))
		},
	}
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			logger := newLogger(cfg, logFile)

			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			model := tui.New(tui.Options{
				Store:   dashboard.NewStore(be.Records, logger),
				Account: account.NewService(be.Registrar, logger),
				Session: sessionLabel(cfg, time.Now()),
				Timeout: cfg.RequestTimeout,
			})
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// sessionLabel names the signed-in employee for the TUI header and flags a
// token that has already expired.
func sessionLabel(cfg *config.Config, now time.Time) string {
	switch {
	case cfg.Backend == config.BackendMemory:
		return "local"
	case cfg.BackendAccessToken == "":
		return "anonymous"
	}
	s, err := auth.DescribeToken(cfg.BackendAccessToken)
	if err != nil {
		return "unknown session"
	}
	if s.Expired(now) {
		return s.Label() + ", session expired"
	}
	return s.Label()
}

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register an employee account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f account.SignupForm
			f.Name, _ = cmd.Flags().GetString("name")
			f.Email, _ = cmd.Flags().GetString("email")
			typ, _ := cmd.Flags().GetString("type")
			f.Type = account.EmployeeType(strings.ToLower(typ))
			f.Birthdate, _ = cmd.Flags().GetString("birthdate")
			f.EmployeeID, _ = cmd.Flags().GetString("employee-id")
			f.Password, _ = cmd.Flags().GetString("password")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			svc := account.NewService(be.Registrar, newLogger(cfg, os.Stderr))
			reg, err := svc.SignUp(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %s (user %s)\n", reg.Email, reg.UserID)
			switch {
			case !reg.SessionStarted:
				fmt.Fprintln(out, "Check your inbox to confirm the account before signing in.")
			case be.Remote != nil && be.Remote.AccessToken() != "":
				fmt.Fprintln(out, "Session started. To use it with the panel:")
				fmt.Fprintf(out, "  export BACKEND_ACCESS_TOKEN=%s\n", be.Remote.AccessToken())
			}
			return nil
		},
	}
	cmd.Flags().String("name", "", "Employee name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("type", "", "Employee type (admin, nurse, doctor, staff)")
	cmd.Flags().String("birthdate", "", "Birthdate")
	cmd.Flags().String("employee-id", "", "Employee ID")
	cmd.Flags().String("password", "", "Password")
	return cmd
}

func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the session named by BACKEND_ACCESS_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			svc := account.NewService(be.Registrar, newLogger(cfg, os.Stderr))
			if err := svc.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all patient records to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			store := dashboard.NewStore(be.Records, newLogger(cfg, os.Stderr))
			if err := store.ListAll(cmd.Context()); err != nil {
				return err
			}
			data, err := export.Records(store.Records())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(store.Records()), path)
			return nil
		},
	}
	cmd.Flags().String("out", "patient_records.xlsx", "Output file")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Insert records from a YAML seed file or a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			drafts, err := readDrafts(path)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			n, err := importDrafts(cmd.Context(), be.Records, drafts)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d record(s)\n", n, len(drafts))
			return err
		},
	}
	cmd.Flags().String("file", "", "Path to a .yaml, .yml or .xlsx file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readDrafts decodes an import file, picking the format by extension.
func readDrafts(path string) ([]record.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return record.LoadDrafts(f)
	case ".xlsx":
		return export.ReadDrafts(f)
	}
	return nil, fmt.Errorf("unsupported import file %q: want .yaml, .yml or .xlsx", path)
}

// importDrafts inserts drafts in order and stops at the first failure.
func importDrafts(ctx context.Context, coll record.Collection, drafts []record.Draft) (int, error) {
	for i, d := range drafts {
		if err := coll.Insert(ctx, d); err != nil {
			return i, fmt.Errorf("insert record %d (%s): %w", i+1, d.PatientName, err)
		}
	}
	return len(drafts), nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (postgres backend)",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			migrator, closeFn, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Migrations directory (defaults to the embedded set)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			migrator, closeFn, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Migrations directory (defaults to the embedded set)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func openMigrator(ctx context.Context, dir string) (*db.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, db.PoolOptions{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, nil, err
	}

	var files fs.FS = migrations.FS
	if dir != "" {
		files = os.DirFS(dir)
	}
	return db.NewMigrator(pool, files), pool.Close, nil
}
