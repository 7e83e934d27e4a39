package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/domain/scheduling"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medbook-server",
		Short: "Hospital appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(doctorsCmd())
	rootCmd.AddCommand(remindersCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrator := func(cmd *cobra.Command) (*db.Migrator, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.MigrationsDir
		}
		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return nil, nil, err
		}
		return db.NewMigrator(pool, dir), pool.Close, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closePool, err := migrator(cmd)
			if err != nil {
				return err
			}
			defer closePool()

			count, err := m.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closePool, err := migrator(cmd)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := m.Status(cmd.Context())
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
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Manage doctor accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			spec, _ := cmd.Flags().GetString("specialization")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("DOCTOR_PASSWORD")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			// no token is issued here, so any key will do
			svc := identity.NewService(
				identity.NewPatientRepo(pool),
				identity.NewDoctorRepo(pool),
				auth.NewPasswordHasher(cfg.BcryptCost),
				auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL),
			)
			d, err := svc.CreateDoctor(ctx, identity.NewDoctor{
				Name:           name,
				Email:          email,
				Specialization: spec,
				Password:       password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created doctor %d: %s <%s> (%s)\n", d.ID, d.Name, d.Email, d.Specialization)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Display name, e.g. \"Dr. Jane Smith\"")
	createCmd.Flags().String("email", "", "Login email")
	createCmd.Flags().String("specialization", "", "Specialization, e.g. Cardiologist")
	createCmd.Flags().String("password", "", "Initial password (or DOCTOR_PASSWORD)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("specialization")

	cmd.AddCommand(createCmd)
	return cmd
}

// defaultReminderDate is the UTC calendar day after now.
func defaultReminderDate(now time.Time) string {
	return now.UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Appointment reminder emails",
	}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Email a reminder for every scheduled appointment on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = defaultReminderDate(time.Now())
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.Env)

			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			// reminders are sent inline, so the queue is never drained
			dispatcher, err := newDispatcher(cfg, logger, notificationQueue(nil, cfg))
			if err != nil {
				return err
			}
			svc := scheduling.NewService(scheduling.NewDirectory(pool), scheduling.NewAppointmentRepo(pool), dispatcher)

			report, err := svc.SendReminders(ctx, date, dispatcher)
			if err != nil {
				return err
			}
			fmt.Printf("Reminders for %s: %d sent, %d failed\n", report.Date, report.Sent, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("%d reminder(s) failed", report.Failed)
			}
			return nil
		},
	}
	sendCmd.Flags().String("date", "", "Appointment date YYYY-MM-DD (default tomorrow)")

	cmd.AddCommand(sendCmd)
	return cmd
}
