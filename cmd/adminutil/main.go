package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/config"
	"github.com/sudo-init-do/workhub/internal/db"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/store"
	"github.com/sudo-init-do/workhub/internal/wallet"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "adminutil",
	Short:         "Operational commands for the workhub database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		log = logging.New(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.Migrate(cfg.DSN(), log)
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote-admin",
	Short: "Grant the admin role to an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.New("--email is required")
		}
		return withStore(cmd.Context(), func(st domain.Store) error {
			svc := auth.NewService(st, nil, nil, log, 0)
			if err := svc.PromoteAdmin(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Printf("User %s promoted to admin.\n", email)
			return nil
		})
	},
}

type seedUser struct {
	first, last, email, phone string
	balance                   int64
	rating                    float64
}

var seedUsers = []seedUser{
	{"Alice", "Employer", "alice@example.com", "+10000000001", 1500, 4.5},
	{"Bob", "Worker", "bob@example.com", "+10000000002", 500, 4.5},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo accounts with a starting balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		ctx := cmd.Context()
		return withStore(ctx, func(st domain.Store) error {
			accounts := auth.NewService(st, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL), nil, log, 0)
			wallets := wallet.NewService(st, log)
			for _, su := range seedUsers {
				sess, err := accounts.Register(ctx, auth.RegisterInput{
					FirstName: su.first,
					LastName:  su.last,
					Email:     su.email,
					Phone:     su.phone,
					Password:  password,
				})
				if errors.Is(err, domain.ErrConflict) {
					log.WithField("email", su.email).Info("seed user exists, skipping")
					continue
				}
				if err != nil {
					return err
				}
				if _, err := wallets.Replenish(ctx, sess.User.ID, su.balance); err != nil {
					return err
				}
				rating := su.rating
				err = st.Tx(ctx, func(q domain.Queries) error {
					return q.SetUserRating(ctx, sess.User.ID, &rating)
				})
				if err != nil {
					return err
				}
				fmt.Printf("seeded %s (balance %d)\n", su.email, su.balance)
			}
			return nil
		})
	},
}

func withStore(ctx context.Context, fn func(st domain.Store) error) error {
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func init() {
	promoteCmd.Flags().String("email", "", "email of the user to promote")
	seedCmd.Flags().String("password", "password", "password for every seeded account")
	rootCmd.AddCommand(migrateCmd, promoteCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
