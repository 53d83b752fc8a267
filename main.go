package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-site/api"
	"restaurant-site/bot"
	"restaurant-site/config"
	"restaurant-site/db"
	"restaurant-site/memstore"
	"restaurant-site/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "restaurant-site",
		Short:         "Menu, chef's specials and table reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newCategoryCmd())
	return root
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadConfig reads the configuration and configures the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

// openStore returns the PostgreSQL store, or an empty in-memory one when
// memory is set. closeFn releases the connection pool.
func openStore(ctx context.Context, cfg *config.Config, memory bool) (store services.Store, closeFn func(), err error) {
	if memory {
		log.Warn().Str("action", "store_open").Msg("Using in-memory store, data is lost on exit")
		return memstore.New(), func() {}, nil
	}
	if err := db.Init(ctx, cfg.DB); err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Str("action", "auto_migrate").Msg("Migrations applied")
	}
	return db.NewStore(db.Pool), db.Close, nil
}

func reservationConfig(cfg config.RestaurantConfig) (services.ReservationConfig, error) {
	loc, err := cfg.Location()
	if err != nil {
		return services.ReservationConfig{}, err
	}
	return services.ReservationConfig{
		Capacity: cfg.Capacity,
		Slots:    cfg.Slots,
		Location: loc,
	}, nil
}

func newServeCmd() *cobra.Command {
	var (
		memory bool
		addr   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when TELEGRAM_TOKEN is set, the reservations bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, memory)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep data in memory instead of PostgreSQL")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, memory bool) error {
	store, closeStore, err := openStore(ctx, cfg, memory)
	if err != nil {
		return err
	}
	defer closeStore()

	resCfg, err := reservationConfig(cfg.Restaurant)
	if err != nil {
		return err
	}
	catalog := services.NewCatalog(store)
	reservations := services.NewReservations(store, resCfg)
	server := api.NewServer(cfg.HTTP, catalog, reservations, nil)

	// the bot is built first so a bad token fails before anything is serving
	var adminBot *bot.AdminBot
	if cfg.Telegram.Token != "" {
		if len(cfg.Telegram.AdminIDs) == 0 {
			log.Warn().Str("action", "bot_config").Msg("TELEGRAM_TOKEN set but ADMIN_IDS is empty, the bot will refuse everyone")
		}
		adminBot, err = bot.New(cfg.Telegram, reservations)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })
	if adminBot != nil {
		g.Go(func() error { return adminBot.Start(ctx) })
	}

	log.Info().
		Str("action", "service_started").
		Str("addr", cfg.HTTP.Addr).
		Int("capacity", resCfg.Capacity).
		Int("slots", len(resCfg.Slots)).
		Str("timezone", resCfg.Location.String()).
		Msg("Restaurant site started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Str("action", "graceful_shutdown").Msg("Shutdown complete")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := db.Init(ctx, cfg.DB); err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer db.Close()
			if err := db.Migrate(ctx, db.Pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Str("action", "migrate").Msg("Migrations applied")
			return nil
		},
	}
}
