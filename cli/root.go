// Package cli provides the Cobra-based CLI for inventory-cli.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockledger/domain"
	"stockledger/inventory"
	"stockledger/reports"
	"stockledger/sales"
	"stockledger/store"
)

// session is the state one invocation works on: the storage backend and the
// managers restored from it.
type session struct {
	v        *viper.Viper
	storage  domain.Storage
	owned    bool
	inv      *inventory.Manager
	ledger   *sales.Manager
	reporter *reports.Reporter
}

func newSession(storage domain.Storage) *session {
	return &session{v: viper.New(), storage: storage}
}

// open builds fresh managers and fills them from storage.
func (s *session) open(ctx context.Context) error {
	s.inv = inventory.NewManager()
	s.ledger = sales.NewManager(s.inv)
	s.reporter = reports.New(s.inv, s.ledger,
		reports.WithLowStockThreshold(s.v.GetInt("low-stock-threshold")))

	products, err := s.storage.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if err := s.inv.Restore(products); err != nil {
		return fmt.Errorf("restore products: %w", err)
	}
	saved, err := s.storage.LoadSales(ctx)
	if err != nil {
		return fmt.Errorf("load sales: %w", err)
	}
	if err := s.ledger.Restore(saved); err != nil {
		return fmt.Errorf("restore sales: %w", err)
	}
	slog.Debug("session opened", "products", len(products), "sales", len(saved))
	return nil
}

// save writes the catalog and the ledger back to storage.
func (s *session) save(ctx context.Context) error {
	if err := s.storage.SaveProducts(ctx, s.inv.List()); err != nil {
		slog.Error("save failed", "what", "products", "error", err)
		return err
	}
	if err := s.storage.SaveSales(ctx, s.ledger.ListSales()); err != nil {
		slog.Error("save failed", "what", "sales", "error", err)
		return err
	}
	return nil
}

func (s *session) close() error {
	if !s.owned {
		return nil
	}
	if c, ok := s.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// storePath picks the location setting that matches the backend kind.
func storePath(v *viper.Viper) string {
	switch strings.ToLower(v.GetString("store")) {
	case "file":
		return v.GetString("data-dir")
	case "sqlite":
		return v.GetString("db-path")
	default:
		return ""
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newRootCmd(sess *session) *cobra.Command {
	v := sess.v
	rootCmd := &cobra.Command{
		Use:           "inventory-cli",
		Short:         "A product inventory and sales ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, sess)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg := v.GetString("config"); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}

			slog.SetDefault(slog.New(
				slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(v.GetString("log-level"))}),
			))

			// allow tests to inject storage
			if sess.storage == nil {
				st, err := store.NewStore(v.GetString("store"), storePath(v))
				if err != nil {
					return err
				}
				sess.storage = st
				sess.owned = true
			}
			return sess.open(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("store", "memory", "store backend: memory|file|sqlite")
	pf.String("data-dir", "data", "directory for the file store")
	pf.String("db-path", "data/inventory.db", "database path for the sqlite store")
	pf.Int("low-stock-threshold", reports.DefaultLowStockThreshold, "stock level below which a product is reported low")
	pf.String("config", "", "config file")
	pf.String("log-level", "info", "log level")

	for _, name := range []string{"store", "data-dir", "db-path", "low-stock-threshold", "config", "log-level"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}
	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(
		newProductCmd(sess),
		newSaleCmd(sess),
		newReportCmd(sess),
		newImportCmd(sess),
		newExportCmd(sess),
		newMenuCmd(sess),
	)
	return rootCmd
}

// execute runs root and releases storage the session opened, whether or not
// the command succeeded.
func (s *session) execute(ctx context.Context, root *cobra.Command) (err error) {
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

// Execute runs the command tree against os.Args.
func Execute() error {
	sess := newSession(nil)
	return sess.execute(context.Background(), newRootCmd(sess))
}
