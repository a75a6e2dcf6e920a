package main

import (
	"context"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/catalog"
	"github.com/xenking/shopaholics/internal/storage/backend"
)

const defaultStorageURL = "sqlite://shopaholics.db"

// cli carries state shared by all subcommands.
type cli struct {
	root *cobra.Command

	storageURL string
	verbose    bool

	lg      *zap.Logger
	stores  *backend.Stores
	catalog *catalog.Service
	now     func() time.Time
}

func newCLI() *cli {
	c := &cli{now: time.Now}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the Shopaholics product catalog",
		Long: `Manage the Shopaholics product catalog directly in storage.

The storage URL defaults to $SHOP_STORAGE_URL, then $DATABASE_URL, then
` + defaultStorageURL + `.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.open,
	}
	root.PersistentFlags().StringVar(&c.storageURL, "storage-url", envStorageURL(), "storage backend URL")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.importCmd(),
		c.exportCmd(),
		c.listCmd(),
		c.resetCmd(),
	)
	c.root = root
	return c
}

// execute runs the command line and releases storage afterwards, also when
// the subcommand failed.
func (c *cli) execute(ctx context.Context) error {
	defer c.close()
	return c.root.ExecuteContext(ctx)
}

func envStorageURL() string {
	for _, name := range []string{"SHOP_STORAGE_URL", "DATABASE_URL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return defaultStorageURL
}

// open builds the logger, connects to storage and prepares the catalog
// service for the subcommand.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	level := zapcore.WarnLevel
	if c.verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	lg, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	c.lg = lg
	ctx := zctx.Base(cmd.Context(), lg)
	cmd.SetContext(ctx)

	stores, err := backend.Open(ctx, c.storageURL)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	svc, err := catalog.NewService(stores.Products, csvio.NewImporter(), noop.NewMeterProvider().Meter("catalogctl"))
	if err != nil {
		stores.Close()
		return err
	}
	c.stores, c.catalog = stores, svc
	return nil
}

func (c *cli) close() {
	if c.stores != nil {
		c.stores.Close()
		c.stores = nil
	}
	if c.lg != nil {
		_ = c.lg.Sync()
	}
}
