package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"wrangle/pkg/config"
	"wrangle/pkg/data"
	"wrangle/pkg/logger"
	"wrangle/pkg/pipeline"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	refresh    bool
	out        string

	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "wrangle",
		Short: "Acquire, clean and prepare the mall and zillow datasets",
		Long: `wrangle loads the mall_customers and zillow datasets from a relational
database or a local CSV cache, audits and filters missing values, scores
outliers, and writes train/validate/test partitions scaled on train only.`,
		Example: `  # Prepare the mall partitions, using the cache when present
  $ wrangle mall --out prepared/

  # Re-query the database and clean zillow
  $ wrangle zillow --refresh --out prepared/

  # Missing-value report with a chart and a workbook
  $ wrangle audit zillow --chart missing.png --xlsx zillow.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.BoolVar(&a.refresh, "refresh", false, "Query the database even when a cache file exists")
	flags.StringVarP(&a.out, "out", "o", ".", "Directory for output files")

	root.AddCommand(
		newMallCmd(a),
		newZillowCmd(a),
		newAuditCmd(a),
		newOutliersCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.refresh {
		cfg.Cache.Refresh = true
	}
	l, closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, l, closer
	return nil
}

// source returns the cache-first dataset source described by the config.
func (a *app) source() data.Source {
	return &data.CachedSource{
		Remote:  &databaseSource{cfg: a.cfg.Database},
		Cache:   data.CSVCache{Hints: pipeline.Hints},
		Dir:     a.cfg.Cache.Dir,
		Refresh: a.cfg.Cache.Refresh,
		Logger:  a.log,
	}
}

func (a *app) save(ds *data.Dataset, name string) error {
	path := filepath.Join(a.out, name+".csv")
	if err := (data.CSVCache{}).Save(ds, path); err != nil {
		return err
	}
	a.log.Info("wrote dataset", "path", path, "rows", ds.Len(), "columns", ds.Width())
	return nil
}

// databaseSource connects per dataset: each dataset lives in a database of
// the same name.
type databaseSource struct {
	cfg config.DatabaseConfig
}

func (s *databaseSource) Load(ctx context.Context, name string) (*data.Dataset, error) {
	db, err := sqlx.ConnectContext(ctx, s.cfg.Driver, s.cfg.DataSourceName(name))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}
	defer db.Close()
	return data.NewSQLSource(db, nil, pipeline.Hints).Load(ctx, name)
}
