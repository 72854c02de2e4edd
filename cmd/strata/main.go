package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/internal/querylog"
	"github.com/ajitpratap0/strata/pkg/compression"
	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/dataset"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/snapshot"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "strata",
		Short: "Strata - schema-driven columnar dataset engine",
		Long: `Strata stores nested records as flattened columnar datasets and provides
sequential, permuted and sort-and-shuffle iteration over them, plus bounded
streaming collectors for training data pipelines.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Strata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newDemoCmd())
	root.AddCommand(newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a sample query-log dataset and exercise the readers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New("demo")
			if configPath != "" {
				if err := config.Load(configPath, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := logger.Init(logger.Config{
				Level:    cfg.Observability.LogLevel,
				Encoding: "console",
			}); err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			log := logger.Get()

			batch, err := querylog.Record()
			if err != nil {
				return err
			}
			ds := dataset.InitEmpty("query_log", querylog.Schema())
			writer := ds.NewWriter()
			if err := writer.Write(batch); err != nil {
				return err
			}
			if err := writer.Commit(); err != nil {
				return err
			}
			log.Info("dataset populated", zap.Int("rows", ds.RowCount()))

			cursor := ds.NewCursor()
			for {
				hasMore, b, err := cursor.Read(1)
				if err != nil {
					return err
				}
				if !hasMore {
					break
				}
				log.Info("sequential batch", zap.Int("rows", b.Rows()))
			}

			var rng *rand.Rand
			if cfg.Performance.Seed != 0 {
				rng = rand.New(rand.NewSource(cfg.Performance.Seed)) //nolint:gosec
			}
			perm, err := ds.SortAndShuffle("int_lists:lengths", 1, cfg.Performance.ShuffleChunkMultiplier, rng)
			if err != nil {
				return err
			}
			log.Info("sort-and-shuffle permutation", zap.Ints("perm", perm))

			rc, err := ds.NewRandomCursor(perm)
			if err != nil {
				return err
			}
			if err := rc.ComputeOffsets(); err != nil {
				return err
			}
			for {
				hasMore, b, err := rc.Read(1)
				if err != nil {
					return err
				}
				if !hasMore {
					break
				}
				log.Info("shuffled batch", zap.Int("rows", b.Rows()))
			}

			if outPath != "" {
				f, err := os.Create(outPath) //nolint:gosec // G304: path is operator-provided
				if err != nil {
					return err
				}
				defer f.Close() //nolint:errcheck
				opts := snapshot.Options{
					Algorithm: compression.Algorithm(cfg.Snapshot.Algorithm),
					Level:     compression.Level(cfg.Snapshot.Level),
				}
				if err := snapshot.Save(f, ds, opts); err != nil {
					return err
				}
				log.Info("snapshot written", zap.String("path", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a dataset snapshot to this path")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print the schema and row count of a dataset snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) //nolint:gosec // G304: path is operator-provided
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			ds, err := snapshot.Load(f)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := snapshot.ExportJSON(ds)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("Dataset: %s\n", ds.Name())
			fmt.Printf("Rows: %d\n", ds.RowCount())
			fmt.Println("Flattened fields:")
			for _, spec := range ds.Specs() {
				if spec.Width > 1 {
					fmt.Printf("  %-45s %s x%d\n", spec.Path, spec.Kind, spec.Width)
				} else {
					fmt.Printf("  %-45s %s\n", spec.Path, spec.Kind)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "dump the full dataset as JSON")
	return cmd
}
