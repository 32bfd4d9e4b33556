package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hsbc-statement-converter",
	Short: "Convert HSBC UK statement PDFs to CSV",
	Long: `HSBC Statement Converter extracts transactions from HSBC UK personal
account statement PDFs and writes them as CSV or XLSX.

Examples:
  # Convert one statement, output next to the input
  hsbc-statement-converter convert statement.pdf

  # Convert a year of statements into one combined file
  hsbc-statement-converter convert *.pdf --combined -o 2024.csv

  # Start the HTTP API
  hsbc-statement-converter serve --addr :8080`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file (built-in HSBC layout if omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() error {
	log.SetHeader("${time_rfc3339} ${level}")
	if verbose {
		log.SetLevel(log.DEBUG)
	} else {
		log.SetLevel(log.INFO)
	}

	if cfgFile == "" {
		cfg = config.Default()
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log.Debugf("[Config] loaded %s", cfgFile)
	cfg = loaded
	return nil
}
