package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
	"github.com/insightdelivered/hsbc-statement-converter/internal/parser"
	"github.com/insightdelivered/hsbc-statement-converter/internal/writer"
)

var (
	outputPath string
	combined   bool
	format     string
	workers    int
	timeout    time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.pdf> [input2.pdf ...]",
	Short: "Convert statement PDFs to CSV or XLSX",
	Long: `Convert one or more HSBC statement PDFs.

Without --combined each input gets its own output file, written next to
the input or into the directory given with -o. With --combined all
transactions are merged, sorted by date and written to a single file.

Examples:
  hsbc-statement-converter convert jan.pdf feb.pdf
  hsbc-statement-converter convert *.pdf -o out/ --format xlsx
  hsbc-statement-converter convert *.pdf --combined -o all.csv --workers 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output directory, or output file with --combined")
	convertCmd.Flags().BoolVar(&combined, "combined", false, "Merge all inputs into one output file")
	convertCmd.Flags().StringVarP(&format, "format", "f", writer.FormatCSV, "Output format (csv, xlsx)")
	convertCmd.Flags().IntVar(&workers, "workers", 0, "Number of statements parsed concurrently (default from config)")
	convertCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-statement parse timeout, e.g. 30s (default from config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	out, err := writer.New(format, cfg.Layout.Bank, cfg.Layout.Currency)
	if err != nil {
		return err
	}

	opts := parser.BatchOptions{Workers: cfg.Parser.Workers, Timeout: cfg.Parser.Timeout}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout = timeout
	}

	var outputs []string
	if !combined {
		if outputs, err = outputPaths(args, format); err != nil {
			return err
		}
	}

	p := parser.New(cfg.Layout)
	fmt.Printf("Processing %d file(s) with %d worker(s)\n", len(args), opts.Workers)
	results := p.ParseBatch(cmd.Context(), args, opts)

	failed := 0
	var ok [][]models.Transaction
	for i, result := range results {
		printResult(args[i], result)
		if !result.Success {
			failed++
			continue
		}
		if combined {
			ok = append(ok, result.Transactions)
			continue
		}

		path := outputs[i]
		if err := out.WriteToFile(path, result.Transactions); err != nil {
			return fmt.Errorf("write failed for %s: %w", args[i], err)
		}
		fmt.Printf("  Output: %s\n", path)
	}

	if combined && len(ok) > 0 {
		path := outputPath
		if path == "" {
			path = "combined" + writer.Extension(format)
		}
		if err := writeCombined(out, path, ok); err != nil {
			return err
		}
		fmt.Printf("Combined output: %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	fmt.Println("Done.")
	return nil
}

func printResult(input string, result *models.ParseResult) {
	fmt.Printf("%s\n", input)
	fmt.Printf("  Pages: %d\n", result.PageCount)
	if result.AccountNumber != "" {
		fmt.Printf("  Account number: %s\n", result.AccountNumber)
	}
	if result.SortCode != "" {
		fmt.Printf("  Sort code: %s\n", result.SortCode)
	}
	if s := result.Summary; s != nil && s.StatementStart != nil && s.StatementEnd != nil {
		fmt.Printf("  Period: %s to %s\n", s.StatementStart.Format("2 January 2006"), s.StatementEnd.Format("2 January 2006"))
	}
	fmt.Printf("  Found %d transaction(s)\n", len(result.Transactions))
	if len(result.Transactions) > 0 {
		in, out := result.Totals()
		fmt.Printf("  Paid in: %s%s  Paid out: %s%s\n",
			cfg.Layout.Currency, in.StringFixed(2), cfg.Layout.Currency, out.StringFixed(2))
	}
	for _, w := range result.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", e)
	}
}

// outputFor returns the per-file output path for input.
func outputFor(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + writer.Extension(format)
	if outputPath != "" {
		return filepath.Join(outputPath, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}

// outputPaths returns the per-file output path of every input and fails
// when two inputs would write the same file.
func outputPaths(inputs []string, format string) ([]string, error) {
	paths := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, input := range inputs {
		path := filepath.Clean(outputFor(input, format))
		if prev, ok := seen[path]; ok {
			return nil, fmt.Errorf("%s and %s both write %s; use separate runs or --combined", prev, input, path)
		}
		seen[path] = input
		paths[i] = path
	}
	return paths, nil
}

func writeCombined(out writer.Writer, path string, lists [][]models.Transaction) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := out.WriteCombined(f, lists...); err != nil {
		return fmt.Errorf("combined write failed: %w", err)
	}
	return nil
}
