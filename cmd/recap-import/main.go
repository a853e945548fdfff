package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"recap/internal/config"
	"recap/internal/currency"
	"recap/internal/logger"
	"recap/internal/repository"
	"recap/internal/service"
	"recap/internal/upload"

	"github.com/rs/zerolog"
)

const (
	kindTransactions = "transactions"
	kindProducts     = "products"
)

type options struct {
	kind      string
	filePath  string
	commit    bool
	threshold float64
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("config error")
	}
	log := logger.New(cfg.LogLevel)
	if opts.threshold > 0 {
		cfg.FuzzyThreshold = opts.threshold
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store error")
	}
	defer store.Close()

	data, err := os.ReadFile(opts.filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", opts.filePath).Msg("read upload file")
	}

	svc := service.New(store, cfg.FuzzyThreshold, log)
	if err := run(ctx, svc, opts, data, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(
		&opts.kind,
		"kind",
		kindTransactions,
		"what the file holds: transactions or products",
	)
	flag.StringVar(
		&opts.filePath,
		"file",
		"",
		"path to the .csv or .xlsx upload file",
	)
	flag.BoolVar(
		&opts.commit,
		"commit",
		false,
		"insert the valid rows after printing the preview",
	)
	flag.Float64Var(
		&opts.threshold,
		"threshold",
		0,
		"fuzzy match threshold (0 < t <= 1); defaults to FUZZY_THRESHOLD",
	)
	flag.Parse()

	opts.kind = strings.ToLower(strings.TrimSpace(opts.kind))
	if opts.kind != kindTransactions && opts.kind != kindProducts {
		fmt.Fprintf(os.Stderr, "invalid -kind %q (expected transactions or products)\n", opts.kind)
		os.Exit(2)
	}
	if opts.filePath == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		os.Exit(2)
	}
	if opts.threshold < 0 || opts.threshold > 1 {
		fmt.Fprintf(os.Stderr, "invalid -threshold %.2f (expected 0 < t <= 1)\n", opts.threshold)
		os.Exit(2)
	}
	return opts
}

func run(ctx context.Context, svc *service.Service, opts options, data []byte, out io.Writer, log zerolog.Logger) error {
	switch opts.kind {
	case kindProducts:
		preview, err := svc.PreviewProducts(ctx, opts.filePath, data)
		if err != nil {
			return err
		}
		printProducts(out, preview)
		if !opts.commit || preview.Summary.Valid == 0 {
			return nil
		}
		result, err := svc.CommitProducts(ctx, preview.Products)
		if err != nil {
			return fmt.Errorf("commit products (created=%d skipped=%d): %w", len(result.Created), result.Skipped, err)
		}
		fmt.Fprintf(out, "\ncreated %d products, skipped %d\n", len(result.Created), result.Skipped)
		if len(result.Duplicates) > 0 {
			fmt.Fprintf(out, "duplicates: %s\n", strings.Join(result.Duplicates, ", "))
		}

	default:
		preview, err := svc.PreviewTransactions(ctx, opts.filePath, data)
		if err != nil {
			return err
		}
		printTransactions(out, preview)
		if !opts.commit || preview.Summary.Valid == 0 {
			return nil
		}
		created, err := svc.CommitTransactions(ctx, preview.Transactions)
		if err != nil {
			return fmt.Errorf("commit transactions: %w", err)
		}
		fmt.Fprintf(out, "\ncreated %d transactions\n", len(created))
	}

	log.Debug().Str("kind", opts.kind).Bool("commit", opts.commit).Msg("import finished")
	return nil
}

func printTransactions(out io.Writer, preview service.TransactionPreview) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tDATE\tITEM\tCUSTOMER\tSTORE\tPURCHASE\tSTATUS")
	for i, c := range preview.Transactions {
		date := "-"
		if !c.Date.IsZero() {
			date = c.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			date,
			corrected(c.ItemPurchasedOriginal, c.ItemPurchased),
			corrected(c.CustomerNameOriginal, c.CustomerName),
			corrected(c.StoreNameOriginal, c.StoreName),
			currency.FormatRupiah(c.PurchasePrice),
			status(c.IsValid, c.Errors),
		)
	}
	_ = tw.Flush()
	printSummary(out, preview.Summary)
}

func printProducts(out io.Writer, preview service.ProductPreview) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tTYPE\tPRICE\tSTATUS")
	for i, c := range preview.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, c.Name, c.Type, currency.FormatRupiah(c.Price), status(c.IsValid, c.Errors))
	}
	_ = tw.Flush()
	printSummary(out, preview.Summary)
}

func printSummary(out io.Writer, summary upload.Summary) {
	fmt.Fprintf(out, "\n%d rows: %d valid, %d invalid, %d corrected\n",
		summary.Total, summary.Valid, summary.Invalid, summary.Corrected)
}

func corrected(original, matched string) string {
	if upload.IsCorrected(original, matched) {
		return fmt.Sprintf("%s (was %q)", matched, original)
	}
	return matched
}

func status(valid bool, errs []string) string {
	if valid {
		return "ok"
	}
	return strings.Join(errs, "; ")
}
