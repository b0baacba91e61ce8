package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/feedview/internal/rankcheck"
	"github.com/okian/feedview/pkg/logger"
)

// Default configuration constants.
const (
	defaultTop     = 20
	defaultTimeout = 10 * time.Second
	runTimeout     = 5 * time.Minute
)

func main() {
	var (
		src      = flag.String("source", "data/instagram_data.json", "Posts collection path or URL")
		order    = flag.String("order", "algorithm", "Ordering to print, or all")
		top      = flag.Int("top", defaultTop, "Rows to print per ordering, 0 for all")
		baseURL  = flag.String("url", "", "Base URL of a running service to verify")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		generate = flag.Int("generate", 0, "Write this many synthetic posts to -source first")
		verbose  = flag.Bool("verbose", false, "Print score statistics")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rankcheck.ShowHelp()
		return
	}

	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	config := &rankcheck.Config{
		Source:   *src,
		Order:    *order,
		Top:      *top,
		BaseURL:  *baseURL,
		Timeout:  *timeout,
		Generate: *generate,
		Verbose:  *verbose,
		Out:      os.Stdout,
	}

	if _, err := rankcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Rank check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
