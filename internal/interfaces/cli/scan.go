package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/NicheSignal/internal/application/reporting"
	"github.com/turtacn/NicheSignal/internal/application/scanner"
	"github.com/turtacn/NicheSignal/internal/bootstrap"
	"github.com/turtacn/NicheSignal/internal/infrastructure/scraper/reddit"
	"github.com/turtacn/NicheSignal/internal/infrastructure/search/duckduckgo"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// ScanRunner executes one detection run.
type ScanRunner func(ctx context.Context, industry string, limit int) (*scanner.Outcome, error)

// ScanRunnerFactory builds a runner and its cleanup from the CLI context.
type ScanRunnerFactory func(ctx context.Context, cliCtx *CLIContext, industry string) (ScanRunner, func(), error)

// NewScanCmd creates the scan command.
func NewScanCmd(factory ScanRunnerFactory) *cobra.Command {
	var (
		industry string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan public discussions for pain signals in an industry",
		Long:  "Scan discovers candidate threads for the industry, scores each one\nthrough the detection pipeline, broadens the search when too few threads\nare relevant, and writes a markdown report.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx := GetCLIContext(cmd)
			if cliCtx == nil {
				return errors.New(errors.ErrCodeInternal, "cli context not initialized")
			}
			if industry == "" {
				industry = cliCtx.Config.Detection.Industry
			}
			if industry == "" {
				return errors.New(errors.ErrCodeValidation, "industry is required: pass --industry or set detection.industry")
			}
			if limit <= 0 {
				limit = cliCtx.Config.Search.MaxResults
			}

			runner, cleanup, err := factory(cmd.Context(), cliCtx, industry)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := runner(cmd.Context(), industry, limit)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d threads, %d relevant", out.Run.TotalPosts, out.Run.Relevant)
			if out.Run.Broadened {
				fmt.Fprint(cmd.OutOrStdout(), " (after a broadened second round)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", out.Run.ReportPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&industry, "industry", "i", "", "industry to scan (e.g. \"logistics\")")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "max results per search query")
	return cmd
}

// defaultScanRunner wires the production collaborators.
func defaultScanRunner(ctx context.Context, cliCtx *CLIContext, industry string) (ScanRunner, func(), error) {
	cfg := cliCtx.Config

	components, err := bootstrap.Build(ctx, cfg, industry, nil, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}

	searchClient := duckduckgo.NewClient(duckduckgo.Options{
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.Timeout,
	}, cliCtx.Logger)

	scraper := reddit.NewScraper(reddit.Options{
		UserAgent:   cfg.Scraper.UserAgent,
		Delay:       cfg.Scraper.Delay,
		MaxComments: cfg.Scraper.MaxComments,
		Timeout:     cfg.Scraper.Timeout,
	}, cliCtx.Logger)

	reporter := reporting.NewWriter(cfg.Report.OutputDir)

	return func(ctx context.Context, industry string, limit int) (*scanner.Outcome, error) {
		finder := duckduckgo.NewFinder(searchClient, cfg.Search.PainKeywords, limit, nil, cliCtx.Logger)
		s, err := scanner.New(finder, scraper, components.Pipeline, reporter, components.Repo, cliCtx.Logger)
		if err != nil {
			return nil, err
		}
		return s.Run(ctx, industry, limit)
	}, components.Close, nil
}
