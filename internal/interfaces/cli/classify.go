package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/NicheSignal/internal/bootstrap"
	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// PostScorer scores one post end to end.
type PostScorer func(ctx context.Context, p post.Post) (*post.ScoredPost, error)

// PostScorerFactory builds a scorer and its cleanup from the CLI context.
type PostScorerFactory func(ctx context.Context, cliCtx *CLIContext, industry string) (PostScorer, func(), error)

// NewClassifyCmd creates the classify command, a one-shot scoring of local
// text without any search or scraping.
func NewClassifyCmd(factory PostScorerFactory) *cobra.Command {
	var (
		industry string
		file     string
		text     string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Score a single piece of text through the detection pipeline",
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

			body, err := readInput(file, text)
			if err != nil {
				return err
			}

			scorer, cleanup, err := factory(cmd.Context(), cliCtx, industry)
			if err != nil {
				return err
			}
			defer cleanup()

			p := buildPost(body, file)
			scored, err := scorer(cmd.Context(), p)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scored)
		},
	}

	cmd.Flags().StringVarP(&industry, "industry", "i", "", "industry context for the classifier")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the text from a file")
	cmd.Flags().StringVarP(&text, "text", "t", "", "score this literal text")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	return cmd
}

func readInput(file, text string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeValidation, "failed to read input file")
		}
		return string(data), nil
	}
	return "", errors.New(errors.ErrCodeValidation, "one of --file or --text is required")
}

// buildPost treats the first line as the title when the input has several
// lines, mirroring how a scraped thread splits into title and body.
func buildPost(body, source string) post.Post {
	body = strings.TrimSpace(body)
	title := body
	rest := ""
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		title = strings.TrimSpace(body[:i])
		rest = strings.TrimSpace(body[i+1:])
	}
	return post.Post{Title: title, Body: rest, URL: source}
}

// defaultPostScorer wires the production pipeline.
func defaultPostScorer(ctx context.Context, cliCtx *CLIContext, industry string) (PostScorer, func(), error) {
	components, err := bootstrap.Build(ctx, cliCtx.Config, industry, nil, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	return components.Pipeline.ScorePost, components.Close, nil
}
