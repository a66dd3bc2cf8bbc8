package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/internal/application/scanner"
	"github.com/turtacn/NicheSignal/internal/config"
	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/domain/scan"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

func testCLIContext(t *testing.T) *CLIContext {
	t.Helper()
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	return &CLIContext{Config: cfg, Logger: logging.NewNopLogger()}
}

// execute runs a subcommand with the CLIContext pre-stored, the way the
// root pre-run would.
func execute(t *testing.T, cmd *cobra.Command, cliCtx *CLIContext, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	ctx := context.WithValue(context.Background(), cliContextKey{}, cliCtx)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestScanCmd(t *testing.T) {
	cliCtx := testCLIContext(t)

	var gotIndustry string
	var gotLimit int
	cleaned := false
	factory := func(_ context.Context, _ *CLIContext, industry string) (ScanRunner, func(), error) {
		gotIndustry = industry
		return func(_ context.Context, industry string, limit int) (*scanner.Outcome, error) {
			gotLimit = limit
			run := scan.NewRun(industry, limit)
			run.Finish(4, 2, false, "reports/logistics.md")
			return &scanner.Outcome{Run: run}, nil
		}, func() { cleaned = true }, nil
	}

	out, err := execute(t, NewScanCmd(factory), cliCtx, "--industry", "logistics", "--limit", "7")
	require.NoError(t, err)
	assert.Equal(t, "logistics", gotIndustry)
	assert.Equal(t, 7, gotLimit)
	assert.True(t, cleaned)
	assert.Contains(t, out, "Scanned 4 threads, 2 relevant")
	assert.Contains(t, out, "Report: reports/logistics.md")
	assert.NotContains(t, out, "broadened")
}

func TestScanCmdBroadenedNote(t *testing.T) {
	cliCtx := testCLIContext(t)
	factory := func(_ context.Context, _ *CLIContext, _ string) (ScanRunner, func(), error) {
		return func(_ context.Context, industry string, limit int) (*scanner.Outcome, error) {
			run := scan.NewRun(industry, limit)
			run.Finish(9, 5, true, "reports/x.md")
			return &scanner.Outcome{Run: run}, nil
		}, func() {}, nil
	}

	out, err := execute(t, NewScanCmd(factory), cliCtx, "-i", "dental clinics")
	require.NoError(t, err)
	assert.Contains(t, out, "broadened second round")
}

func TestScanCmdIndustryFromConfig(t *testing.T) {
	cliCtx := testCLIContext(t)
	cliCtx.Config.Detection.Industry = "legal tech"
	cliCtx.Config.Search.MaxResults = 3

	var gotIndustry string
	var gotLimit int
	factory := func(_ context.Context, _ *CLIContext, industry string) (ScanRunner, func(), error) {
		gotIndustry = industry
		return func(_ context.Context, industry string, limit int) (*scanner.Outcome, error) {
			gotLimit = limit
			run := scan.NewRun(industry, limit)
			run.Finish(0, 0, false, "reports/x.md")
			return &scanner.Outcome{Run: run}, nil
		}, func() {}, nil
	}

	_, err := execute(t, NewScanCmd(factory), cliCtx)
	require.NoError(t, err)
	assert.Equal(t, "legal tech", gotIndustry)
	assert.Equal(t, 3, gotLimit)
}

func TestScanCmdRequiresIndustry(t *testing.T) {
	cliCtx := testCLIContext(t)
	cliCtx.Config.Detection.Industry = ""

	factory := func(_ context.Context, _ *CLIContext, _ string) (ScanRunner, func(), error) {
		t.Fatal("factory must not be invoked without an industry")
		return nil, nil, nil
	}

	_, err := execute(t, NewScanCmd(factory), cliCtx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestScanCmdRunnerErrorPropagates(t *testing.T) {
	cliCtx := testCLIContext(t)
	factory := func(_ context.Context, _ *CLIContext, _ string) (ScanRunner, func(), error) {
		return func(_ context.Context, _ string, _ int) (*scanner.Outcome, error) {
			return nil, errors.New(errors.ErrCodeSearchFailed, "upstream down")
		}, func() {}, nil
	}

	_, err := execute(t, NewScanCmd(factory), cliCtx, "-i", "x")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSearchFailed, errors.GetCode(err))
}

func scoringFactory(scored **post.Post) PostScorerFactory {
	return func(_ context.Context, _ *CLIContext, _ string) (PostScorer, func(), error) {
		return func(_ context.Context, p post.Post) (*post.ScoredPost, error) {
			*scored = &p
			return &post.ScoredPost{
				Post:   p,
				Scores: post.ScoreBundle{AspectScore: 0.4, SemanticScore: 0.6},
			}, nil
		}, func() {}, nil
	}
}

func TestClassifyCmdText(t *testing.T) {
	cliCtx := testCLIContext(t)

	var scored *post.Post
	out, err := execute(t, NewClassifyCmd(scoringFactory(&scored)), cliCtx,
		"-i", "logistics", "--text", "booking freight by phone is killing us")
	require.NoError(t, err)
	require.NotNil(t, scored)
	assert.Equal(t, "booking freight by phone is killing us", scored.Title)
	assert.Empty(t, scored.Body)
	assert.Contains(t, out, `"aspect_score": 0.4`)
}

func TestClassifyCmdFile(t *testing.T) {
	cliCtx := testCLIContext(t)

	path := filepath.Join(t.TempDir(), "thread.txt")
	require.NoError(t, os.WriteFile(path, []byte("Title line\n\nWe still fax purchase orders.\n"), 0o644))

	var scored *post.Post
	_, err := execute(t, NewClassifyCmd(scoringFactory(&scored)), cliCtx,
		"-i", "procurement", "--file", path)
	require.NoError(t, err)
	require.NotNil(t, scored)
	assert.Equal(t, "Title line", scored.Title)
	assert.Equal(t, "We still fax purchase orders.", scored.Body)
	assert.Equal(t, path, scored.URL)
}

func TestClassifyCmdRequiresInput(t *testing.T) {
	cliCtx := testCLIContext(t)
	_, err := execute(t, NewClassifyCmd(scoringFactory(new(*post.Post))), cliCtx, "-i", "x")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestClassifyCmdMissingFile(t *testing.T) {
	cliCtx := testCLIContext(t)
	_, err := execute(t, NewClassifyCmd(scoringFactory(new(*post.Post))), cliCtx,
		"-i", "x", "--file", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["scan"])
	assert.True(t, names["classify"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestPersistentPreRunLoadsFromEnv(t *testing.T) {
	t.Setenv("NICHE_LOG_FORMAT", "console")

	cmd := &cobra.Command{Use: "probe"}
	cmd.SetContext(context.Background())
	require.NoError(t, persistentPreRun(cmd, &RootOptions{LogLevel: "debug"}))

	cliCtx := GetCLIContext(cmd)
	require.NotNil(t, cliCtx)
	assert.Equal(t, "debug", cliCtx.Config.Log.Level)
	assert.Equal(t, "console", cliCtx.Config.Log.Format)
}
