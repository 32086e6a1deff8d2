package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	"github.com/datasmithhq/datasmith"
	"github.com/datasmithhq/datasmith/agent"
	"github.com/datasmithhq/datasmith/dataset"
	"github.com/datasmithhq/datasmith/dispatch"
	"github.com/datasmithhq/datasmith/gemini"
	dsslog "github.com/datasmithhq/datasmith/slog"
	dszip "github.com/datasmithhq/datasmith/zip"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Output directory for datasets and media. Set before calling Run().
	OutputDir string

	// Agent for end-to-end testing. Built from real services when nil.
	Agent *agent.Agent
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		OutputDir: defaultOutputDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Agent != nil {
		return m.Agent.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("datasmith"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'datasmith --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if m.Agent == nil {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		planner := dsslog.NewLoggingPlanner(gemini.NewPlanner(client), logger)

		normalizer, err := dataset.NewNormalizer(m.OutputDir, dataset.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create normalizer: %w", err)
		}

		exporter, err := dszip.NewExporter(filepath.Join(m.OutputDir, "exports"), dszip.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create exporter: %w", err)
		}

		m.Agent = agent.New(planner, normalizer, exporter, m.OutputDir,
			agent.WithLogger(logger),
			agent.WithRateLimiter(dispatch.NewDomainLimiter(1.0)),
			agent.WithFetcherFactory(loggingFetcherFactory(logger)),
		)
	}
	defer m.Close()

	deps.Agent = m.Agent
	deps.Logger = logger

	return kongCtx.Run(deps)
}

func defaultOutputDir() string {
	if path := os.Getenv("DATASMITH_OUTPUT"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "datasets"
	}
	dir := filepath.Join(home, ".datasmith", "datasets")
	_ = os.MkdirAll(dir, 0755)
	return dir
}

// searchSources converts a task's search queries into search-result URLs
// for a chosen engine. Used when a task resolves no direct sources.
func searchSources(task *datasmith.Task, engine string) []string {
	return datasmith.SearchURLs(task.SearchQueries, engine)
}

// loggingFetcherFactory builds production fetch backends wrapped with
// request logging.
func loggingFetcherFactory(logger *slog.Logger) agent.FetcherFactory {
	return func(backendType datasmith.BackendType) (datasmith.Fetcher, error) {
		f, err := agent.NewFetcher(backendType)
		if err != nil {
			return nil, err
		}
		return dsslog.NewLoggingFetcher(f, logger), nil
	}
}
