package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/datasmithhq/datasmith/agent"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Agent  *agent.Agent
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape  ScrapeCmd  `cmd:"" help:"Analyze a request and scrape the data into a dataset"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyze a request and show the resulting task without scraping"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Request []string `arg:"" help:"Free-text description of the data to collect"`
	Search  bool     `short:"s" help:"Fall back to search-result pages when the request names no sources"`
	Engine  string   `default:"google" enum:"google,bing,duckduckgo" help:"Search engine for --search"`
	Quiet   bool     `short:"q" help:"Suppress progress output"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Request []string `arg:"" help:"Free-text description of the data to collect"`
}
