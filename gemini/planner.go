// Package gemini implements request analysis and strategy generation using
// Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/datasmithhq/datasmith"
)

const model = "gemini-2.5-flash"

// Ensure Planner implements datasmith.Planner at compile time.
var _ datasmith.Planner = (*Planner)(nil)

// Planner implements datasmith.Planner using Google Gemini.
type Planner struct {
	client *genai.Client
}

// NewPlanner creates a new Planner.
func NewPlanner(client *genai.Client) *Planner {
	return &Planner{client: client}
}

// Analyze converts a free-text request into a structured scraping task.
func (p *Planner) Analyze(ctx context.Context, request string) (*datasmith.Task, error) {
	if request == "" {
		return nil, datasmith.Errorf(datasmith.EINVALID, "request required")
	}

	text, err := p.generate(ctx, BuildAnalyzeConfig(), BuildAnalyzePrompt(request))
	if err != nil {
		return nil, err
	}

	return ParseTask(text)
}

// Strategize generates a scraping strategy for a task.
func (p *Planner) Strategize(ctx context.Context, task *datasmith.Task) (*datasmith.Strategy, error) {
	if task == nil {
		return nil, datasmith.Errorf(datasmith.EINVALID, "task required")
	}

	text, err := p.generate(ctx, BuildStrategyConfig(), BuildStrategyPrompt(task))
	if err != nil {
		return nil, err
	}

	return ParseStrategy(text)
}

func (p *Planner) generate(ctx context.Context, config *genai.GenerateContentConfig, prompt string) (string, error) {
	result, err := p.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildAnalyzeConfig returns the GenerateContentConfig for request analysis.
func BuildAnalyzeConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant that analyzes web scraping requests and responds with JSON only.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildStrategyConfig returns the GenerateContentConfig for strategy
// generation.
func BuildStrategyConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a web scraping expert that creates detailed scraping strategies and responds with JSON only.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildAnalyzePrompt builds the user prompt for request analysis.
func BuildAnalyzePrompt(request string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this web scraping request and provide a JSON object with the following fields:\n")
	sb.WriteString("- topic: main topic or subject of the data\n")
	sb.WriteString("- data_type: one of text, image, video, audio, mixed\n")
	sb.WriteString("- sources: list of websites to scrape data from\n")
	sb.WriteString("- attributes: list of specific data points to extract\n")
	sb.WriteString("- filters: object mapping attribute names to filter specs (equals, min, max, include, exclude)\n")
	sb.WriteString("- output_format: one of csv, excel, json\n")
	sb.WriteString("- search_queries: list of search queries for finding relevant pages\n\n")
	fmt.Fprintf(&sb, "Request: %s\n", request)
	return sb.String()
}

// BuildStrategyPrompt builds the user prompt for strategy generation.
func BuildStrategyPrompt(task *datasmith.Task) string {
	sources := "No specific sources provided"
	if len(task.Sources) > 0 {
		sources = strings.Join(task.Sources, ", ")
	}

	var sb strings.Builder
	sb.WriteString("Generate a web scraping strategy for the following task:\n\n")
	fmt.Fprintf(&sb, "Topic: %s\n", task.Topic)
	fmt.Fprintf(&sb, "Data type: %s\n", task.DataType)
	fmt.Fprintf(&sb, "Sources: %s\n", sources)
	fmt.Fprintf(&sb, "Attributes: %s\n\n", strings.Join(task.Attributes, ", "))
	sb.WriteString("Provide a JSON object with the following fields:\n")
	sb.WriteString("- priority_sources: list of URLs to scrape in priority order\n")
	sb.WriteString("- selectors: object mapping each attribute to a CSS selector\n")
	sb.WriteString("- search_strategy: how to find additional relevant pages\n")
	sb.WriteString("- pagination_strategy: how to handle pagination on listing pages\n")
	sb.WriteString("- handling_special_content: how to handle embedded media\n")
	return sb.String()
}

// ParseTask parses a model response into a task. Markdown code fences
// around the JSON are tolerated. Missing data type and output format fields
// get defaults rather than failing the parse.
func ParseTask(text string) (*datasmith.Task, error) {
	var task datasmith.Task
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &task); err != nil {
		return nil, datasmith.Errorf(datasmith.EINTERNAL, "parsing task response: %v", err)
	}

	if task.DataType == "" {
		task.DataType = datasmith.DataTypeText
	}
	if task.OutputFormat == "" {
		task.OutputFormat = datasmith.FormatCSV
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	return &task, nil
}

// ParseStrategy parses a model response into a strategy.
func ParseStrategy(text string) (*datasmith.Strategy, error) {
	var strategy datasmith.Strategy
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &strategy); err != nil {
		return nil, datasmith.Errorf(datasmith.EINTERNAL, "parsing strategy response: %v", err)
	}
	if strategy.Selectors == nil {
		strategy.Selectors = map[string]string{}
	}
	return &strategy, nil
}

// ExtractJSON strips markdown code fences that models sometimes wrap
// around JSON output.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
	} else {
		return s
	}
	if j := strings.Index(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}
