// Package dataset turns raw extraction records into clean tabular datasets
// and serializes them to csv, excel, or json.
package dataset

import (
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/datasmithhq/datasmith"
)

// Ensure Normalizer implements datasmith.Normalizer at compile time.
var _ datasmith.Normalizer = (*Normalizer)(nil)

// Normalizer cleans and filters raw records into a Dataset and writes the
// result under its output directory.
type Normalizer struct {
	outputDir string
	logger    *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the normalizer's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// NewNormalizer creates a Normalizer writing serialized datasets under
// outputDir, creating the directory if needed.
func NewNormalizer(outputDir string, opts ...Option) (*Normalizer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, datasmith.Errorf(datasmith.EINTERNAL, "creating output directory: %v", err)
	}
	n := &Normalizer{outputDir: outputDir, logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Normalize cleans the records, applies the task's filters, and fills
// missing values. An empty record set yields an empty dataset, not an
// error.
//
// The pipeline runs in a fixed order: column names and text values are
// cleaned first, then numeric-looking string columns are coerced to
// numbers, then filters are applied against the coerced values, and
// finally remaining nulls are filled (column mean for numeric columns,
// most frequent value for string columns, "N/A" otherwise).
func (n *Normalizer) Normalize(records []datasmith.Record, task *datasmith.Task) (*datasmith.Dataset, error) {
	if len(records) == 0 {
		return &datasmith.Dataset{}, nil
	}

	columns := columnOrder(records, task)

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(columns))
		for key, value := range record {
			row[CleanColumnName(key)] = cleanValue(value)
		}
		rows = append(rows, row)
	}

	coerceNumericColumns(rows, columns)

	if len(task.Filters) > 0 {
		rows = applyFilters(rows, task.Filters)
	}

	fillMissing(rows, columns)

	return &datasmith.Dataset{Columns: columns, Rows: rows}, nil
}

// columnOrder derives a deterministic column order: the task's attributes
// first, then the url tag, then any remaining record keys sorted.
func columnOrder(records []datasmith.Record, task *datasmith.Task) []string {
	seen := make(map[string]bool)
	var columns []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	for _, attr := range task.Attributes {
		add(CleanColumnName(attr))
	}

	present := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			present[CleanColumnName(key)] = true
		}
	}
	if present["url"] {
		add("url")
	}

	var extra []string
	for name := range present {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		add(name)
	}

	// Attributes that never appeared in any record would produce
	// all-null columns; drop them.
	filtered := columns[:0]
	for _, name := range columns {
		if present[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// CleanColumnName lowercases a column name, drops punctuation, and
// replaces whitespace runs with single underscores.
func CleanColumnName(name string) string {
	name = strings.ToLower(name)
	name = nonWordRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// CleanText trims a text value, collapses whitespace runs, and strips any
// embedded HTML tags.
func CleanText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func cleanValue(value any) any {
	switch v := value.(type) {
	case string:
		return CleanText(v)
	case []string:
		cleaned := make([]string, len(v))
		for i, s := range v {
			cleaned[i] = CleanText(s)
		}
		return cleaned
	default:
		return v
	}
}

// coerceNumericColumns converts a column to float64 when every non-null
// value is a numeric string. Numbers with thousands separators ("1,234.5")
// are recognized.
func coerceNumericColumns(rows []map[string]any, columns []string) {
	for _, column := range columns {
		numeric := false
		for _, row := range rows {
			value, ok := row[column]
			if !ok || value == nil {
				continue
			}
			if _, ok := parseNumber(value); !ok {
				numeric = false
				break
			}
			numeric = true
		}
		if !numeric {
			continue
		}
		for _, row := range rows {
			if value, ok := row[column]; ok && value != nil {
				f, _ := parseNumber(value)
				row[column] = f
			}
		}
	}
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// applyFilters keeps only the rows that satisfy every filter. Filters
// naming a column absent from the data are ignored. Range filters reject
// rows whose value is missing or non-numeric.
func applyFilters(rows []map[string]any, filters map[string]datasmith.FilterSpec) []map[string]any {
	kept := rows[:0]
	for _, row := range rows {
		if matchesFilters(row, filters) {
			kept = append(kept, row)
		}
	}
	return kept
}

func matchesFilters(row map[string]any, filters map[string]datasmith.FilterSpec) bool {
	for column, spec := range filters {
		value, ok := row[CleanColumnName(column)]
		if !ok {
			continue
		}
		if !matchesFilter(value, spec) {
			return false
		}
	}
	return true
}

func matchesFilter(value any, spec datasmith.FilterSpec) bool {
	if spec.Min != nil || spec.Max != nil {
		f, ok := parseNumber(value)
		if !ok {
			return false
		}
		if spec.Min != nil && f < *spec.Min {
			return false
		}
		if spec.Max != nil && f > *spec.Max {
			return false
		}
	}

	if spec.Equals != nil && stringify(value) != stringify(spec.Equals) {
		return false
	}

	if len(spec.Include) > 0 {
		found := false
		for _, want := range spec.Include {
			if stringify(value) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, unwanted := range spec.Exclude {
		if stringify(value) == unwanted {
			return false
		}
	}

	return true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return ""
	}
}

// fillMissing replaces null cells: numeric columns get the column mean,
// string columns get the most frequent value (or "Unknown" when the whole
// column is empty), anything else gets "N/A".
func fillMissing(rows []map[string]any, columns []string) {
	for _, column := range columns {
		var (
			sum        float64
			numCount   int
			strCounts  = map[string]int{}
			hasStrings bool
		)
		for _, row := range rows {
			switch v := row[column].(type) {
			case float64:
				sum += v
				numCount++
			case string:
				strCounts[v]++
				hasStrings = true
			}
		}

		var fill any = "N/A"
		switch {
		case numCount > 0:
			fill = sum / float64(numCount)
		case hasStrings:
			fill = modeOf(strCounts)
		}

		for _, row := range rows {
			if value, ok := row[column]; !ok || value == nil {
				row[column] = fill
			}
		}
	}
}

func modeOf(counts map[string]int) string {
	best, bestCount := "Unknown", 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
