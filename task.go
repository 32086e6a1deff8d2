package datasmith

// DataType identifies the kind of data a task collects.
type DataType string

// Supported data types.
const (
	DataTypeText  DataType = "text"
	DataTypeImage DataType = "image"
	DataTypeVideo DataType = "video"
	DataTypeAudio DataType = "audio"
	DataTypeMixed DataType = "mixed"
)

// OutputFormat identifies the serialization format for a dataset.
type OutputFormat string

// Supported output formats.
const (
	FormatCSV   OutputFormat = "csv"
	FormatExcel OutputFormat = "excel"
	FormatJSON  OutputFormat = "json"
)

// Task is a structured description of what to scrape, derived from a
// free-text request by the planner. A Task is immutable once created;
// the pipeline only reads it.
type Task struct {
	Topic         string                `json:"topic"`
	DataType      DataType              `json:"data_type"`
	Sources       []string              `json:"sources"`
	Attributes    []string              `json:"attributes"`
	Filters       map[string]FilterSpec `json:"filters"`
	OutputFormat  OutputFormat          `json:"output_format"`
	SearchQueries []string              `json:"search_queries"`
}

// Validate returns an error if the task contains invalid fields.
func (t *Task) Validate() error {
	if t.Topic == "" {
		return Errorf(EINVALID, "task topic required")
	}
	if t.DataType == "" {
		return Errorf(EINVALID, "task data type required")
	}
	return nil
}

// FallbackTask returns the minimal usable task synthesized when the planner
// cannot analyze a request. The raw request text becomes the topic and the
// only search query.
func FallbackTask(request string) *Task {
	return &Task{
		Topic:         request,
		DataType:      DataTypeText,
		Sources:       []string{},
		Attributes:    []string{},
		Filters:       map[string]FilterSpec{},
		OutputFormat:  FormatCSV,
		SearchQueries: []string{request},
	}
}

// FilterSpec describes a per-column filter. Exactly one style is typically
// set: simple equality, a numeric range, or include/exclude lists.
type FilterSpec struct {
	Equals  any      `json:"equals,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Strategy is a derived plan for executing a task: which sources to visit
// first and which selector extracts each attribute. The remaining fields are
// advisory hints produced by the planner; the pipeline does not consume them.
type Strategy struct {
	PrioritySources []string          `json:"priority_sources"`
	Selectors       map[string]string `json:"selectors"`

	SearchStrategy     string `json:"search_strategy,omitempty"`
	PaginationStrategy string `json:"pagination_strategy,omitempty"`
	ContentHandling    string `json:"handling_special_content,omitempty"`
}

// FallbackStrategy returns the neutral strategy substituted when strategy
// generation fails: the task's own sources in their declared order, with no
// selectors.
func FallbackStrategy(task *Task) *Strategy {
	return &Strategy{
		PrioritySources: task.Sources,
		Selectors:       map[string]string{},
	}
}

// ResolveSources returns the URLs a dispatch should visit: the strategy's
// priority sources when present, otherwise the task's own sources.
func ResolveSources(task *Task, strategy *Strategy) []string {
	if strategy != nil && len(strategy.PrioritySources) > 0 {
		return strategy.PrioritySources
	}
	return task.Sources
}

// ResolveSelectors returns the per-attribute selectors for a dispatch. When
// the strategy offers none, a generated contains-selector per attribute is
// substituted so every requested attribute still gets evaluated.
func ResolveSelectors(task *Task, strategy *Strategy) map[string]string {
	if strategy != nil && len(strategy.Selectors) > 0 {
		return strategy.Selectors
	}
	selectors := make(map[string]string, len(task.Attributes))
	for _, attr := range task.Attributes {
		selectors[attr] = "*:contains('" + attr + "')"
	}
	return selectors
}

// TaskInfo is the outcome of submitting a request: the analyzed task plus
// identity and scheduling metadata.
type TaskInfo struct {
	TaskID        string `json:"task_id"`
	Request       string `json:"request"`
	Task          *Task  `json:"task"`
	Complexity    string `json:"complexity"`
	EstimatedTime int    `json:"estimated_time"`
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	Error         string `json:"error,omitempty"`
}
