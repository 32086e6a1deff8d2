// Package agent owns the task lifecycle: it turns a free-text request into
// a task via the planner, picks a fetch backend, drives the dispatcher,
// and hands the collected records to the normalizer and exporter.
//
// The agent is the single point where every failure becomes data: nothing
// below it raises past its boundary, and callers always receive a
// structured JobResult.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/datasmithhq/datasmith"
	"github.com/datasmithhq/datasmith/bloom"
	"github.com/datasmithhq/datasmith/dispatch"
	dshttp "github.com/datasmithhq/datasmith/http"
	dsresty "github.com/datasmithhq/datasmith/resty"
	dsrod "github.com/datasmithhq/datasmith/rod"
)

// Status strings surfaced through TaskState snapshots.
const (
	statusAnalyzing     = "Analyzing request"
	statusAnalyzed      = "Request analyzed"
	statusAnalyzeError  = "Error analyzing request"
	statusStrategizing  = "Generating scraping strategy"
	statusStrategized   = "Strategy generated"
	statusCollecting    = "Starting data collection"
	statusMedia         = "Collecting media files"
	statusProcessing    = "Processing data"
	statusExporting     = "Exporting dataset"
	statusReady         = "Dataset ready"
	statusNoSources     = "No sources found. Try providing specific websites in your request."
	statusNoData        = "No data found"
	statusCancelled     = "Cancelled"
)

// User-facing terminal error messages.
const (
	errNoSources = "No sources found for the given request"
	errNoData    = "No data found for the given request. Try being more specific with your data requirements or sources."
)

// FetcherFactory creates a fetch backend for a backend type.
type FetcherFactory func(backendType datasmith.BackendType) (datasmith.Fetcher, error)

// DownloaderFactory creates the media download backend.
type DownloaderFactory func(outputDir string) (datasmith.MediaDownloader, error)

// Agent orchestrates one scraping task at a time. Backend instances are
// created lazily, cached for the agent's lifetime (one live instance per
// backend type), and released on Cancel or Close.
//
// Agent is safe for concurrent use: all task state mutations funnel through
// a single lock, so Status snapshots are always consistent.
type Agent struct {
	planner    datasmith.Planner
	normalizer datasmith.Normalizer
	exporter   datasmith.Exporter
	outputDir  string
	logger     *slog.Logger
	limiter    *dispatch.DomainLimiter

	newFetcher    FetcherFactory
	newDownloader DownloaderFactory

	mu         sync.Mutex
	state      datasmith.TaskState
	fetchers   map[datasmith.BackendType]datasmith.Fetcher
	downloader datasmith.MediaDownloader
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the agent's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithRateLimiter sets a per-domain rate limiter for dispatched fetches.
func WithRateLimiter(limiter *dispatch.DomainLimiter) Option {
	return func(a *Agent) {
		a.limiter = limiter
	}
}

// WithFetcherFactory replaces how fetch backends are constructed.
// Used by tests to substitute mocks.
func WithFetcherFactory(factory FetcherFactory) Option {
	return func(a *Agent) {
		a.newFetcher = factory
	}
}

// WithDownloaderFactory replaces how the media backend is constructed.
func WithDownloaderFactory(factory DownloaderFactory) Option {
	return func(a *Agent) {
		a.newDownloader = factory
	}
}

// New creates an Agent writing its artifacts under outputDir.
func New(planner datasmith.Planner, normalizer datasmith.Normalizer, exporter datasmith.Exporter, outputDir string, opts ...Option) *Agent {
	a := &Agent{
		planner:    planner,
		normalizer: normalizer,
		exporter:   exporter,
		outputDir:  outputDir,
		logger:     slog.Default(),
		fetchers:   make(map[datasmith.BackendType]datasmith.Fetcher),
	}
	a.newFetcher = NewFetcher
	a.newDownloader = func(dir string) (datasmith.MediaDownloader, error) {
		return dsresty.NewDownloader(dir)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFetcher maps backend types to their production implementations. It is
// the default FetcherFactory; callers that decorate fetchers wrap it. The
// browser backend uses the network-idle variant since the denylisted
// domains render content from late requests.
func NewFetcher(backendType datasmith.BackendType) (datasmith.Fetcher, error) {
	switch backendType {
	case datasmith.BackendBrowser:
		return dsrod.NewIdleFetcher()
	case datasmith.BackendHTTP:
		return dshttp.NewFetcher(), nil
	default:
		return nil, datasmith.Errorf(datasmith.EINVALID, "no fetcher for backend %q", backendType)
	}
}

// Submit analyzes a free-text request into a task and returns its info.
//
// Planner failure does not abort the submission: a minimal fallback task is
// synthesized from the raw request and the returned info carries the
// "Error analyzing request" status so the caller can lower expectations.
func (a *Agent) Submit(ctx context.Context, request string) *datasmith.TaskInfo {
	taskID := datasmith.NewID("task")

	a.setState(datasmith.TaskState{TaskID: taskID, Status: statusAnalyzing, Progress: datasmith.ProgressAnalyzing})

	task, err := a.planner.Analyze(ctx, request)
	if err != nil || task == nil {
		if err != nil {
			a.logger.Error("request analysis failed", "err", err)
		}
		task = datasmith.FallbackTask(request)
		a.setState(datasmith.TaskState{TaskID: taskID, Status: statusAnalyzeError, Progress: datasmith.ProgressAnalyzing, Task: task})

		complexity, estimated := datasmith.EstimateComplexity(task)
		return &datasmith.TaskInfo{
			TaskID:        taskID,
			Request:       request,
			Task:          task,
			Complexity:    complexity,
			EstimatedTime: estimated,
			Status:        statusAnalyzeError,
			Progress:      datasmith.ProgressAnalyzing,
			Error:         datasmith.ErrorMessage(err),
		}
	}

	a.setState(datasmith.TaskState{TaskID: taskID, Status: statusAnalyzed, Progress: datasmith.ProgressAnalyzed, Task: task})

	complexity, estimated := datasmith.EstimateComplexity(task)
	return &datasmith.TaskInfo{
		TaskID:        taskID,
		Request:       request,
		Task:          task,
		Complexity:    complexity,
		EstimatedTime: estimated,
		Status:        statusAnalyzed,
		Progress:      datasmith.ProgressAnalyzed,
	}
}

// Run executes a submitted task through strategy, collection, processing,
// and export, and returns the outcome. Run never returns an error and never
// panics past its boundary; every failure becomes a failed JobResult with
// progress at 100 so callers can stop polling.
func (a *Agent) Run(ctx context.Context, info *datasmith.TaskInfo, onProgress datasmith.ProgressFunc) (result *datasmith.JobResult) {
	task := info.Task
	taskID := info.TaskID

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("task panicked", "task_id", taskID, "panic", r)
			result = a.fail(taskID, fmt.Sprintf("%v", r), onProgress)
		}
	}()

	// The first transition claims the state for this task; every later
	// update holds it only while the task still owns it.
	a.setState(datasmith.TaskState{TaskID: taskID, Status: statusStrategizing, Progress: datasmith.ProgressStrategizing, Task: task})
	if onProgress != nil {
		onProgress(datasmith.ScrapeProgress{Status: statusStrategizing, Progress: datasmith.ProgressStrategizing})
	}

	strategy, err := a.planner.Strategize(ctx, task)
	if err != nil || strategy == nil {
		if err != nil {
			a.logger.Error("strategy generation failed, using fallback", "err", err)
		}
		strategy = datasmith.FallbackStrategy(task)
	}

	a.update(taskID, task, statusStrategized, datasmith.ProgressStrategized, onProgress)

	backendType := datasmith.SelectBackend(task)
	a.update(taskID, task, statusCollecting, datasmith.ProgressCollecting, onProgress)

	var records []datasmith.Record
	var mediaFiles []string

	if backendType == datasmith.BackendMedia {
		records, mediaFiles, err = a.collectMedia(ctx, task, onProgress, taskID)
		if err != nil {
			return a.fail(taskID, err.Error(), onProgress)
		}
	} else {
		sources := bloom.Dedupe(datasmith.ResolveSources(task, strategy))
		if len(sources) == 0 {
			a.update(taskID, task, statusNoSources, datasmith.ProgressDone, onProgress)
			return &datasmith.JobResult{TaskID: taskID, Status: datasmith.JobFailed, Error: errNoSources}
		}

		fetcher, err := a.fetcher(backendType)
		if err != nil {
			return a.fail(taskID, err.Error(), onProgress)
		}

		d := &dispatch.Dispatcher{Fetcher: fetcher, RateLimiter: a.limiter, Logger: a.logger}
		selectors := datasmith.ResolveSelectors(task, strategy)
		records, err = d.Dispatch(ctx, sources, selectors, func(p datasmith.ScrapeProgress) {
			a.update(taskID, task, p.Status, p.Progress, nil)
			if onProgress != nil {
				onProgress(p)
			}
		})
		if err != nil {
			return a.fail(taskID, err.Error(), onProgress)
		}
	}

	a.update(taskID, task, statusProcessing, datasmith.ProgressProcessing, onProgress)

	dataset, err := a.normalizer.Normalize(records, task)
	if err != nil {
		return a.fail(taskID, err.Error(), onProgress)
	}
	if dataset.Len() == 0 {
		a.update(taskID, task, statusNoData, datasmith.ProgressDone, onProgress)
		return &datasmith.JobResult{TaskID: taskID, Status: datasmith.JobFailed, Error: errNoData}
	}

	dataFile, err := a.normalizer.Serialize(dataset, task.OutputFormat, taskID+"_data")
	if err != nil {
		return a.fail(taskID, err.Error(), onProgress)
	}

	a.update(taskID, task, statusExporting, datasmith.ProgressExporting, onProgress)

	metadata := datasmith.ExportMetadata{
		TaskID:         taskID,
		Topic:          task.Topic,
		DataType:       task.DataType,
		Sources:        task.Sources,
		Attributes:     task.Attributes,
		CompletionTime: time.Now().Format("2006-01-02 15:04:05"),
		RecordCount:    dataset.Len(),
	}
	datasetPath, err := a.exporter.Export(ctx, dataFile, mediaFiles, metadata)
	if err != nil {
		return a.fail(taskID, err.Error(), onProgress)
	}

	a.update(taskID, task, statusReady, datasmith.ProgressDone, onProgress)

	return &datasmith.JobResult{
		TaskID:      taskID,
		Status:      datasmith.JobCompleted,
		DatasetPath: datasetPath,
		DataFile:    dataFile,
		MediaFiles:  mediaFiles,
		RecordCount: dataset.Len(),
		Columns:     dataset.Columns,
	}
}

// collectMedia downloads media from every source and converts the saved
// files into metadata records for normalization.
func (a *Agent) collectMedia(ctx context.Context, task *datasmith.Task, onProgress datasmith.ProgressFunc, taskID string) ([]datasmith.Record, []string, error) {
	a.update(taskID, task, statusMedia, datasmith.ProgressCollecting, onProgress)

	downloader, err := a.mediaDownloader()
	if err != nil {
		return nil, nil, err
	}

	kind := datasmith.MediaKind(task.DataType)
	var mediaFiles []string
	for _, source := range task.Sources {
		files, err := downloader.DownloadFromPage(ctx, source, kind)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			a.logger.Error("media collection failed for source", "url", source, "err", err)
			continue
		}
		mediaFiles = append(mediaFiles, files...)
	}

	status := fmt.Sprintf("Collected %d media files", len(mediaFiles))
	a.update(taskID, task, status, datasmith.ProgressCollected, onProgress)

	return datasmith.MediaFileRecords(mediaFiles, task.Topic), mediaFiles, nil
}

// Status returns a consistent snapshot of the current task state.
func (a *Agent) Status() datasmith.TaskState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Cancel aborts the current task: it releases every backend instance that
// was created and discards the task identity, so a subsequent Status shows
// no active task. In-flight fetches are not awaited; their results are
// discarded with the task identity.
func (a *Agent) Cancel() datasmith.CancelResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.Active() {
		return datasmith.CancelResult{Status: "no_task", Message: "No active task to cancel"}
	}

	prevID := a.state.TaskID
	prevStatus := a.state.Status

	a.closeBackendsLocked()
	a.state = datasmith.TaskState{Status: statusCancelled}

	return datasmith.CancelResult{
		TaskID:         prevID,
		Status:         string(datasmith.JobCancelled),
		PreviousStatus: prevStatus,
	}
}

// Close releases all backend resources. Safe to call more than once.
func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeBackendsLocked()
	return nil
}

// closeBackendsLocked closes and forgets every cached backend instance.
// Must be called with mu held.
func (a *Agent) closeBackendsLocked() {
	for backendType, fetcher := range a.fetchers {
		if err := fetcher.Close(); err != nil {
			a.logger.Error("closing backend", "backend", backendType, "err", err)
		}
		delete(a.fetchers, backendType)
	}
	if a.downloader != nil {
		if err := a.downloader.Close(); err != nil {
			a.logger.Error("closing media downloader", "err", err)
		}
		a.downloader = nil
	}
}

// fetcher returns the cached backend instance for the type, creating it on
// first use.
func (a *Agent) fetcher(backendType datasmith.BackendType) (datasmith.Fetcher, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.fetchers[backendType]; ok {
		return f, nil
	}
	f, err := a.newFetcher(backendType)
	if err != nil {
		return nil, err
	}
	a.fetchers[backendType] = f
	return f, nil
}

// mediaDownloader returns the cached media backend, creating it on first
// use.
func (a *Agent) mediaDownloader() (datasmith.MediaDownloader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.downloader != nil {
		return a.downloader, nil
	}
	d, err := a.newDownloader(filepath.Join(a.outputDir, "media"))
	if err != nil {
		return nil, err
	}
	a.downloader = d
	return d, nil
}

// fail converts an error message into a terminal failed result, pushing
// progress to 100 so callers can stop polling.
func (a *Agent) fail(taskID, message string, onProgress datasmith.ProgressFunc) *datasmith.JobResult {
	a.update(taskID, nil, "Error: "+message, datasmith.ProgressDone, onProgress)
	return &datasmith.JobResult{TaskID: taskID, Status: datasmith.JobFailed, Error: message}
}

// update records a state transition and forwards it to the progress
// callback. A task that no longer owns the state, because Cancel cleared
// its identity or another task took over, must not write it back.
func (a *Agent) update(taskID string, task *datasmith.Task, status string, progress int, onProgress datasmith.ProgressFunc) {
	a.mu.Lock()
	if a.state.TaskID != taskID {
		a.mu.Unlock()
		return
	}
	if task == nil {
		task = a.state.Task
	}
	a.state = datasmith.TaskState{TaskID: taskID, Status: status, Progress: progress, Task: task}
	a.mu.Unlock()

	if onProgress != nil {
		onProgress(datasmith.ScrapeProgress{Status: status, Progress: progress})
	}
}

// setState replaces the task state wholesale. Used when a new task takes
// over the agent.
func (a *Agent) setState(state datasmith.TaskState) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}
