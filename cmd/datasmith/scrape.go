package main

import (
	"fmt"
	"strings"

	"github.com/datasmithhq/datasmith"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	request := strings.Join(c.Request, " ")

	info := deps.Agent.Submit(deps.Ctx, request)
	if info.Error != "" {
		fmt.Fprintf(deps.Stderr, "warning: %s, continuing with a basic task\n", info.Error)
	}

	fmt.Fprintf(deps.Stdout, "Task %s: %s\n", info.TaskID, info.Task.Topic)
	fmt.Fprintf(deps.Stdout, "Complexity: %s (about %ds)\n", info.Complexity, info.EstimatedTime)

	if c.Search && len(info.Task.Sources) == 0 && len(info.Task.SearchQueries) > 0 {
		task := *info.Task
		task.Sources = searchSources(info.Task, c.Engine)
		info.Task = &task
		fmt.Fprintf(deps.Stdout, "No direct sources, using %d %s search pages\n", len(task.Sources), c.Engine)
	}

	var onProgress datasmith.ProgressFunc
	if !c.Quiet {
		onProgress = func(p datasmith.ScrapeProgress) {
			fmt.Fprintf(deps.Stderr, "[%3d%%] %s\n", p.Progress, p.Status)
		}
	}

	result := deps.Agent.Run(deps.Ctx, info, onProgress)
	if result.Status != datasmith.JobCompleted {
		fmt.Fprintf(deps.Stderr, "error: %s\n", result.Error)
		return datasmith.Errorf(datasmith.EINTERNAL, "task %s: %s", result.TaskID, result.Error)
	}

	fmt.Fprintf(deps.Stdout, "Collected %d records (%s)\n", result.RecordCount, strings.Join(result.Columns, ", "))
	if len(result.MediaFiles) > 0 {
		fmt.Fprintf(deps.Stdout, "Downloaded %d media files\n", len(result.MediaFiles))
	}
	fmt.Fprintf(deps.Stdout, "Dataset: %s\n", result.DatasetPath)
	return nil
}
