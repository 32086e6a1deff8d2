package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	request := strings.Join(c.Request, " ")

	info := deps.Agent.Submit(deps.Ctx, request)
	if info.Error != "" {
		fmt.Fprintf(deps.Stderr, "warning: %s, showing the fallback task\n", info.Error)
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
