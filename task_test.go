package datasmith_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasmithhq/datasmith"
)

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task := &datasmith.Task{Topic: "widgets", DataType: datasmith.DataTypeText}
		assert.NoError(t, task.Validate())
	})

	t.Run("missing topic", func(t *testing.T) {
		t.Parallel()

		task := &datasmith.Task{DataType: datasmith.DataTypeText}
		err := task.Validate()
		require.Error(t, err)
		assert.Equal(t, datasmith.EINVALID, datasmith.ErrorCode(err))
	})

	t.Run("missing data type", func(t *testing.T) {
		t.Parallel()

		task := &datasmith.Task{Topic: "widgets"}
		err := task.Validate()
		require.Error(t, err)
		assert.Equal(t, datasmith.EINVALID, datasmith.ErrorCode(err))
	})
}

func TestFallbackTask(t *testing.T) {
	t.Parallel()

	task := datasmith.FallbackTask("get F1 race results")

	assert.Equal(t, "get F1 race results", task.Topic)
	assert.Equal(t, datasmith.DataTypeText, task.DataType)
	assert.Empty(t, task.Sources)
	assert.Empty(t, task.Attributes)
	assert.Equal(t, datasmith.FormatCSV, task.OutputFormat)
	assert.Equal(t, []string{"get F1 race results"}, task.SearchQueries)
}

func TestFallbackStrategy(t *testing.T) {
	t.Parallel()

	task := &datasmith.Task{
		Topic:    "t",
		DataType: datasmith.DataTypeText,
		Sources:  []string{"https://example.com/a", "https://example.com/b"},
	}

	strategy := datasmith.FallbackStrategy(task)

	assert.Equal(t, task.Sources, strategy.PrioritySources)
	assert.Empty(t, strategy.Selectors)
}

func TestResolveSources(t *testing.T) {
	t.Parallel()

	task := &datasmith.Task{
		Topic:    "t",
		DataType: datasmith.DataTypeText,
		Sources:  []string{"https://example.com/task"},
	}

	t.Run("strategy sources win", func(t *testing.T) {
		t.Parallel()

		strategy := &datasmith.Strategy{PrioritySources: []string{"https://example.com/strategy"}}
		assert.Equal(t, strategy.PrioritySources, datasmith.ResolveSources(task, strategy))
	})

	t.Run("empty strategy falls back to task", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, task.Sources, datasmith.ResolveSources(task, &datasmith.Strategy{}))
	})

	t.Run("nil strategy falls back to task", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, task.Sources, datasmith.ResolveSources(task, nil))
	})
}

func TestResolveSelectors(t *testing.T) {
	t.Parallel()

	task := &datasmith.Task{
		Topic:      "t",
		DataType:   datasmith.DataTypeText,
		Attributes: []string{"name", "price"},
	}

	t.Run("strategy selectors win", func(t *testing.T) {
		t.Parallel()

		strategy := &datasmith.Strategy{Selectors: map[string]string{"name": ".name"}}
		assert.Equal(t, strategy.Selectors, datasmith.ResolveSelectors(task, strategy))
	})

	t.Run("empty strategy generates contains selectors", func(t *testing.T) {
		t.Parallel()

		selectors := datasmith.ResolveSelectors(task, nil)
		assert.Equal(t, "*:contains('name')", selectors["name"])
		assert.Equal(t, "*:contains('price')", selectors["price"])
	})
}
