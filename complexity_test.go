package datasmith_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datasmithhq/datasmith"
)

func TestEstimateComplexity(t *testing.T) {
	t.Parallel()

	t.Run("simple text task is low", func(t *testing.T) {
		t.Parallel()

		task := &datasmith.Task{
			Topic:      "t",
			DataType:   datasmith.DataTypeText,
			Sources:    []string{"https://example.com"},
			Attributes: []string{"name"},
		}

		complexity, seconds := datasmith.EstimateComplexity(task)
		assert.Equal(t, datasmith.ComplexityLow, complexity)
		assert.Equal(t, 30, seconds)
	})

	t.Run("many sources and attributes raise complexity", func(t *testing.T) {
		t.Parallel()

		task := &datasmith.Task{
			Topic:      "t",
			DataType:   datasmith.DataTypeMixed,
			Sources:    []string{"a", "b", "c", "d", "e", "f"},
			Attributes: []string{"a", "b", "c", "d", "e", "f"},
			Filters: map[string]datasmith.FilterSpec{
				"a": {}, "b": {}, "c": {}, "d": {},
			},
		}

		complexity, seconds := datasmith.EstimateComplexity(task)
		assert.Equal(t, datasmith.ComplexityVeryHigh, complexity)
		assert.Equal(t, 600, seconds)
	})

	t.Run("estimate grows with complexity", func(t *testing.T) {
		t.Parallel()

		low := &datasmith.Task{Topic: "t", DataType: datasmith.DataTypeText}
		high := &datasmith.Task{
			Topic:      "t",
			DataType:   datasmith.DataTypeVideo,
			Sources:    []string{"a", "b", "c", "d"},
			Attributes: []string{"a", "b", "c"},
		}

		_, lowSeconds := datasmith.EstimateComplexity(low)
		_, highSeconds := datasmith.EstimateComplexity(high)
		assert.Less(t, lowSeconds, highSeconds)
	})
}
