package datasmith

// Complexity levels with their estimated completion time in seconds.
const (
	ComplexityLow      = "Low"
	ComplexityMedium   = "Medium"
	ComplexityHigh     = "High"
	ComplexityVeryHigh = "Very High"
)

// EstimateComplexity scores a task by its data type and the number of
// sources, attributes, and filters, and returns a complexity label together
// with an estimated completion time in seconds.
func EstimateComplexity(task *Task) (complexity string, estimatedSeconds int) {
	score := 0

	switch task.DataType {
	case DataTypeText:
		score += 1
	case DataTypeImage, DataTypeAudio:
		score += 3
	case DataTypeVideo:
		score += 4
	case DataTypeMixed:
		score += 5
	}

	score += min(len(task.Sources), 5)
	score += min(len(task.Attributes), 5)
	score += min(len(task.Filters), 3)

	switch {
	case score <= 5:
		return ComplexityLow, 30
	case score <= 10:
		return ComplexityMedium, 120
	case score <= 15:
		return ComplexityHigh, 300
	default:
		return ComplexityVeryHigh, 600
	}
}
