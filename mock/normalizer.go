package mock

import "github.com/datasmithhq/datasmith"

var _ datasmith.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of datasmith.Normalizer.
type Normalizer struct {
	NormalizeFn func(records []datasmith.Record, task *datasmith.Task) (*datasmith.Dataset, error)
	SerializeFn func(dataset *datasmith.Dataset, format datasmith.OutputFormat, baseName string) (string, error)
}

func (n *Normalizer) Normalize(records []datasmith.Record, task *datasmith.Task) (*datasmith.Dataset, error) {
	return n.NormalizeFn(records, task)
}

func (n *Normalizer) Serialize(dataset *datasmith.Dataset, format datasmith.OutputFormat, baseName string) (string, error) {
	return n.SerializeFn(dataset, format, baseName)
}
