package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v2"

	"github.com/datasmithhq/datasmith"
)

// Serialize writes the dataset in the requested format and returns the
// file path. Unknown formats fall back to csv.
func (n *Normalizer) Serialize(dataset *datasmith.Dataset, format datasmith.OutputFormat, baseName string) (string, error) {
	switch format {
	case datasmith.FormatExcel:
		return n.serializeExcel(dataset, baseName)
	case datasmith.FormatJSON:
		return n.serializeJSON(dataset, baseName)
	case datasmith.FormatCSV:
		return n.serializeCSV(dataset, baseName)
	default:
		n.logger.Warn("unknown output format, falling back to csv", "format", format)
		return n.serializeCSV(dataset, baseName)
	}
}

func (n *Normalizer) serializeCSV(dataset *datasmith.Dataset, baseName string) (string, error) {
	path := filepath.Join(n.outputDir, baseName+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "creating csv file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(dataset.Columns); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "writing csv header: %v", err)
	}
	for _, row := range dataset.Rows {
		cells := make([]string, len(dataset.Columns))
		for i, column := range dataset.Columns {
			cells[i] = formatCell(row[column])
		}
		if err := w.Write(cells); err != nil {
			return "", datasmith.Errorf(datasmith.EINTERNAL, "writing csv row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "flushing csv: %v", err)
	}

	return path, nil
}

func (n *Normalizer) serializeJSON(dataset *datasmith.Dataset, baseName string) (string, error) {
	path := filepath.Join(n.outputDir, baseName+".json")

	// Emit records in column order so the file is stable across runs.
	records := make([]map[string]any, len(dataset.Rows))
	for i, row := range dataset.Rows {
		record := make(map[string]any, len(dataset.Columns))
		for _, column := range dataset.Columns {
			record[column] = row[column]
		}
		records[i] = record
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "encoding json: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "writing json file: %v", err)
	}

	return path, nil
}

func (n *Normalizer) serializeExcel(dataset *datasmith.Dataset, baseName string) (string, error) {
	path := filepath.Join(n.outputDir, baseName+".xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Data")
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "creating sheet: %v", err)
	}

	header := sheet.AddRow()
	for _, column := range dataset.Columns {
		header.AddCell().SetString(column)
	}

	for _, row := range dataset.Rows {
		r := sheet.AddRow()
		for _, column := range dataset.Columns {
			cell := r.AddCell()
			switch v := row[column].(type) {
			case float64:
				cell.SetFloat(v)
			default:
				cell.SetString(formatCell(v))
			}
		}
	}

	if err := file.Save(path); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "saving xlsx file: %v", err)
	}

	return path, nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "; ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
