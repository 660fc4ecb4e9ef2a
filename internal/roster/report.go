package roster

import (
	"encoding/json"
	"os"
)

// ReportByCategory groups entity summaries by trade.
func ReportByCategory[T Entity](items []T) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range items {
		key := item.Trade().String()
		report[key] = append(report[key], item.Summary())
	}
	return report
}

// DumpToTmpFile writes v as indented JSON into a new temp file and returns its name.
func DumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
