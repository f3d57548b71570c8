package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/qa-keywords/internal/model"
)

func encodeRecords(w io.Writer, format string, records []model.EntryRecord) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}

func decodeRecords(data []byte, format string) ([]model.EntryRecord, error) {
	var records []model.EntryRecord
	switch format {
	case "json":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
	return records, nil
}
