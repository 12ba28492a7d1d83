package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/fitadmin/internal/config"
	"github.com/studiowebux/fitadmin/internal/filter"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputOptions controls how a command result is rendered
type OutputOptions struct {
	Format   string // json (default) or yaml
	Filter   string // JMESPath filter expression
	Query    string // JMESPath query expression
	SavePath string // write to file instead of the writer
}

// Validate rejects unknown formats and malformed expressions before any
// request is sent
func (o OutputOptions) Validate() error {
	switch o.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (use json or yaml)", o.Format)
	}
	if o.Filter != "" && !filter.IsValidJMESPath(o.Filter) {
		return fmt.Errorf("invalid filter expression: %s", o.Filter)
	}
	if o.Query != "" && !filter.IsValidJMESPath(o.Query) {
		return fmt.Errorf("invalid query expression: %s", o.Query)
	}
	return nil
}

// Render serializes v, applies filter and query, and formats the result
func Render(v any, opts OutputOptions) ([]byte, error) {
	var payload json.RawMessage
	switch t := v.(type) {
	case json.RawMessage:
		payload = t
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal output: %w", err)
		}
		payload = data
	}
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	payload, err := filter.Apply(payload, opts.Filter, opts.Query)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatYAML:
		var data any
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("invalid JSON output: %w", err)
		}
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return out, nil

	default:
		var data any
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("invalid JSON output: %w", err)
		}
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// Write renders v to w, or to opts.SavePath when set
func Write(w io.Writer, v any, opts OutputOptions) error {
	out, err := Render(v, opts)
	if err != nil {
		return err
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, out, config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		return nil
	}

	_, err = w.Write(out)
	return err
}
