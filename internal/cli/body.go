package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ReadBody resolves a request body argument. "@path" reads a JSON, JSONC or
// YAML file, "-" reads stdin, anything else is parsed as inline JSON. An empty
// argument yields a nil body.
func ReadBody(arg string, stdin io.Reader) (any, error) {
	switch {
	case arg == "":
		return nil, nil

	case arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return decodeBody(data, "")

	case strings.HasPrefix(arg, "@"):
		path := strings.TrimPrefix(arg, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return decodeBody(data, strings.ToLower(filepath.Ext(path)))

	default:
		return decodeBody([]byte(arg), "")
	}
}

// ReadInto decodes a body argument into v
func ReadInto(arg string, stdin io.Reader, v any) error {
	body, err := ReadBody(arg, stdin)
	if err != nil {
		return err
	}
	if body == nil {
		return fmt.Errorf("a body is required (inline JSON, @file or - for stdin)")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("body does not match the expected fields: %w", err)
	}
	return nil
}

func decodeBody(data []byte, ext string) (any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var body any
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("failed to parse YAML body: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &body); err != nil {
			return nil, fmt.Errorf("failed to parse JSON body: %w", err)
		}
	}
	return body, nil
}
