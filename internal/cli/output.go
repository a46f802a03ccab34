package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

func checkOutput(format string) error {
	if format != OutputYAML && format != OutputJSON {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, format)
	}
	return nil
}

// printValue writes v to w in format.
func printValue(w io.Writer, format string, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutput, format)
	}
}

// readInput reads a YAML or JSON document from path into v. "-" reads stdin.
// Unknown fields are rejected.
func readInput(path string, stdin io.Reader, v any) error {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return errors.Join(ErrInvalidInput, err)
		}
		defer f.Close()
		r = f
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}
