package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// printer renders command results in the format chosen with -o
type printer struct {
	format string
	out    io.Writer
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "table", "yaml", "json":
	default:
		return nil, fmt.Errorf("unsupported output format %q (use table, yaml or json)", format)
	}
	return &printer{format: format, out: cmd.OutOrStdout()}, nil
}

// print writes v as YAML or JSON, or calls table for the table format
func (p *printer) print(v any, table func(w *tabwriter.Writer)) error {
	switch p.format {
	case "yaml":
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "json":
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	}
}

// readYAML decodes a YAML file into v
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
