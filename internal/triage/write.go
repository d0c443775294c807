package triage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/adambuttrick/triage-tool/internal/schemas"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteError reports a failure to serialize or save a report.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("write report %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("write report: %s: %v", e.Message, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

type document struct {
	Candidate     string               `json:"candidate"`
	RegistryID    string               `json:"registry_id,omitempty"`
	Fields        Fields               `json:"fields"`
	RORMatches    []types.Match        `json:"ror_matches,omitempty"`
	PriorRequests []types.PriorRequest `json:"prior_requests,omitempty"`
}

// Write serializes r to w in format. Text is the flat "field: value"
// listing followed by one "id, name, match_type" row per ROR match.
func Write(w io.Writer, r *Report, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return &WriteError{Message: "unsupported format", Cause: fmt.Errorf("%q", format)}
	}
}

func writeText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	for _, f := range r.Fields() {
		fmt.Fprintf(bw, "%s: %s\n", f.Name, f.Value)
	}
	for _, m := range r.RORMatches {
		fmt.Fprintf(bw, "%s, %s, %s\n", m.ID, m.Name, m.Type)
	}
	return bw.Flush()
}

func writeJSON(w io.Writer, r *Report) error {
	doc := document{
		Candidate:     r.Candidate,
		RegistryID:    r.RegistryID,
		Fields:        r.Fields(),
		RORMatches:    r.RORMatches,
		PriorRequests: r.PriorRequests,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &WriteError{Message: "encode JSON", Cause: err}
	}
	if err := schemas.ValidateReport(data); err != nil {
		return &WriteError{Message: "report does not match schema", Cause: err}
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeYAML(w io.Writer, r *Report) error {
	fields := make(yaml.MapSlice, 0, len(r.Fields()))
	for _, f := range r.Fields() {
		fields = append(fields, yaml.MapItem{Key: f.Name, Value: f.Value})
	}

	doc := yaml.MapSlice{{Key: "candidate", Value: r.Candidate}}
	if r.RegistryID != "" {
		doc = append(doc, yaml.MapItem{Key: "registry_id", Value: r.RegistryID})
	}
	doc = append(doc, yaml.MapItem{Key: "fields", Value: fields})
	if len(r.RORMatches) > 0 {
		doc = append(doc, yaml.MapItem{Key: "ror_matches", Value: r.RORMatches})
	}
	if len(r.PriorRequests) > 0 {
		doc = append(doc, yaml.MapItem{Key: "prior_requests", Value: r.PriorRequests})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return &WriteError{Message: "encode YAML", Cause: err}
	}
	_, err = w.Write(data)
	return err
}

// WriteFile saves r to path in format. Nothing is written for an empty
// report; written is false in that case.
func WriteFile(path string, r *Report, format string) (written bool, err error) {
	if r.Empty() {
		return false, nil
	}

	var buf bytes.Buffer
	if err := Write(&buf, r, format); err != nil {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, &WriteError{Path: path, Message: "create directory", Cause: err}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, &WriteError{Path: path, Message: "save file", Cause: err}
	}
	return true, nil
}
