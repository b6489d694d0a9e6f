// Package report collects per-file results of a decompiler run and writes
// them as YAML.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusWarnings Status = "warnings"
	StatusInvalid  Status = "invalid" /* not a precompiled chunk */
	StatusFailed   Status = "failed"
)

// File is the outcome for one input file.
type File struct {
	Input    string   `yaml:"input"`
	Output   string   `yaml:"output,omitempty"`
	Status   Status   `yaml:"status"`
	Warnings []string `yaml:"warnings,omitempty"`
	Error    string   `yaml:"error,omitempty"`
}

type Summary struct {
	Total    int `yaml:"total"`
	OK       int `yaml:"ok"`
	Warnings int `yaml:"warnings"`
	Invalid  int `yaml:"invalid"`
	Failed   int `yaml:"failed"`
}

// Report is safe for concurrent use by the driver workers.
type Report struct {
	Generated string
	Tool      string

	mu    sync.Mutex
	files []File
}

type reportDisk struct {
	Generated string  `yaml:"generated"`
	Tool      string  `yaml:"tool"`
	Summary   Summary `yaml:"summary"`
	Files     []File  `yaml:"files"`
}

func New(tool string) *Report {
	return &Report{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
	}
}

func (r *Report) Add(f File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

// Files returns the recorded entries ordered by input path.
func (r *Report) Files() []File {
	r.mu.Lock()
	files := make([]File, len(r.files))
	copy(files, r.files)
	r.mu.Unlock()

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Input < files[j].Input
	})
	return files
}

func (r *Report) Summary() Summary {
	return summarize(r.Files())
}

func summarize(files []File) Summary {
	s := Summary{Total: len(files)}
	for _, f := range files {
		switch f.Status {
		case StatusOK:
			s.OK++
		case StatusWarnings:
			s.Warnings++
		case StatusInvalid:
			s.Invalid++
		default:
			s.Failed++
		}
	}
	return s
}

func (r *Report) Encode(w io.Writer) error {
	files := r.Files()
	data := reportDisk{
		Generated: r.Generated,
		Tool:      r.Tool,
		Summary:   summarize(files),
		Files:     files,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: encoder close: %w", err)
	}
	return nil
}

func (r *Report) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// Read parses a report previously written by Encode.
func Read(rd io.Reader) (*Report, error) {
	var raw reportDisk
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("report: parse: %w", err)
	}
	return &Report{
		Generated: raw.Generated,
		Tool:      raw.Tool,
		files:     raw.Files,
	}, nil
}
