// Package jobs loads scrape job definitions (YAML/JSON) for batch runs.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adda-Baaj/shifter-go/pkg/scrapeapi"
	"gopkg.in/yaml.v3"
)

// Job is one scrape request declared in a jobs file.
type Job struct {
	ID      string            `json:"id" yaml:"id"`
	Method  string            `json:"method" yaml:"method"`
	Params  map[string]string `json:"params" yaml:"params"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    map[string]string `json:"body" yaml:"body"`
}

type jobsFile struct {
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

// Registry holds the validated jobs of one file in declaration order.
// It is read-only after Parse.
type Registry struct {
	jobs []Job
	idx  map[string]Job
}

// Load reads and validates the jobs file at path.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("jobs file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jobs file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes and validates jobs from raw bytes. ext selects the decoder; empty tries all.
func Parse(raw []byte, ext string) (*Registry, error) {
	parsed, err := parseJobsFile(raw, ext)
	if err != nil {
		return nil, err
	}
	if len(parsed.Jobs) == 0 {
		return nil, errors.New("jobs file contains no jobs entries")
	}

	reg := &Registry{
		jobs: make([]Job, len(parsed.Jobs)),
		idx:  make(map[string]Job, len(parsed.Jobs)),
	}
	for i := range parsed.Jobs {
		j := sanitizeJob(parsed.Jobs[i])
		if err := validateJob(j); err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
		if _, exists := reg.idx[j.ID]; exists {
			return nil, fmt.Errorf("duplicate job id %q", j.ID)
		}
		reg.jobs[i] = j
		reg.idx[j.ID] = j
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseJobsFile(data []byte, ext string) (jobsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f jobsFile
		if err := d.fn(data, &f); err != nil {
			lastErr = fmt.Errorf("decode %s jobs: %w", d.name, err)
			continue
		}
		return f, nil
	}
	if lastErr != nil {
		return jobsFile{}, lastErr
	}
	return jobsFile{}, errors.New("jobs file format not recognized (expected YAML or JSON)")
}

func sanitizeJob(j Job) Job {
	j.ID = strings.TrimSpace(j.ID)
	j.Method = strings.ToUpper(strings.TrimSpace(j.Method))
	if j.Method == "" {
		j.Method = http.MethodGet
	}

	params := make(map[string]string, len(j.Params))
	for k, v := range j.Params {
		if k = strings.TrimSpace(k); k != "" {
			params[k] = v
		}
	}
	j.Params = params
	return j
}

func validateJob(j Job) error {
	if j.ID == "" {
		return errors.New("id is required")
	}
	switch j.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return fmt.Errorf("unsupported method %q for job %q", j.Method, j.ID)
	}
	if strings.TrimSpace(j.Params[string(scrapeapi.ParamURL)]) == "" {
		return fmt.Errorf("params.url is required for job %q", j.ID)
	}
	return nil
}

// All returns the jobs in declaration order.
func (r *Registry) All() []Job {
	if r == nil {
		return nil
	}
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}

// ByID returns the job with the given id.
func (r *Registry) ByID(id string) (Job, bool) {
	if r == nil {
		return Job{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, false
	}
	j, ok := r.idx[id]
	return j, ok
}

// Builder turns the job into a query builder.
func (j Job) Builder() *scrapeapi.QueryBuilder {
	qb := scrapeapi.NewQueryBuilder()
	for name, value := range j.Params {
		qb.Set(scrapeapi.Param(name), value)
	}
	return qb.SetHeaders(j.Headers).SetBody(j.Body)
}

// UnknownParams lists parameter names the API does not document, sorted.
// They are still forwarded.
func (j Job) UnknownParams() []string {
	var out []string
	for name := range j.Params {
		if !scrapeapi.Param(name).Known() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
