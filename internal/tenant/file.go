package tenant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileSource serves tenants from a YAML (or JSON) document on disk. The file
// is re-read on every Fetch so external edits show up on the next refresh;
// wrap it in a CachedSource to bound the I/O.
//
// Accepted shapes:
//
//	tenants:
//	  - id: t-1
//	    name: Alice Example
//
// or a bare top-level list of tenants.
type FileSource struct {
	path string
}

// Compile-time check.
var _ Source = (*FileSource)(nil)

// NewFileSource returns a source reading path. The file does not need to
// exist yet; a missing file reads as an empty list.
func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("tenant data file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant data file: %w", err)
	}
	return &FileSource{path: abs}, nil
}

// Path returns the absolute path of the backing file.
func (s *FileSource) Path() string { return s.path }

// Fetch reads the file and applies the cheap parts of q (search text,
// watchlist-only, arrears-only), the way a remote API would.
func (s *FileSource) Fetch(ctx context.Context, q Query) ([]Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Tenant, 0, len(all))
	for _, t := range all {
		if q.WatchlistOnly && !t.Watchlist {
			continue
		}
		if q.ArrearsOnly && t.Arrears == nil {
			continue
		}
		if needle != "" && !containsFold(t, needle) {
			continue
		}
		out = append(out, t)
	}
	SortByName(out)
	return out, nil
}

// Get returns the tenant with the given id.
func (s *FileSource) Get(ctx context.Context, id string) (Tenant, error) {
	if err := ctx.Err(); err != nil {
		return Tenant{}, err
	}
	all, err := s.readAll()
	if err != nil {
		return Tenant{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return Tenant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func containsFold(t Tenant, needle string) bool {
	for _, field := range []string{t.Name, t.Email, t.Phone} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// rawTenant mirrors Tenant with string timestamps so both YAML timestamps
// and JSON strings decode the same way.
type rawTenant struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Email            string   `yaml:"email"`
	Phone            string   `yaml:"phone"`
	Tags             []string `yaml:"tags"`
	Stage            string   `yaml:"stage"`
	HealthScore      *float64 `yaml:"health_score"`
	Watchlist        bool     `yaml:"watchlist"`
	Arrears          *Arrears `yaml:"arrears"`
	LastTouchpointAt string   `yaml:"last_touchpoint_at"`
	NextEventAt      string   `yaml:"next_event_at"`
}

func (s *FileSource) readAll() ([]Tenant, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tenant data file %s: %w", s.path, err)
	}
	raws, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse tenant data file %s: %w", s.path, err)
	}

	out := make([]Tenant, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, r := range raws {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("parse tenant data file %s: entry %d has no id", s.path, i)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		t := Tenant{
			ID:          id,
			Name:        strings.TrimSpace(r.Name),
			Email:       strings.TrimSpace(r.Email),
			Phone:       strings.TrimSpace(r.Phone),
			Tags:        r.Tags,
			Stage:       Stage(strings.ToLower(strings.TrimSpace(r.Stage))),
			HealthScore: r.HealthScore,
			Watchlist:   r.Watchlist,
			Arrears:     r.Arrears,
		}
		if t.LastTouchpointAt, err = parseTimestamp(r.LastTouchpointAt); err != nil {
			return nil, fmt.Errorf("tenant %s last_touchpoint_at: %w", id, err)
		}
		if t.NextEventAt, err = parseTimestamp(r.NextEventAt); err != nil {
			return nil, fmt.Errorf("tenant %s next_event_at: %w", id, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeDocument(data []byte) ([]rawTenant, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]

	var raws []rawTenant
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&raws); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped struct {
			Tenants []rawTenant `yaml:"tenants"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return nil, err
		}
		raws = wrapped.Tenants
	default:
		return nil, fmt.Errorf("unexpected document kind at line %d", doc.Line)
	}
	return raws, nil
}

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTimestamp(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", s)
}
