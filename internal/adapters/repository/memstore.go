package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/softcopyright/internal/domain/types"
)

// timeLayout matches the backend's yyyy-MM-dd HH:mm:ss timestamps.
const timeLayout = "2006-01-02 15:04:05"

// DefaultPageSize applies when a list filter leaves PageSize unset.
const DefaultPageSize = 10

// MemoryStore is a mutex-guarded Store.
type MemoryStore struct {
	mu       sync.RWMutex
	apps     map[int64]types.CopyrightApplication
	projects map[string]types.Project
	nextID   int64

	now   func() time.Time
	newID func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		apps:     make(map[int64]types.CopyrightApplication),
		projects: make(map[string]types.Project),
		nextID:   1,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) stamp() string {
	return s.now().Format(timeLayout)
}

// CreateApplication implements Store.
func (s *MemoryStore) CreateApplication(_ context.Context, params types.CreateCopyrightParams) (types.CopyrightApplication, error) {
	if strings.TrimSpace(params.AppName) == "" {
		return types.CopyrightApplication{}, fmt.Errorf("%w: appName is required", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.stamp()
	app := types.CopyrightApplication{
		ID:             s.nextID,
		AppName:        params.AppName,
		Status:         types.StatusDraft,
		CreateTime:     ts,
		UpdateTime:     ts,
		GeneratedFiles: []string{},
	}
	if params.AppPrompt != "" {
		prompt := params.AppPrompt
		app.AppPrompt = &prompt
	}
	s.apps[app.ID] = app
	s.nextID++
	return app, nil
}

// Application implements Store.
func (s *MemoryStore) Application(_ context.Context, id int64) (types.CopyrightApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return types.CopyrightApplication{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	return app, nil
}

// Applications implements Store. The date range compares the date part of
// CreateTime, both ends inclusive.
func (s *MemoryStore) Applications(_ context.Context, filter types.CopyrightSearchParams) ([]types.CopyrightApplication, int, error) {
	s.mu.RLock()
	matched := make([]types.CopyrightApplication, 0, len(s.apps))
	for _, app := range s.apps {
		if matches(app, filter) {
			matched = append(matched, app)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	size := filter.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := filter.Current
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return []types.CopyrightApplication{}, total, nil
	}
	end := min(start+size, total)
	return matched[start:end], total, nil
}

func matches(app types.CopyrightApplication, f types.CopyrightSearchParams) bool {
	if f.AppName != "" && !strings.Contains(app.AppName, f.AppName) {
		return false
	}
	if f.Status != "" && app.Status != f.Status {
		return false
	}
	if f.DateRange != nil {
		day, _, _ := strings.Cut(app.CreateTime, " ")
		if day < f.DateRange[0] || day > f.DateRange[1] {
			return false
		}
	}
	return true
}

// UpdateApplication implements Store.
func (s *MemoryStore) UpdateApplication(_ context.Context, id int64, params types.UpdateCopyrightParams) (types.CopyrightApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return types.CopyrightApplication{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	if params.AppName != nil {
		app.AppName = *params.AppName
	}
	if params.AppPrompt != nil {
		prompt := *params.AppPrompt
		app.AppPrompt = &prompt
	}
	app.UpdateTime = s.stamp()
	s.apps[id] = app
	return app, nil
}

// SetStatus implements Store.
func (s *MemoryStore) SetStatus(_ context.Context, id int64, status types.Status, progress int) (types.CopyrightApplication, error) {
	if !status.Valid() {
		return types.CopyrightApplication{}, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return types.CopyrightApplication{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	app.Status = status
	app.Progress = progress
	app.UpdateTime = s.stamp()
	s.apps[id] = app
	return app, nil
}

// AddFile implements Store.
func (s *MemoryStore) AddFile(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	app.GeneratedFiles = append(append([]string(nil), app.GeneratedFiles...), name)
	app.UpdateTime = s.stamp()
	s.apps[id] = app
	return nil
}

// DeleteApplication implements Store.
func (s *MemoryStore) DeleteApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	delete(s.apps, id)
	return nil
}

// CreateProject implements Store.
func (s *MemoryStore) CreateProject(_ context.Context, params types.CreateProjectParams) (types.Project, error) {
	if strings.TrimSpace(params.AppName) == "" {
		return types.Project{}, fmt.Errorf("%w: appName is required", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.stamp()
	p := types.Project{
		ID:          s.newID(),
		ProjectName: params.AppName,
		AppName:     params.AppName,
		Domain:      params.Domain,
		AppPrompt:   params.AppPrompt,
		ModelID:     params.ModelID,
		Status:      types.ProjectPending,
		CreateTime:  ts,
		UpdateTime:  ts,
	}
	s.projects[p.ID] = p
	return p, nil
}

// Project implements Store.
func (s *MemoryStore) Project(_ context.Context, id string) (types.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return types.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Projects implements Store.
func (s *MemoryStore) Projects(_ context.Context) ([]types.Project, error) {
	s.mu.RLock()
	out := make([]types.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreateTime != out[j].CreateTime {
			return out[i].CreateTime > out[j].CreateTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// StartProject implements Store.
func (s *MemoryStore) StartProject(_ context.Context, id string, files int) (types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return types.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if p.Status == types.ProjectGenerating {
		return types.Project{}, fmt.Errorf("project %s is already generating: %w", id, ErrConflict)
	}
	ts := s.stamp()
	p.Status = types.ProjectGenerating
	p.Progress = 0
	p.CurrentStep = "排队中"
	p.StartTime = ts
	p.EndTime = ""
	p.CompletedFiles = 0
	p.GeneratingFiles = files
	p.UpdateTime = ts
	s.projects[id] = p
	return p, nil
}

// UpdateProject implements Store.
func (s *MemoryStore) UpdateProject(_ context.Context, p types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	p.UpdateTime = s.stamp()
	s.projects[p.ID] = p
	return nil
}

// DeleteProject implements Store.
func (s *MemoryStore) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(s.projects, id)
	return nil
}
