// Package repository holds the in-memory state behind the stub backend.
package repository

import (
	"context"

	"github.com/okian/softcopyright/internal/domain/types"
)

// Store provides read/write access to applications and generation projects.
type Store interface {
	// CreateApplication stores a draft application and returns it with its id.
	CreateApplication(ctx context.Context, params types.CreateCopyrightParams) (types.CopyrightApplication, error)
	// Application returns one application. Returns ErrNotFound if unknown.
	Application(ctx context.Context, id int64) (types.CopyrightApplication, error)
	// Applications returns the page of applications matching filter, newest
	// first, and the total match count.
	Applications(ctx context.Context, filter types.CopyrightSearchParams) ([]types.CopyrightApplication, int, error)
	// UpdateApplication applies the non-nil fields of params.
	UpdateApplication(ctx context.Context, id int64, params types.UpdateCopyrightParams) (types.CopyrightApplication, error)
	// SetStatus moves an application to status with the given progress.
	SetStatus(ctx context.Context, id int64, status types.Status, progress int) (types.CopyrightApplication, error)
	// AddFile records a generated or uploaded file on an application.
	AddFile(ctx context.Context, id int64, name string) error
	// DeleteApplication removes an application.
	DeleteApplication(ctx context.Context, id int64) error

	// CreateProject stores a pending project and returns it with its id.
	CreateProject(ctx context.Context, params types.CreateProjectParams) (types.Project, error)
	// Project returns one project. Returns ErrNotFound if unknown.
	Project(ctx context.Context, id string) (types.Project, error)
	// Projects returns every project, newest first.
	Projects(ctx context.Context) ([]types.Project, error)
	// StartProject moves a project to generating with files steps queued and
	// returns it. Returns ErrConflict if it is already generating.
	StartProject(ctx context.Context, id string, files int) (types.Project, error)
	// UpdateProject replaces a stored project.
	UpdateProject(ctx context.Context, p types.Project) error
	// DeleteProject removes a project.
	DeleteProject(ctx context.Context, id string) error
}
