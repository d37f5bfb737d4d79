package stub

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/softcopyright/internal/adapters/mq/queue"
	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var params types.CreateProjectParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	p, err := s.store.CreateProject(r.Context(), params)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "项目创建成功", types.CreateProjectResult{
		ProjectID: p.ID,
		AppName:   p.AppName,
		Status:    p.Status,
		Message:   "项目创建成功",
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.Projects(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "", projects)
}

// handleStartProject queues the project for generation and answers at once.
// Progress is reported through the status route.
func (s *Server) handleStartProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.store.StartProject(ctx, r.PathValue("id"), len(pipeline))
	if err != nil {
		fail(w, err)
		return
	}
	if !s.jobs.Enqueue(ctx, queue.Job{ProjectID: p.ID, AppName: p.AppName}) {
		p.Status = types.ProjectError
		p.CurrentStep = "队列已满"
		p.GeneratingFiles = 0
		_ = s.store.UpdateProject(ctx, p)
		fail(w, ErrBusy)
		return
	}
	s.logger.Info(ctx, "project queued", logger.String("project_id", p.ID))
	ok(w, "生成任务已启动", map[string]string{"projectId": p.ID, "status": p.Status})
}

// Run generates one queued project, advancing its progress one pipeline
// step at a time. It implements worker.Runner.
func (s *Server) Run(ctx context.Context, job queue.Job) error {
	for i, step := range pipeline {
		if err := s.pause(ctx); err != nil {
			return s.cancelProject(ctx, job.ProjectID, err)
		}
		done := i + 1
		err := s.updateProject(ctx, job.ProjectID, func(p *types.Project) {
			p.Progress = done * 100 / (len(pipeline) + 1)
			p.CurrentStep = step.message
			p.CompletedFiles = done
			p.GeneratingFiles = len(pipeline) - done
		})
		if err != nil {
			return ignoreDeleted(err)
		}
	}

	g := bundle(job.AppName)
	err := s.updateProject(ctx, job.ProjectID, func(p *types.Project) {
		p.Status = types.ProjectCompleted
		p.Progress = 100
		p.CurrentStep = "完成"
		p.EndTime = time.Now().Format(time.DateTime)
		p.CompletedFiles = readyCount(g)
		p.GeneratingFiles = 0
	})
	if err != nil {
		return ignoreDeleted(err)
	}
	s.logger.Info(ctx, "project generated",
		logger.String("project_id", job.ProjectID),
		logger.Int("files", readyCount(g)))
	return nil
}

// pause waits the configured stream delay between pipeline steps.
func (s *Server) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

func (s *Server) updateProject(ctx context.Context, id string, fn func(*types.Project)) error {
	p, err := s.store.Project(ctx, id)
	if err != nil {
		return err
	}
	fn(&p)
	return s.store.UpdateProject(ctx, p)
}

// cancelProject marks the project cancelled after the worker was stopped.
func (s *Server) cancelProject(ctx context.Context, id string, cause error) error {
	err := s.updateProject(context.WithoutCancel(ctx), id, func(p *types.Project) {
		p.Status = types.ProjectCancelled
		p.GeneratingFiles = 0
		p.EndTime = time.Now().Format(time.DateTime)
	})
	if err = ignoreDeleted(err); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// ignoreDeleted treats a project removed mid-run as done.
func ignoreDeleted(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func readyCount(g *model.GeneratedData) int {
	n := 0
	for _, a := range model.Artifacts() {
		if g.Ready(a) {
			n++
		}
	}
	return n
}

func (s *Server) handleProjectStatus(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "", types.ProjectStatus{
		ProjectID:       p.ID,
		Status:          p.Status,
		Progress:        p.Progress,
		CurrentStep:     p.CurrentStep,
		CompletedFiles:  p.CompletedFiles,
		GeneratingFiles: p.GeneratingFiles,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
	})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		fail(w, err)
		return
	}
	ok[any](w, "删除成功", nil)
}
