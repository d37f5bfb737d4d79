package stub

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

const maxUploadBytes = 32 << 20

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", ErrBadRequest)
	}
	return id, nil
}

func searchParams(r *http.Request) (types.CopyrightSearchParams, error) {
	q := r.URL.Query()
	p := types.CopyrightSearchParams{
		AppName: q.Get("appName"),
		Status:  types.Status(q.Get("status")),
	}
	if dr := q["dateRange"]; len(dr) > 0 {
		if len(dr) != 2 {
			return p, fmt.Errorf("%w: dateRange needs two values", ErrBadRequest)
		}
		p.DateRange = &[2]string{dr[0], dr[1]}
	}
	for key, dst := range map[string]*int{"current": &p.Current, "pageSize": &p.PageSize} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
			}
			*dst = n
		}
	}
	return p, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		fail(w, err)
		return
	}
	records, total, err := s.store.Applications(r.Context(), params)
	if err != nil {
		fail(w, err)
		return
	}
	size := params.PageSize
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	current := max(params.Current, 1)
	pages := (total + size - 1) / size
	ok(w, "", types.Page[types.CopyrightApplication]{
		Records: records,
		Total:   total,
		Size:    size,
		Current: current,
		Pages:   pages,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var params types.CreateCopyrightParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	app, err := s.store.CreateApplication(r.Context(), params)
	if err != nil {
		fail(w, err)
		return
	}
	s.logger.Info(r.Context(), "application created",
		logger.Int64("id", app.ID),
		logger.String("app_name", app.AppName))
	ok(w, "创建成功", app)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	app, err := s.store.Application(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "", app)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	var params types.UpdateCopyrightParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	app, err := s.store.UpdateApplication(r.Context(), id, params)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "更新成功", app)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	if err := s.store.DeleteApplication(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	ok[any](w, "删除成功", nil)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	app, err := s.store.Application(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	app, err = s.store.SetStatus(r.Context(), id, types.StatusSubmitted, app.Progress)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "提交成功", app)
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var params types.CodeGenerationParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	g := model.NewGeneratedData(params.AppName)
	var res types.CodeGenerationResult
	switch params.Type {
	case types.CodeFrontend:
		res = types.CodeGenerationResult{Code: frontendPage(params.AppName), FileName: g.FileName(model.ArtifactFrontendCode), Language: "html"}
	case types.CodeBackend:
		res = types.CodeGenerationResult{Code: backendCode(params.AppName), FileName: g.FileName(model.ArtifactBackendCode), Language: "java"}
	case types.CodeFull:
		res = types.CodeGenerationResult{Code: bundle(params.AppName).FullCode, FileName: g.FileName(model.ArtifactFullCode), Language: "text"}
	default:
		fail(w, fmt.Errorf("%w: unknown code type %q", ErrBadRequest, params.Type))
		return
	}
	ok(w, "", res)
}

func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	var params types.GenerateDocumentParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	app, err := s.store.Application(r.Context(), params.ApplicationID)
	if err != nil {
		fail(w, err)
		return
	}
	name := model.NewGeneratedData(app.AppName).FileName(model.ArtifactCompleteDocument)
	if err := s.store.AddFile(r.Context(), app.ID, name); err != nil {
		fail(w, err)
		return
	}
	app, err = s.store.SetStatus(r.Context(), app.ID, types.StatusCompleted, 100)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, "文档生成完成", app)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, fmt.Errorf("%w: missing file", ErrBadRequest))
		return
	}
	defer file.Close()

	id, err := strconv.ParseInt(r.FormValue("applicationId"), 10, 64)
	if err != nil {
		fail(w, fmt.Errorf("%w: applicationId must be an integer", ErrBadRequest))
		return
	}
	docType := strings.TrimSpace(r.FormValue("type"))
	if docType == "" {
		fail(w, fmt.Errorf("%w: missing type", ErrBadRequest))
		return
	}
	if err := s.store.AddFile(r.Context(), id, header.Filename); err != nil {
		fail(w, err)
		return
	}
	ok(w, "上传成功", map[string]any{
		"fileName": header.Filename,
		"size":     header.Size,
		"type":     docType,
	})
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain string `json:"domain"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		fail(w, fmt.Errorf("%w: 请提供专业领域或方向", ErrBadRequest))
		return
	}
	ok(w, "", map[string]any{
		"success": true,
		"names":   copyright.FallbackNames(req.Domain, nil),
	})
}

func (s *Server) handleSaveInfo(w http.ResponseWriter, r *http.Request) {
	var params types.SaveSoftwareInfoParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	ok(w, "保存成功", map[string]string{
		"fileName": model.NewGeneratedData(params.AppName).FileName(model.ArtifactSoftwareInfo),
	})
}
