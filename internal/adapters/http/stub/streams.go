package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/softcopyright/internal/adapters/http/stream"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

func chapterParams(n int) types.GenerateDocumentChapterParams {
	return types.GenerateDocumentChapterParams{ChapterNum: n}
}

// progress sends a progress frame on the data event.
func progress(ctx context.Context, sw *sseWriter, pct int, msg string) error {
	return sw.send(ctx, eventData, types.StreamEvent{Progress: pct, Message: msg})
}

// streamError reports err on the error event.
func streamError(ctx context.Context, sw *sseWriter, err error) {
	_ = sw.send(ctx, eventError, types.StreamEvent{Error: err.Error()})
}

// decodeStream decodes the request body, answering with an error frame on
// failure.
func (s *Server) decodeStream(w http.ResponseWriter, r *http.Request, v any) (*sseWriter, bool) {
	sw := newSSEWriter(w, s.delay)
	if err := decode(r, v); err != nil {
		streamError(r.Context(), sw, err)
		return sw, false
	}
	return sw, true
}

func (s *Server) finishStream(ctx context.Context, path string, err error) {
	if err != nil {
		s.logger.Debug(ctx, "stream ended early", logger.String("path", path), logger.Error(err))
	}
}

type chatChunk struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int            `json:"index"`
	Delta        map[string]any `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

// promptDomain extracts the quoted domain from the names prompt.
func promptDomain(prompt string) string {
	_, rest, found := strings.Cut(prompt, "'")
	if !found {
		return ""
	}
	domain, _, _ := strings.Cut(rest, "'")
	return domain
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatCompletionRequest
	sw, good := s.decodeStream(w, r, &req)
	if !good {
		return
	}
	ctx := r.Context()
	var prompt string
	for _, m := range req.Messages {
		if m.Role == "user" {
			prompt = m.Content
		}
	}
	domain := promptDomain(prompt)
	if domain == "" {
		streamError(ctx, sw, fmt.Errorf("%w: prompt carries no domain", ErrBadRequest))
		return
	}

	id := "chatcmpl-" + uuid.NewString()
	chunk := func(delta map[string]any, finish *string) chatChunk {
		return chatChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Model:   req.Model,
			Choices: []chatChoice{{Index: 0, Delta: delta, FinishReason: finish}},
		}
	}
	err := sw.send(ctx, "", chunk(map[string]any{"role": "assistant"}, nil))
	for _, name := range copyright.FallbackNames(domain, nil) {
		if err != nil {
			break
		}
		err = sw.send(ctx, "", chunk(map[string]any{"content": name + "\n"}, nil))
	}
	if err == nil {
		stop := "stop"
		err = sw.send(ctx, "", chunk(map[string]any{}, &stop))
	}
	if err == nil {
		err = sw.raw(ctx, "", stream.DoneMarker)
	}
	s.finishStream(ctx, r.URL.Path, err)
}

func (s *Server) handleExtractInfo(w http.ResponseWriter, r *http.Request) {
	var params types.ExtractSoftwareInfoParams
	sw, good := s.decodeStream(w, r, &params)
	if !good {
		return
	}
	ctx := r.Context()
	if strings.TrimSpace(params.Chapter1) == "" {
		streamError(ctx, sw, fmt.Errorf("%w: chapter1 is required", ErrBadRequest))
		return
	}
	name, _, _ := strings.Cut(strings.TrimSpace(params.Chapter1), "\n")
	info := softwareInfo(strings.TrimSpace(name))
	raw, err := json.Marshal(info)
	if err == nil {
		err = progress(ctx, sw, 50, "正在提取软件信息...")
	}
	if err == nil {
		err = sw.send(ctx, eventData, types.StreamEvent{
			Progress:  100,
			Completed: true,
			Content:   string(raw),
			Stage:     "软件信息提取完成",
		})
	}
	s.finishStream(ctx, r.URL.Path, err)
}

func (s *Server) handleFrontend(w http.ResponseWriter, r *http.Request) {
	var params types.GenerateFrontendCodeParams
	sw, good := s.decodeStream(w, r, &params)
	if !good {
		return
	}
	ctx := r.Context()
	if err := requireName(params.AppName); err != nil {
		streamError(ctx, sw, err)
		return
	}
	err := progress(ctx, sw, 10, "正在生成完整前端代码...")
	if err == nil {
		err = progress(ctx, sw, 90, "前端代码生成完成，正在验证...")
	}
	if err == nil {
		err = sw.send(ctx, eventData, types.StreamEvent{
			Progress:  100,
			Completed: true,
			FullCode:  frontendPage(params.AppName),
			Stage:     "前端代码生成完成",
		})
	}
	s.finishStream(ctx, r.URL.Path, err)
}

func (s *Server) handleBackend(w http.ResponseWriter, r *http.Request) {
	var params types.GenerateBackendCodeParams
	sw, good := s.decodeStream(w, r, &params)
	if !good {
		return
	}
	ctx := r.Context()
	if err := requireName(params.AppName); err != nil {
		streamError(ctx, sw, err)
		return
	}
	err := progress(ctx, sw, 10, "正在分析前端代码...")
	if err == nil {
		err = progress(ctx, sw, 60, "正在生成后端代码...")
	}
	if err == nil {
		err = sw.send(ctx, eventData, types.StreamEvent{
			Progress:  100,
			Completed: true,
			FullCode:  backendCode(params.AppName),
			Stage:     "后端代码生成完成",
		})
	}
	s.finishStream(ctx, r.URL.Path, err)
}

func (s *Server) handleChapter(n int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params types.GenerateDocumentChapterParams
		sw, good := s.decodeStream(w, r, &params)
		if !good {
			return
		}
		ctx := r.Context()
		if err := requireName(params.AppName); err != nil {
			streamError(ctx, sw, err)
			return
		}
		title := chapterTitles[n-1]
		err := progress(ctx, sw, 10, "正在生成"+title+"...")
		if err == nil {
			err = sw.send(ctx, eventData, types.StreamEvent{
				Progress:       100,
				Completed:      true,
				ChapterContent: chapterText(n, params.AppName),
				Stage:          title + "生成完成",
			})
		}
		s.finishStream(ctx, r.URL.Path, err)
	}
}

// pipelineStep is one stage of the full generation, in pipeline order.
type pipelineStep struct {
	artifact model.Artifact
	kind     string
	message  string
}

var pipeline = []pipelineStep{
	{model.ArtifactFrontendCode, "frontend", "前端代码生成完成"},
	{model.ArtifactBackendCode, "backend", "后端代码生成完成"},
	{model.ArtifactChapters, "chapters", "说明书章节生成完成"},
	{model.ArtifactSoftwareInfo, "info", "软件信息提取完成"},
}

// runPipeline reports each stage of bundle(appName) on the given event name.
func runPipeline(ctx context.Context, sw *sseWriter, event, fileID, appName string) (*model.GeneratedData, error) {
	g := bundle(appName)
	for i, step := range pipeline {
		pct := (i + 1) * 100 / (len(pipeline) + 1)
		err := sw.send(ctx, event, types.StreamEvent{
			Type:     step.kind + "_complete",
			FileID:   fileID,
			Progress: pct,
			Message:  step.message,
			Stage:    string(step.artifact),
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *Server) handleParallel(w http.ResponseWriter, r *http.Request) {
	var params types.GenerateParallelParams
	sw, good := s.decodeStream(w, r, &params)
	if !good {
		return
	}
	ctx := r.Context()
	if err := requireName(params.AppName); err != nil {
		streamError(ctx, sw, err)
		return
	}
	fileID := uuid.NewString()
	err := sw.send(ctx, eventProgress, types.StreamEvent{Type: "start", FileID: fileID, Message: "开始全并行生成所有内容..."})
	var g *model.GeneratedData
	if err == nil {
		g, err = runPipeline(ctx, sw, eventProgress, fileID, params.AppName)
	}
	if err == nil {
		if params.FrontendCode != "" {
			g.SetFrontendCode(params.FrontendCode)
		}
		err = sw.send(ctx, eventComplete, types.StreamEvent{
			FileID:    fileID,
			Progress:  100,
			Completed: true,
			Message:   "全并行生成完成，所有内容已保存到文件",
			FullCode:  g.FrontendCode,
		})
	}
	s.finishStream(ctx, r.URL.Path, err)
}

func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var params types.GenerateAllParams
	sw, good := s.decodeStream(w, r, &params)
	if !good {
		return
	}
	ctx := r.Context()
	if err := requireName(params.AppName); err != nil {
		streamError(ctx, sw, err)
		return
	}
	g, err := runPipeline(ctx, sw, eventData, "", params.AppName)
	if err == nil {
		err = sw.send(ctx, eventData, types.StreamEvent{
			Progress:  100,
			Completed: true,
			FullCode:  g.FullCode,
			Content:   g.CompleteDocument,
			Stage:     "全部生成完成",
		})
	}
	s.finishStream(ctx, r.URL.Path, err)
}
