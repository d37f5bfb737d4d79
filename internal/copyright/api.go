package copyright

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/adapters/http/stream"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

// API issues the builders' requests. JSON calls go through the shared client
// and return the body undecoded; blob calls return the raw payload; streaming
// calls bypass the shared client and return the live response, whose body the
// caller must close. Nothing is retried.
type API struct {
	shared   client.Doer
	streamer stream.Opener
	model    string
	logger   logger.Logger
}

// Option configures an API.
type Option func(*API)

// WithDefaultModel replaces DefaultModel for streaming calls that leave the
// model empty.
func WithDefaultModel(model string) Option {
	return func(a *API) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an API over the shared client and the streaming fetcher.
// streamer may be nil when no streaming call is made.
func New(shared client.Doer, streamer stream.Opener, opts ...Option) *API {
	a := &API{
		shared:   shared,
		streamer: streamer,
		model:    DefaultModel,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DecodeResult unmarshals a JSON call's body into the backend envelope.
func DecodeResult[T any](raw json.RawMessage) (types.Result[T], error) {
	var r types.Result[T]
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, client.WrapKind("copyright.decode", client.ErrDecode, err)
	}
	return r, nil
}

func (a *API) json(ctx context.Context, req client.Request) (json.RawMessage, error) {
	body, err := a.shared.Do(ctx, req, nil)
	return json.RawMessage(body), err
}

func (a *API) blob(ctx context.Context, req client.Request) ([]byte, error) {
	return a.shared.Do(ctx, req, nil)
}

func (a *API) open(ctx context.Context, req client.Request) (*http.Response, error) {
	if a.streamer == nil {
		return nil, ErrNoStreamer
	}
	a.logger.Debug(ctx, "opening generation stream", logger.String("path", req.Path))
	return a.streamer.Open(ctx, req)
}

func (a *API) modelOr(model string) string {
	if model == "" {
		return a.model
	}
	return model
}

// GetCopyrightList lists applications.
func (a *API) GetCopyrightList(ctx context.Context, params types.CopyrightSearchParams) (json.RawMessage, error) {
	return a.json(ctx, GetCopyrightList(params))
}

// GetCopyrightDetail fetches one application.
func (a *API) GetCopyrightDetail(ctx context.Context, id int64) (json.RawMessage, error) {
	return a.json(ctx, GetCopyrightDetail(id))
}

// CreateCopyright creates an application.
func (a *API) CreateCopyright(ctx context.Context, params types.CreateCopyrightParams) (json.RawMessage, error) {
	return a.json(ctx, CreateCopyright(params))
}

// UpdateCopyright updates the fields set in params.
func (a *API) UpdateCopyright(ctx context.Context, id int64, params types.UpdateCopyrightParams) (json.RawMessage, error) {
	return a.json(ctx, UpdateCopyright(id, params))
}

// DeleteCopyright removes an application.
func (a *API) DeleteCopyright(ctx context.Context, id int64) (json.RawMessage, error) {
	return a.json(ctx, DeleteCopyright(id))
}

// SubmitCopyright submits an application.
func (a *API) SubmitCopyright(ctx context.Context, id int64) (json.RawMessage, error) {
	return a.json(ctx, SubmitCopyright(id))
}

// GenerateCode requests generated code.
func (a *API) GenerateCode(ctx context.Context, params types.CodeGenerationParams) (json.RawMessage, error) {
	return a.json(ctx, GenerateCode(params))
}

// GenerateDocument starts document generation.
func (a *API) GenerateDocument(ctx context.Context, params types.GenerateDocumentParams) (json.RawMessage, error) {
	return a.json(ctx, GenerateDocument(params))
}

// CreateProject registers a generation project.
func (a *API) CreateProject(ctx context.Context, params types.CreateProjectParams) (json.RawMessage, error) {
	return a.json(ctx, CreateProject(params))
}

// GetProjects lists generation projects.
func (a *API) GetProjects(ctx context.Context) (json.RawMessage, error) {
	return a.json(ctx, GetProjects())
}

// StartProjectGeneration starts a project's generation.
func (a *API) StartProjectGeneration(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.json(ctx, StartProjectGeneration(projectID))
}

// GetProjectStatus polls a project.
func (a *API) GetProjectStatus(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.json(ctx, GetProjectStatus(projectID))
}

// DeleteProject removes a project.
func (a *API) DeleteProject(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.json(ctx, DeleteProject(projectID))
}

// UploadDocument uploads a document for an application.
func (a *API) UploadDocument(ctx context.Context, fileName string, content io.Reader, applicationID int64, docType string) (json.RawMessage, error) {
	return a.json(ctx, UploadDocument(fileName, content, applicationID, docType))
}

// GenerateSoftwareName requests name suggestions in one response.
func (a *API) GenerateSoftwareName(ctx context.Context, domain string) (json.RawMessage, error) {
	return a.json(ctx, GenerateSoftwareName(domain))
}

// SaveSoftwareInfoToWord renders SoftwareInfo server-side.
func (a *API) SaveSoftwareInfoToWord(ctx context.Context, params types.SaveSoftwareInfoParams) (json.RawMessage, error) {
	return a.json(ctx, SaveSoftwareInfoToWord(params))
}

// DownloadManual returns the manual document bytes.
func (a *API) DownloadManual(ctx context.Context, params types.DownloadManualParams) ([]byte, error) {
	return a.blob(ctx, DownloadManual(params))
}

// DownloadManualWithScreenshots returns the illustrated manual bytes.
func (a *API) DownloadManualWithScreenshots(ctx context.Context, params types.DownloadManualWithScreenshotsParams) ([]byte, error) {
	return a.blob(ctx, DownloadManualWithScreenshots(params))
}

// DownloadCode returns the source code document bytes.
func (a *API) DownloadCode(ctx context.Context, params types.DownloadCodeParams) ([]byte, error) {
	return a.blob(ctx, DownloadCode(params))
}

// DownloadSoftwareInfo returns the software information form bytes.
func (a *API) DownloadSoftwareInfo(ctx context.Context, params types.DownloadSoftwareInfoParams) ([]byte, error) {
	return a.blob(ctx, DownloadSoftwareInfo(params))
}

// DownloadAllMaterials returns the zipped bundle.
func (a *API) DownloadAllMaterials(ctx context.Context, params types.DownloadAllMaterialsParams) ([]byte, error) {
	return a.blob(ctx, DownloadAllMaterials(params))
}

// DownloadTest returns the sample document bytes.
func (a *API) DownloadTest(ctx context.Context, params types.AppNameParams) ([]byte, error) {
	return a.blob(ctx, DownloadTest(params))
}

// TestHeaderFooter returns the header and footer sample bytes.
func (a *API) TestHeaderFooter(ctx context.Context, params types.AppNameParams) ([]byte, error) {
	return a.blob(ctx, TestHeaderFooter(params))
}

// GenerateSoftwareNameStream streams name suggestions for domain.
func (a *API) GenerateSoftwareNameStream(ctx context.Context, domain, model string) (*http.Response, error) {
	return a.open(ctx, GenerateSoftwareNameStream(domain, a.modelOr(model)))
}

// ExtractSoftwareInfo streams SoftwareInfo extracted from chapter 1.
func (a *API) ExtractSoftwareInfo(ctx context.Context, params types.ExtractSoftwareInfoParams) (*http.Response, error) {
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, ExtractSoftwareInfo(params))
}

// GenerateParallel streams the parallel generation.
func (a *API) GenerateParallel(ctx context.Context, params types.GenerateParallelParams) (*http.Response, error) {
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, GenerateParallel(params))
}

// GenerateFrontendCodeStream streams the frontend page.
func (a *API) GenerateFrontendCodeStream(ctx context.Context, params types.GenerateFrontendCodeParams) (*http.Response, error) {
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, GenerateFrontendCodeStream(params))
}

// GenerateBackendCodeStream streams the backend code.
func (a *API) GenerateBackendCodeStream(ctx context.Context, params types.GenerateBackendCodeParams) (*http.Response, error) {
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, GenerateBackendCodeStream(params))
}

// GenerateDocumentChapterStream streams one manual chapter.
func (a *API) GenerateDocumentChapterStream(ctx context.Context, params types.GenerateDocumentChapterParams) (*http.Response, error) {
	if params.ChapterNum < 1 || params.ChapterNum > ChapterCount {
		return nil, fmt.Errorf("chapter %d: %w", params.ChapterNum, ErrInvalidChapter)
	}
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, GenerateDocumentChapterStream(params))
}

// GenerateAllStream streams the whole pipeline.
func (a *API) GenerateAllStream(ctx context.Context, params types.GenerateAllParams) (*http.Response, error) {
	params.ModelID = a.modelOr(params.ModelID)
	return a.open(ctx, GenerateAllStream(params))
}
