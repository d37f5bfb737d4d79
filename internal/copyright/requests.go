// Package copyright builds and issues every backend call of the copyright
// registration assistant. Builders are pure and return client.Request
// descriptors; API executes them, one request per call.
package copyright

import (
	"io"
	"net/http"
	"strconv"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/domain/types"
)

// Paths of the JSON and blob endpoints served behind the shared client.
const (
	PathCopyrightList     = "/copyright/list"
	PathCopyrightCreate   = "/copyright/create"
	PathGenerateCode      = "/copyright/generate-code"
	PathGenerateDocument  = "/copyright/generate-document"
	PathUploadDocument    = "/copyright/upload-document"
	PathProjects          = "/agenthub/api/copyright/projects"
	PathGenerateNames     = "/api/generate-software-names"
	PathSaveSoftwareInfo  = "/save-software-info-to-word"
	PathDownloadManual    = "/api/download/manual"
	PathDownloadManualImg = "/api/download/manual-with-screenshots"
	PathDownloadCode      = "/api/download/code"
	PathDownloadInfo      = "/agenthub/api/download/info"
	PathDownloadAll       = "/agenthub/api/download/all"
	PathDownloadTest      = "/api/download/test"
	PathTestHeaderFooter  = "/api/test/header-footer"
)

const (
	endpointCopyright     = "/copyright/{id}"
	endpointSubmit        = "/copyright/{id}/submit"
	endpointProject       = "/agenthub/api/copyright/projects/{id}"
	endpointProjectGen    = "/agenthub/api/copyright/projects/{id}/generate"
	endpointProjectStatus = "/agenthub/api/copyright/projects/{id}/status"
)

func copyrightPath(id int64) string {
	return "/copyright/" + strconv.FormatInt(id, 10)
}

func projectPath(projectID string) string {
	return PathProjects + "/" + projectID
}

// GetCopyrightList lists applications matching params.
func GetCopyrightList(params types.CopyrightSearchParams) client.Request {
	return client.Request{
		Method: http.MethodGet,
		Path:   PathCopyrightList,
		Query:  params.Values(),
	}
}

// GetCopyrightDetail fetches one application.
func GetCopyrightDetail(id int64) client.Request {
	return client.Request{
		Method:   http.MethodGet,
		Path:     copyrightPath(id),
		Endpoint: endpointCopyright,
	}
}

// CreateCopyright creates an application.
func CreateCopyright(params types.CreateCopyrightParams) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathCopyrightCreate,
		Body:   params,
	}
}

// UpdateCopyright sends the fields set in params.
func UpdateCopyright(id int64, params types.UpdateCopyrightParams) client.Request {
	return client.Request{
		Method:   http.MethodPut,
		Path:     copyrightPath(id),
		Endpoint: endpointCopyright,
		Body:     params,
	}
}

// DeleteCopyright removes an application.
func DeleteCopyright(id int64) client.Request {
	return client.Request{
		Method:   http.MethodDelete,
		Path:     copyrightPath(id),
		Endpoint: endpointCopyright,
	}
}

// SubmitCopyright submits an application for registration. No body is sent.
func SubmitCopyright(id int64) client.Request {
	return client.Request{
		Method:   http.MethodPost,
		Path:     copyrightPath(id) + "/submit",
		Endpoint: endpointSubmit,
	}
}

// GenerateCode asks the backend for generated code.
func GenerateCode(params types.CodeGenerationParams) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathGenerateCode,
		Body:   params,
	}
}

// GenerateDocument starts document generation for an application.
func GenerateDocument(params types.GenerateDocumentParams) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathGenerateDocument,
		Body:   params,
	}
}

// CreateProject registers a server-side generation project.
func CreateProject(params types.CreateProjectParams) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathProjects,
		Body:   params,
	}
}

// GetProjects lists generation projects.
func GetProjects() client.Request {
	return client.Request{
		Method: http.MethodGet,
		Path:   PathProjects,
	}
}

// StartProjectGeneration kicks off generation of a project.
func StartProjectGeneration(projectID string) client.Request {
	return client.Request{
		Method:   http.MethodPost,
		Path:     projectPath(projectID) + "/generate",
		Endpoint: endpointProjectGen,
	}
}

// GetProjectStatus polls a project's progress.
func GetProjectStatus(projectID string) client.Request {
	return client.Request{
		Method:   http.MethodGet,
		Path:     projectPath(projectID) + "/status",
		Endpoint: endpointProjectStatus,
	}
}

// DeleteProject removes a project.
func DeleteProject(projectID string) client.Request {
	return client.Request{
		Method:   http.MethodDelete,
		Path:     projectPath(projectID),
		Endpoint: endpointProject,
	}
}

// UploadDocument sends a document as multipart form data with exactly three
// parts: file, applicationId and type. The content is read when the request
// is built.
func UploadDocument(fileName string, content io.Reader, applicationID int64, docType string) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathUploadDocument,
		Form: []client.FormField{
			{Name: "file", FileName: fileName, Content: content},
			{Name: "applicationId", Value: strconv.FormatInt(applicationID, 10)},
			{Name: "type", Value: docType},
		},
	}
}

// GenerateSoftwareName asks the backend for name suggestions in one response.
func GenerateSoftwareName(domain string) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathGenerateNames,
		Body:   map[string]string{"domain": domain},
	}
}

// SaveSoftwareInfoToWord renders SoftwareInfo into a Word document server-side.
func SaveSoftwareInfoToWord(params types.SaveSoftwareInfoParams) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   PathSaveSoftwareInfo,
		Body:   params,
	}
}

func blob(path string, body any) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Mode:   client.ModeBlob,
	}
}

// DownloadManual downloads the user manual.
func DownloadManual(params types.DownloadManualParams) client.Request {
	return blob(PathDownloadManual, params)
}

// DownloadManualWithScreenshots downloads the manual with screenshots embedded.
func DownloadManualWithScreenshots(params types.DownloadManualWithScreenshotsParams) client.Request {
	return blob(PathDownloadManualImg, params)
}

// DownloadCode downloads the source code document.
func DownloadCode(params types.DownloadCodeParams) client.Request {
	return blob(PathDownloadCode, params)
}

// DownloadSoftwareInfo downloads the software information form.
func DownloadSoftwareInfo(params types.DownloadSoftwareInfoParams) client.Request {
	return blob(PathDownloadInfo, params)
}

// DownloadAllMaterials downloads the zipped bundle of every artifact.
func DownloadAllMaterials(params types.DownloadAllMaterialsParams) client.Request {
	return blob(PathDownloadAll, params)
}

// DownloadTest downloads the backend's sample document.
func DownloadTest(params types.AppNameParams) client.Request {
	return blob(PathDownloadTest, params)
}

// TestHeaderFooter downloads a document exercising header and footer layout.
func TestHeaderFooter(params types.AppNameParams) client.Request {
	return blob(PathTestHeaderFooter, params)
}
