package stub

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
)

const (
	docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	zipType  = "application/zip"
)

func requireName(appName string) error {
	if strings.TrimSpace(appName) == "" {
		return fmt.Errorf("%w: appName is required", ErrBadRequest)
	}
	return nil
}

func (s *Server) handleDownloadManual(w http.ResponseWriter, r *http.Request) {
	var params types.DownloadManualParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	if err := requireName(params.AppName); err != nil {
		fail(w, err)
		return
	}
	g := model.NewGeneratedData(params.AppName)
	writeBlob(w, docxType, g.FileName(model.ArtifactCompleteDocument),
		document(params.AppName+"软件说明书", params.Chapters...))
}

func (s *Server) handleDownloadManualWithScreenshots(w http.ResponseWriter, r *http.Request) {
	var params types.DownloadManualWithScreenshotsParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	if err := requireName(params.AppName); err != nil {
		fail(w, err)
		return
	}
	sections := append([]string{}, params.Chapters...)
	for _, p := range params.ScreenshotPaths {
		sections = append(sections, "[截图] "+p)
	}
	g := model.NewGeneratedData(params.AppName)
	writeBlob(w, docxType, g.FileName(model.ArtifactCompleteDocument),
		document(params.AppName+"软件说明书", sections...))
}

func (s *Server) handleDownloadCode(w http.ResponseWriter, r *http.Request) {
	var params types.DownloadCodeParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	if err := requireName(params.AppName); err != nil {
		fail(w, err)
		return
	}
	g := model.NewGeneratedData(params.AppName)
	writeBlob(w, docxType, g.FileName(model.ArtifactFullCode),
		document(params.AppName+"源代码", params.FrontendCode, params.BackendCode))
}

func (s *Server) handleDownloadInfo(w http.ResponseWriter, r *http.Request) {
	var params types.DownloadSoftwareInfoParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	if err := requireName(params.AppName); err != nil {
		fail(w, err)
		return
	}
	g := model.NewGeneratedData(params.AppName)
	writeBlob(w, docxType, g.FileName(model.ArtifactSoftwareInfo),
		document(params.AppName+"软著申请表", infoText(softwareInfo(params.AppName))))
}

func (s *Server) handleDownloadAll(w http.ResponseWriter, r *http.Request) {
	var params types.DownloadAllMaterialsParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	if err := requireName(params.AppName); err != nil {
		fail(w, err)
		return
	}
	g := bundle(params.AppName)
	if params.FrontendCode != "" {
		g.SetFrontendCode(params.FrontendCode)
	}
	if params.BackendCode != "" {
		g.SetBackendCode(params.BackendCode)
	}
	for i, c := range params.Chapters {
		g.SetChapter(i+1, c)
	}
	data, err := zipBundle(g)
	if err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, zipType, params.AppName+"-软著材料.zip", data)
}

func (s *Server) handleDownloadTest(w http.ResponseWriter, r *http.Request) {
	var params types.AppNameParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, docxType, params.AppName+"-test.docx", document(params.AppName+"测试文档"))
}

func (s *Server) handleHeaderFooter(w http.ResponseWriter, r *http.Request) {
	var params types.AppNameParams
	if err := decode(r, &params); err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, docxType, params.AppName+"-header-footer.docx",
		document(params.AppName+" V1.0", "页眉："+params.AppName, "页脚：第 1 页"))
}
