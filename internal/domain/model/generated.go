// Package model contains the client-side aggregates the generator UI keeps
// while a generation run is in flight.
package model

import (
	"github.com/okian/softcopyright/internal/domain/types"
)

// Artifact names one output of a generation run.
type Artifact string

// Generation artifacts. Adding one here requires a status flag and a file
// name entry in the artifacts table below.
const (
	ArtifactFrontendCode     Artifact = "frontendCode"
	ArtifactBackendCode      Artifact = "backendCode"
	ArtifactFullCode         Artifact = "fullCode"
	ArtifactChapters         Artifact = "chapters"
	ArtifactCompleteDocument Artifact = "completeDocument"
	ArtifactSoftwareInfo     Artifact = "softwareInfo"
	ArtifactScreenshots      Artifact = "screenshots"
)

// Chapter keys used in FileNames.Chapters.
const (
	Chapter1 = "chapter1"
	Chapter2 = "chapter2"
	Chapter3 = "chapter3"
	Chapter4 = "chapter4"
)

// ChapterSet holds the four manual chapters.
type ChapterSet struct {
	Chapter1 string `json:"chapter1"`
	Chapter2 string `json:"chapter2"`
	Chapter3 string `json:"chapter3"`
	Chapter4 string `json:"chapter4"`
}

// Slice returns the chapters in order.
func (c ChapterSet) Slice() []string {
	return []string{c.Chapter1, c.Chapter2, c.Chapter3, c.Chapter4}
}

// Set stores text for chapter n (1-4). Other values are ignored.
func (c *ChapterSet) Set(n int, text string) {
	switch n {
	case 1:
		c.Chapter1 = text
	case 2:
		c.Chapter2 = text
	case 3:
		c.Chapter3 = text
	case 4:
		c.Chapter4 = text
	}
}

// GenerationStatus mirrors which artifacts are ready.
type GenerationStatus struct {
	Frontend    bool `json:"frontend"`
	Backend     bool `json:"backend"`
	Document    bool `json:"document"`
	Info        bool `json:"info"`
	Screenshots bool `json:"screenshots"`
	Complete    bool `json:"complete"`
}

// FileNames mirrors what each artifact is called on export.
type FileNames struct {
	FrontendCode        string            `json:"frontendCode"`
	BackendCode         string            `json:"backendCode"`
	FullCode            string            `json:"fullCode"`
	Chapters            map[string]string `json:"chapters"`
	CompleteDocument    string            `json:"completeDocument"`
	InfoDocument        string            `json:"infoDocument"`
	ScreenshotsDocument string            `json:"screenshotsDocument"`
}

// GeneratedData bundles every artifact of one generation run together with
// the readiness flags and export names that describe them.
type GeneratedData struct {
	AppName          string             `json:"appName"`
	FrontendCode     string             `json:"frontendCode"`
	BackendCode      string             `json:"backendCode"`
	FullCode         string             `json:"fullCode"`
	Chapters         ChapterSet         `json:"chapters"`
	CompleteDocument string             `json:"completeDocument"`
	SoftwareInfo     types.SoftwareInfo `json:"softwareInfo"`
	Screenshots      []string           `json:"screenshots"`
	GenerationStatus GenerationStatus   `json:"generationStatus"`
	FileNames        FileNames          `json:"fileNames"`
}

// artifactSpec binds an artifact to its status flag and its export name.
type artifactSpec struct {
	status      func(*GenerationStatus) *bool
	fileName    func(*FileNames) *string
	defaultName func(appName string) string
}

var artifacts = map[Artifact]artifactSpec{
	ArtifactFrontendCode: {
		status:      func(s *GenerationStatus) *bool { return &s.Frontend },
		fileName:    func(f *FileNames) *string { return &f.FrontendCode },
		defaultName: func(string) string { return "前端界面代码.html" },
	},
	ArtifactBackendCode: {
		status:      func(s *GenerationStatus) *bool { return &s.Backend },
		fileName:    func(f *FileNames) *string { return &f.BackendCode },
		defaultName: func(string) string { return "后端服务代码.txt" },
	},
	ArtifactFullCode: {
		// No flag of its own; readiness is the presence of the merged source.
		status:      nil,
		fileName:    func(f *FileNames) *string { return &f.FullCode },
		defaultName: func(app string) string { return app + "_source_code.docx" },
	},
	ArtifactChapters: {
		status: func(s *GenerationStatus) *bool { return &s.Document },
		// Chapters are named individually; see defaultChapterNames.
		fileName:    nil,
		defaultName: nil,
	},
	ArtifactCompleteDocument: {
		status:      func(s *GenerationStatus) *bool { return &s.Document },
		fileName:    func(f *FileNames) *string { return &f.CompleteDocument },
		defaultName: func(app string) string { return app + "-软件说明书.docx" },
	},
	ArtifactSoftwareInfo: {
		status:      func(s *GenerationStatus) *bool { return &s.Info },
		fileName:    func(f *FileNames) *string { return &f.InfoDocument },
		defaultName: func(app string) string { return app + "-软著申请表.docx" },
	},
	ArtifactScreenshots: {
		status:      func(s *GenerationStatus) *bool { return &s.Screenshots },
		fileName:    func(f *FileNames) *string { return &f.ScreenshotsDocument },
		defaultName: func(app string) string { return app + "-软件截图.docx" },
	},
}

func defaultChapterNames() map[string]string {
	return map[string]string{
		Chapter1: "第一章_系统概述.txt",
		Chapter2: "第二章_程序建立过程.txt",
		Chapter3: "第三章_程序功能介绍.txt",
		Chapter4: "第四章_总结与展望.txt",
	}
}

// Artifacts lists every artifact in pipeline order.
func Artifacts() []Artifact {
	return []Artifact{
		ArtifactFrontendCode,
		ArtifactBackendCode,
		ArtifactFullCode,
		ArtifactChapters,
		ArtifactCompleteDocument,
		ArtifactSoftwareInfo,
		ArtifactScreenshots,
	}
}

// NewGeneratedData returns an empty bundle for appName with every export
// name filled in and every flag cleared.
func NewGeneratedData(appName string) *GeneratedData {
	g := &GeneratedData{
		AppName:     appName,
		Screenshots: []string{},
		FileNames:   FileNames{Chapters: defaultChapterNames()},
	}
	for _, a := range Artifacts() {
		spec := artifacts[a]
		if spec.fileName != nil {
			*spec.fileName(&g.FileNames) = spec.defaultName(appName)
		}
	}
	return g
}

// MarkReady sets the readiness flag of a and recomputes Complete.
// Unknown artifacts are ignored.
func (g *GeneratedData) MarkReady(a Artifact) {
	spec, ok := artifacts[a]
	if !ok {
		return
	}
	if spec.status != nil {
		*spec.status(&g.GenerationStatus) = true
	}
	s := &g.GenerationStatus
	s.Complete = s.Frontend && s.Backend && s.Document && s.Info && s.Screenshots
}

// Ready reports whether the flag covering a is set. The merged source has
// no flag and is ready once stored.
func (g *GeneratedData) Ready(a Artifact) bool {
	spec, ok := artifacts[a]
	if !ok {
		return false
	}
	if spec.status == nil {
		return g.FullCode != ""
	}
	return *spec.status(&g.GenerationStatus)
}

// FileName returns the export name of a. For chapters it returns the name of
// chapter 1; use FileNames.Chapters for the others.
func (g *GeneratedData) FileName(a Artifact) string {
	spec, ok := artifacts[a]
	if !ok {
		return ""
	}
	if spec.fileName == nil {
		return g.FileNames.Chapters[Chapter1]
	}
	return *spec.fileName(&g.FileNames)
}

// SetFrontendCode stores the frontend page and marks it ready.
func (g *GeneratedData) SetFrontendCode(code string) {
	g.FrontendCode = code
	g.MarkReady(ArtifactFrontendCode)
}

// SetBackendCode stores the backend code and marks it ready.
func (g *GeneratedData) SetBackendCode(code string) {
	g.BackendCode = code
	g.MarkReady(ArtifactBackendCode)
}

// SetFullCode stores the merged source and marks it ready.
func (g *GeneratedData) SetFullCode(code string) {
	g.FullCode = code
	g.MarkReady(ArtifactFullCode)
}

// SetCompleteDocument stores the assembled manual and marks it ready.
func (g *GeneratedData) SetCompleteDocument(doc string) {
	g.CompleteDocument = doc
	g.MarkReady(ArtifactCompleteDocument)
}

// SetSoftwareInfo stores the extracted metadata and marks it ready.
func (g *GeneratedData) SetSoftwareInfo(info types.SoftwareInfo) {
	g.SoftwareInfo = info
	g.MarkReady(ArtifactSoftwareInfo)
}

// SetScreenshots stores screenshot references and marks them ready.
func (g *GeneratedData) SetScreenshots(paths []string) {
	g.Screenshots = append([]string(nil), paths...)
	g.MarkReady(ArtifactScreenshots)
}

// SetChapter stores chapter n. The document flag is raised once all four
// chapters are present.
func (g *GeneratedData) SetChapter(n int, text string) {
	g.Chapters.Set(n, text)
	for _, c := range g.Chapters.Slice() {
		if c == "" {
			return
		}
	}
	g.MarkReady(ArtifactChapters)
}
