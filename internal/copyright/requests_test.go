package copyright_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func bodyMap(req client.Request) map[string]any {
	raw, err := json.Marshal(req.Body)
	So(err, ShouldBeNil)
	var m map[string]any
	So(json.Unmarshal(raw, &m), ShouldBeNil)
	return m
}

func TestBuilderRoutes(t *testing.T) {
	Convey("Given every request builder", t, func() {
		cases := []struct {
			name   string
			req    client.Request
			method string
			path   string
			mode   client.Mode
		}{
			{"list", copyright.GetCopyrightList(types.CopyrightSearchParams{}), http.MethodGet, "/copyright/list", client.ModeJSON},
			{"detail", copyright.GetCopyrightDetail(42), http.MethodGet, "/copyright/42", client.ModeJSON},
			{"create", copyright.CreateCopyright(types.CreateCopyrightParams{AppName: "a"}), http.MethodPost, "/copyright/create", client.ModeJSON},
			{"update", copyright.UpdateCopyright(42, types.UpdateCopyrightParams{}), http.MethodPut, "/copyright/42", client.ModeJSON},
			{"delete", copyright.DeleteCopyright(42), http.MethodDelete, "/copyright/42", client.ModeJSON},
			{"submit", copyright.SubmitCopyright(42), http.MethodPost, "/copyright/42/submit", client.ModeJSON},
			{"generate code", copyright.GenerateCode(types.CodeGenerationParams{}), http.MethodPost, "/copyright/generate-code", client.ModeJSON},
			{"generate document", copyright.GenerateDocument(types.GenerateDocumentParams{}), http.MethodPost, "/copyright/generate-document", client.ModeJSON},
			{"create project", copyright.CreateProject(types.CreateProjectParams{}), http.MethodPost, "/agenthub/api/copyright/projects", client.ModeJSON},
			{"projects", copyright.GetProjects(), http.MethodGet, "/agenthub/api/copyright/projects", client.ModeJSON},
			{"start project", copyright.StartProjectGeneration("p1"), http.MethodPost, "/agenthub/api/copyright/projects/p1/generate", client.ModeJSON},
			{"project status", copyright.GetProjectStatus("p1"), http.MethodGet, "/agenthub/api/copyright/projects/p1/status", client.ModeJSON},
			{"delete project", copyright.DeleteProject("p1"), http.MethodDelete, "/agenthub/api/copyright/projects/p1", client.ModeJSON},
			{"upload", copyright.UploadDocument("a.docx", strings.NewReader("x"), 7, "patent"), http.MethodPost, "/copyright/upload-document", client.ModeJSON},
			{"names", copyright.GenerateSoftwareName("医疗"), http.MethodPost, "/api/generate-software-names", client.ModeJSON},
			{"save info", copyright.SaveSoftwareInfoToWord(types.SaveSoftwareInfoParams{}), http.MethodPost, "/save-software-info-to-word", client.ModeJSON},
			{"manual", copyright.DownloadManual(types.DownloadManualParams{}), http.MethodPost, "/api/download/manual", client.ModeBlob},
			{"manual screenshots", copyright.DownloadManualWithScreenshots(types.DownloadManualWithScreenshotsParams{}), http.MethodPost, "/api/download/manual-with-screenshots", client.ModeBlob},
			{"code", copyright.DownloadCode(types.DownloadCodeParams{}), http.MethodPost, "/api/download/code", client.ModeBlob},
			{"info", copyright.DownloadSoftwareInfo(types.DownloadSoftwareInfoParams{}), http.MethodPost, "/agenthub/api/download/info", client.ModeBlob},
			{"all", copyright.DownloadAllMaterials(types.DownloadAllMaterialsParams{}), http.MethodPost, "/agenthub/api/download/all", client.ModeBlob},
			{"test", copyright.DownloadTest(types.AppNameParams{}), http.MethodPost, "/api/download/test", client.ModeBlob},
			{"header footer", copyright.TestHeaderFooter(types.AppNameParams{}), http.MethodPost, "/api/test/header-footer", client.ModeBlob},
			{"names stream", copyright.GenerateSoftwareNameStream("x", ""), http.MethodPost, "/agenthub/api/v1/chat/completions", client.ModeStream},
			{"extract", copyright.ExtractSoftwareInfo(types.ExtractSoftwareInfoParams{}), http.MethodPost, "/agenthub/api/extract-software-info", client.ModeStream},
			{"parallel", copyright.GenerateParallel(types.GenerateParallelParams{}), http.MethodPost, "/agenthub/api/generate-parallel", client.ModeStream},
			{"frontend", copyright.GenerateFrontendCodeStream(types.GenerateFrontendCodeParams{}), http.MethodPost, "/agenthub/api/generate-frontend-code", client.ModeStream},
			{"backend", copyright.GenerateBackendCodeStream(types.GenerateBackendCodeParams{}), http.MethodPost, "/agenthub/api/generate-backend-code", client.ModeStream},
			{"chapter", copyright.GenerateDocumentChapterStream(types.GenerateDocumentChapterParams{ChapterNum: 3}), http.MethodPost, "/agenthub/api/generate-document-chapter3", client.ModeStream},
			{"all stream", copyright.GenerateAllStream(types.GenerateAllParams{}), http.MethodPost, "/agenthub/api/generate-all-stream", client.ModeStream},
		}

		Convey("Then method, path and mode should match the backend surface", func() {
			for _, tc := range cases {
				So(tc.req.Method, ShouldEqual, tc.method)
				So(tc.req.Path, ShouldEqual, tc.path)
				So(tc.req.Mode, ShouldEqual, tc.mode)
			}
		})

		Convey("Then building twice should give the same descriptor", func() {
			So(copyright.GetCopyrightDetail(42), ShouldResemble, copyright.GetCopyrightDetail(42))
			So(copyright.GenerateSoftwareNameStream("区块链", ""), ShouldResemble, copyright.GenerateSoftwareNameStream("区块链", ""))
		})

		Convey("Then id-bearing paths should use a template label", func() {
			So(copyright.GetCopyrightDetail(42).Label(), ShouldEqual, "/copyright/{id}")
			So(copyright.GetProjectStatus("p1").Label(), ShouldEqual, "/agenthub/api/copyright/projects/{id}/status")
			So(copyright.GenerateDocumentChapterStream(types.GenerateDocumentChapterParams{ChapterNum: 2}).Label(),
				ShouldEqual, "/agenthub/api/generate-document-chapter{n}")
		})

		Convey("Then body-less calls should carry no body", func() {
			So(copyright.SubmitCopyright(1).Body, ShouldBeNil)
			So(copyright.StartProjectGeneration("p").Body, ShouldBeNil)
			So(copyright.GetCopyrightDetail(1).Body, ShouldBeNil)
		})
	})
}

func TestListQuery(t *testing.T) {
	Convey("Given search filters with a date range", t, func() {
		req := copyright.GetCopyrightList(types.CopyrightSearchParams{
			AppName:   "智慧",
			Status:    types.StatusDraft,
			DateRange: &[2]string{"2024-01-01", "2024-01-31"},
			Current:   2,
			PageSize:  10,
		})

		Convey("Then they should be sent as query values", func() {
			So(req.Body, ShouldBeNil)
			So(req.Query.Get("appName"), ShouldEqual, "智慧")
			So(req.Query.Get("status"), ShouldEqual, "draft")
			So(req.Query["dateRange"], ShouldResemble, []string{"2024-01-01", "2024-01-31"})
			So(req.Query.Get("current"), ShouldEqual, "2")
			So(req.Query.Get("pageSize"), ShouldEqual, "10")
		})
	})
}

func TestUploadDocument(t *testing.T) {
	Convey("Given an upload of file, 7 and patent", t, func() {
		req := copyright.UploadDocument("manual.docx", strings.NewReader("doc"), 7, "patent")

		Convey("Then the form should have exactly three parts in order", func() {
			So(req.Form, ShouldHaveLength, 3)
			So(req.Form[0].Name, ShouldEqual, "file")
			So(req.Form[0].IsFile(), ShouldBeTrue)
			So(req.Form[0].FileName, ShouldEqual, "manual.docx")
			raw, err := io.ReadAll(req.Form[0].Content)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, "doc")
			So(req.Form[1], ShouldResemble, client.FormField{Name: "applicationId", Value: "7"})
			So(req.Form[2], ShouldResemble, client.FormField{Name: "type", Value: "patent"})
			So(req.Body, ShouldBeNil)
		})
	})
}

func TestStreamingBodies(t *testing.T) {
	Convey("Given streaming builders called without a model", t, func() {
		reqs := []client.Request{
			copyright.ExtractSoftwareInfo(types.ExtractSoftwareInfoParams{Chapter1: "概述"}),
			copyright.GenerateParallel(types.GenerateParallelParams{AppName: "a", FrontendCode: "<html>"}),
			copyright.GenerateFrontendCodeStream(types.GenerateFrontendCodeParams{AppName: "a"}),
			copyright.GenerateBackendCodeStream(types.GenerateBackendCodeParams{AppName: "a"}),
			copyright.GenerateDocumentChapterStream(types.GenerateDocumentChapterParams{ChapterNum: 1, AppName: "a"}),
			copyright.GenerateAllStream(types.GenerateAllParams{AppName: "a"}),
		}

		Convey("Then every body should use the default model and stream", func() {
			for _, req := range reqs {
				m := bodyMap(req)
				So(m["modelId"], ShouldEqual, "deepseek-chat")
				So(m["stream"], ShouldEqual, true)
			}
		})
	})

	Convey("Given a caller-chosen model", t, func() {
		m := bodyMap(copyright.GenerateFrontendCodeStream(types.GenerateFrontendCodeParams{AppName: "a", ModelID: "qwen-max"}))

		Convey("Then it should be kept", func() {
			So(m["modelId"], ShouldEqual, "qwen-max")
			So(m["appName"], ShouldEqual, "a")
		})
	})

	Convey("Given the chapter builder", t, func() {
		m := bodyMap(copyright.GenerateDocumentChapterStream(types.GenerateDocumentChapterParams{ChapterNum: 4, AppName: "a"}))

		Convey("Then the chapter number should also be in the body", func() {
			So(m["chapterNum"], ShouldEqual, 4.0)
		})
	})
}

func TestNamesStream(t *testing.T) {
	Convey("Given a names stream for 区块链", t, func() {
		req := copyright.GenerateSoftwareNameStream("区块链", "")
		body, ok := req.Body.(types.ChatCompletionRequest)
		So(ok, ShouldBeTrue)

		Convey("Then the chat body should carry the fixed parameters", func() {
			So(body.Model, ShouldEqual, "deepseek-chat")
			So(body.Stream, ShouldBeTrue)
			So(body.APICode, ShouldEqual, "MAXGPT")
			So(body.MaxTokens, ShouldEqual, 2000)
			So(body.Temperature, ShouldEqual, 0.8)
			So(body.Messages, ShouldHaveLength, 1)
			So(body.Messages[0].Role, ShouldEqual, "user")
		})

		Convey("Then the prompt should quote the domain inside the template", func() {
			prompt := body.Messages[0].Content
			So(prompt, ShouldStartWith, "请基于'区块链'这个领域或专业方向，生成10个适合软件著作权申请的软件名称")
			So(prompt, ShouldContainSubstring, "名称必须以软件、系统、平台结尾。")
			So(prompt, ShouldContainSubstring, "不用标序号！不可以标序号。")
			So(prompt, ShouldEndWith, "每个名称单独一行。")
		})

		Convey("Then the wire names should follow the chat completion format", func() {
			m := bodyMap(req)
			So(m["apiCode"], ShouldEqual, "MAXGPT")
			So(m["max_tokens"], ShouldEqual, 2000.0)
			So(m["temperature"], ShouldEqual, 0.8)
			So(m["model"], ShouldEqual, "deepseek-chat")
		})
	})

	Convey("Given an explicit model", t, func() {
		body := copyright.GenerateSoftwareNameStream("x", "gpt-4o").Body.(types.ChatCompletionRequest)

		Convey("Then it should be used", func() {
			So(body.Model, ShouldEqual, "gpt-4o")
		})
	})
}
