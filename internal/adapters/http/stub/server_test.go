package stub_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/adapters/http/stream"
	"github.com/okian/softcopyright/internal/adapters/http/stub"
	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const prefix = "/jeecg-boot"

func newAPI(ctx context.Context) (*copyright.API, *httptest.Server) {
	srv := httptest.NewServer(stub.NewServer(repository.NewMemoryStore(), stub.WithPathPrefix(prefix)).Handler(ctx))
	api := copyright.New(
		client.New(srv.URL+prefix),
		stream.New(stream.WithBaseURL(srv.URL)),
	)
	return api, srv
}

func mustResult[T any](raw json.RawMessage, err error) types.Result[T] {
	So(err, ShouldBeNil)
	res, err := copyright.DecodeResult[T](raw)
	So(err, ShouldBeNil)
	So(res.Success, ShouldBeTrue)
	return res
}

func TestRecords(t *testing.T) {
	Convey("Given the client against the stub backend", t, func() {
		ctx := context.Background()
		api, srv := newAPI(ctx)
		defer srv.Close()

		created := mustResult[types.CopyrightApplication](api.CreateCopyright(ctx, types.CreateCopyrightParams{
			AppName:   "智慧农业管理系统",
			AppPrompt: "农业物联网",
		}))
		id := created.Result.ID

		Convey("Then the created record should be a draft", func() {
			So(id, ShouldBeGreaterThan, 0)
			So(created.Result.Status, ShouldEqual, types.StatusDraft)
			So(created.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When listing", func() {
			res := mustResult[types.Page[types.CopyrightApplication]](api.GetCopyrightList(ctx, types.CopyrightSearchParams{AppName: "农业"}))

			Convey("Then the record should be on the first page", func() {
				So(res.Result.Total, ShouldEqual, 1)
				So(res.Result.Records[0].ID, ShouldEqual, id)
				So(res.Result.Size, ShouldEqual, repository.DefaultPageSize)
			})
		})

		Convey("When updating, submitting and reading back", func() {
			name := "智慧农业云平台"
			mustResult[types.CopyrightApplication](api.UpdateCopyright(ctx, id, types.UpdateCopyrightParams{AppName: &name}))
			mustResult[types.CopyrightApplication](api.SubmitCopyright(ctx, id))
			detail := mustResult[types.CopyrightApplication](api.GetCopyrightDetail(ctx, id))

			Convey("Then the changes should be visible", func() {
				So(detail.Result.AppName, ShouldEqual, name)
				So(detail.Result.Status, ShouldEqual, types.StatusSubmitted)
			})
		})

		Convey("When uploading a document", func() {
			res := mustResult[map[string]any](api.UploadDocument(ctx, "manual.docx", strings.NewReader("doc"), id, "manual"))
			detail := mustResult[types.CopyrightApplication](api.GetCopyrightDetail(ctx, id))

			Convey("Then the file should be attached", func() {
				So(res.Result["fileName"], ShouldEqual, "manual.docx")
				So(detail.Result.GeneratedFiles, ShouldContain, "manual.docx")
			})
		})

		Convey("When generating code and documents", func() {
			code := mustResult[types.CodeGenerationResult](api.GenerateCode(ctx, types.CodeGenerationParams{AppName: "a", Type: types.CodeFrontend}))
			doc := mustResult[types.CopyrightApplication](api.GenerateDocument(ctx, types.GenerateDocumentParams{ApplicationID: id, Type: "manual"}))

			Convey("Then canned artifacts should come back", func() {
				So(code.Result.Language, ShouldEqual, "html")
				So(code.Result.Code, ShouldStartWith, "<!DOCTYPE html>")
				So(doc.Result.Status, ShouldEqual, types.StatusCompleted)
				So(doc.Result.GeneratedFiles, ShouldContain, "智慧农业管理系统-软件说明书.docx")
			})
		})

		Convey("When deleting twice", func() {
			mustResult[any](api.DeleteCopyright(ctx, id))
			raw, err := api.DeleteCopyright(ctx, id)

			Convey("Then the second call should be a 404 with an envelope", func() {
				var se *client.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
				res, err := copyright.DecodeResult[any](raw)
				So(err, ShouldBeNil)
				So(res.Success, ShouldBeFalse)
				So(res.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When asking for names", func() {
			res := mustResult[struct {
				Names []string `json:"names"`
			}](api.GenerateSoftwareName(ctx, "教育"))

			Convey("Then generic names should be returned", func() {
				So(res.Result.Names, ShouldHaveLength, 5)
				So(res.Result.Names[0], ShouldEqual, "教育智能管理系统")
			})
		})

		Convey("When the code type is unknown", func() {
			_, err := api.GenerateCode(ctx, types.CodeGenerationParams{AppName: "a", Type: "mobile"})

			Convey("Then the stub should answer 400", func() {
				var se *client.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestProjects(t *testing.T) {
	Convey("Given a created project", t, func() {
		ctx := context.Background()
		api, srv := newAPI(ctx)
		defer srv.Close()

		created := mustResult[types.CreateProjectResult](api.CreateProject(ctx, types.CreateProjectParams{
			AppName: "医疗影像管理系统", Domain: "医疗", ModelID: "deepseek-chat",
		}))
		pid := created.Result.ProjectID

		Convey("Then it should be pending and listed", func() {
			So(pid, ShouldNotBeEmpty)
			So(created.Result.Status, ShouldEqual, types.ProjectPending)
			list := mustResult[[]types.Project](api.GetProjects(ctx))
			So(list.Result, ShouldHaveLength, 1)
		})

		Convey("When generation is started", func() {
			started := mustResult[map[string]string](api.StartProjectGeneration(ctx, pid))
			status := waitForProject(ctx, api, pid)

			Convey("Then the project should generate in the background", func() {
				So(started.Result["status"], ShouldEqual, types.ProjectGenerating)
				So(status.Result.Status, ShouldEqual, types.ProjectCompleted)
				So(status.Result.Progress, ShouldEqual, 100)
				So(status.Result.CompletedFiles, ShouldEqual, 7)
				So(status.Result.GeneratingFiles, ShouldEqual, 0)
				So(status.Result.EndTime, ShouldNotBeEmpty)
			})
		})

		Convey("When it is deleted", func() {
			mustResult[any](api.DeleteProject(ctx, pid))
			_, err := api.GetProjectStatus(ctx, pid)

			Convey("Then its status should be gone", func() {
				So(errors.Is(err, client.ErrStatus), ShouldBeTrue)
			})
		})
	})
}

// waitForProject polls the status route until the project leaves the
// generating state.
func waitForProject(ctx context.Context, api *copyright.API, pid string) types.Result[types.ProjectStatus] {
	deadline := time.Now().Add(2 * time.Second)
	for {
		status := mustResult[types.ProjectStatus](api.GetProjectStatus(ctx, pid))
		if status.Result.Status != types.ProjectGenerating || time.Now().After(deadline) {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestProjectWorkers(t *testing.T) {
	Convey("Given a stub whose workers pause between steps", t, func() {
		ctx := context.Background()
		backend := stub.NewServer(repository.NewMemoryStore(),
			stub.WithPathPrefix(prefix),
			stub.WithWorkers(1),
			stub.WithStreamDelay(20*time.Millisecond))
		srv := httptest.NewServer(backend.Handler(ctx))
		defer srv.Close()
		api := copyright.New(client.New(srv.URL+prefix), nil)

		created := mustResult[types.CreateProjectResult](api.CreateProject(ctx, types.CreateProjectParams{AppName: "物流调度平台"}))
		pid := created.Result.ProjectID
		mustResult[map[string]string](api.StartProjectGeneration(ctx, pid))

		Convey("When it is started again while generating", func() {
			raw, err := api.StartProjectGeneration(ctx, pid)

			Convey("Then the second start should be refused", func() {
				var se *client.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusBadRequest)
				res, derr := copyright.DecodeResult[any](raw)
				So(derr, ShouldBeNil)
				So(res.Message, ShouldContainSubstring, "already generating")
			})
		})

		Convey("When the stub is closed", func() {
			So(backend.Close(ctx), ShouldBeNil)

			Convey("Then queued work should have finished", func() {
				status := mustResult[types.ProjectStatus](api.GetProjectStatus(ctx, pid))
				So(status.Result.Status, ShouldEqual, types.ProjectCompleted)
			})

			Convey("Then new starts should be turned away", func() {
				other := mustResult[types.CreateProjectResult](api.CreateProject(ctx, types.CreateProjectParams{AppName: "仓储平台"}))
				_, err := api.StartProjectGeneration(ctx, other.Result.ProjectID)
				var se *client.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestDownloads(t *testing.T) {
	Convey("Given the stub backend", t, func() {
		ctx := context.Background()
		api, srv := newAPI(ctx)
		defer srv.Close()

		Convey("When downloading the manual", func() {
			data, err := api.DownloadManual(ctx, types.DownloadManualParams{AppName: "a", Chapters: []string{"第一章内容"}})

			Convey("Then the document bytes should be returned", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "第一章内容")
			})
		})

		Convey("When downloading all materials", func() {
			data, err := api.DownloadAllMaterials(ctx, types.DownloadAllMaterialsParams{AppName: "a", AppPrompt: "p"})
			So(err, ShouldBeNil)
			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)

			Convey("Then the archive should hold the named artifacts", func() {
				var names []string
				for _, f := range zr.File {
					names = append(names, f.Name)
				}
				So(names, ShouldContain, "前端界面代码.html")
				So(names, ShouldContain, "a-软件说明书.docx")
				So(names, ShouldContain, "a-软著申请表.docx")
			})
		})

		Convey("When the app name is missing", func() {
			_, err := api.DownloadCode(ctx, types.DownloadCodeParams{})

			Convey("Then the stub should refuse", func() {
				So(errors.Is(err, client.ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When downloading the other samples", func() {
			test, err1 := api.DownloadTest(ctx, types.AppNameParams{AppName: "a"})
			hf, err2 := api.TestHeaderFooter(ctx, types.AppNameParams{AppName: "a"})
			info, err3 := api.DownloadSoftwareInfo(ctx, types.DownloadSoftwareInfoParams{AppName: "a"})
			shots, err4 := api.DownloadManualWithScreenshots(ctx, types.DownloadManualWithScreenshotsParams{
				AppName: "a", ScreenshotPaths: []string{"home.png"},
			})

			Convey("Then each should return bytes", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(err4, ShouldBeNil)
				So(test, ShouldNotBeEmpty)
				So(string(hf), ShouldContainSubstring, "页眉")
				So(string(info), ShouldContainSubstring, "软件名称：a")
				So(string(shots), ShouldContainSubstring, "home.png")
			})
		})
	})
}

func collect(resp *http.Response) []stream.Event {
	defer resp.Body.Close()
	var events []stream.Event
	err := stream.NewReader(resp.Body).Each(func(e stream.Event) error {
		events = append(events, e)
		return nil
	})
	So(err, ShouldBeNil)
	return events
}

func TestStreams(t *testing.T) {
	Convey("Given the stub backend", t, func() {
		ctx := context.Background()
		api, srv := newAPI(ctx)
		defer srv.Close()

		Convey("When streaming names", func() {
			resp, err := api.GenerateSoftwareNameStream(ctx, "区块链", "")
			So(err, ShouldBeNil)
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/event-stream")

			var text strings.Builder
			for _, e := range collect(resp) {
				var chunk types.ChatChunk
				So(e.Decode(&chunk), ShouldBeNil)
				text.WriteString(chunk.Text())
			}

			Convey("Then the text should parse into names", func() {
				names := copyright.NameLines(text.String())
				So(names, ShouldHaveLength, 5)
				So(names[0], ShouldEqual, "区块链智能管理系统")
			})
		})

		Convey("When streaming the frontend code", func() {
			events := collect(must(api.GenerateFrontendCodeStream(ctx, types.GenerateFrontendCodeParams{AppName: "a"})))
			last, err := events[len(events)-1].Generation()
			So(err, ShouldBeNil)

			Convey("Then progress frames should precede the completed page", func() {
				So(len(events), ShouldEqual, 3)
				So(events[0].Name, ShouldEqual, "data")
				So(last.Completed, ShouldBeTrue)
				So(last.FullCode, ShouldContainSubstring, "<title>a</title>")
			})
		})

		Convey("When streaming a chapter", func() {
			events := collect(must(api.GenerateDocumentChapterStream(ctx, types.GenerateDocumentChapterParams{ChapterNum: 2, AppName: "a"})))
			last, _ := events[len(events)-1].Generation()

			Convey("Then the chapter text should be in chapterContent", func() {
				So(last.ChapterContent, ShouldStartWith, "第二章 程序建立过程")
				So(last.Content, ShouldBeEmpty)
			})
		})

		Convey("When streaming the backend code and info extraction", func() {
			backend := collect(must(api.GenerateBackendCodeStream(ctx, types.GenerateBackendCodeParams{AppName: "a"})))
			info := collect(must(api.ExtractSoftwareInfo(ctx, types.ExtractSoftwareInfoParams{Chapter1: "智慧系统\n概述"})))
			b, _ := backend[len(backend)-1].Generation()
			i, _ := info[len(info)-1].Generation()

			Convey("Then each should complete", func() {
				So(b.FullCode, ShouldContainSubstring, "AppController")
				var si types.SoftwareInfo
				So(json.Unmarshal([]byte(i.Content), &si), ShouldBeNil)
				So(si.Name, ShouldEqual, "智慧系统")
			})
		})

		Convey("When streaming the parallel generation", func() {
			events := collect(must(api.GenerateParallel(ctx, types.GenerateParallelParams{AppName: "a", FrontendCode: "<html/>"})))

			Convey("Then it should open with start and end with complete", func() {
				first, _ := events[0].Generation()
				last, _ := events[len(events)-1].Generation()
				So(events[0].Name, ShouldEqual, "progress")
				So(first.Type, ShouldEqual, "start")
				So(events[len(events)-1].Name, ShouldEqual, "complete")
				So(last.FileID, ShouldEqual, first.FileID)
				So(last.FullCode, ShouldEqual, "<html/>")
			})
		})

		Convey("When streaming the whole pipeline", func() {
			events := collect(must(api.GenerateAllStream(ctx, types.GenerateAllParams{AppName: "a"})))
			last, _ := events[len(events)-1].Generation()

			Convey("Then progress should increase to completion", func() {
				prev := -1
				for _, e := range events {
					ev, err := e.Generation()
					So(err, ShouldBeNil)
					So(ev.Progress, ShouldBeGreaterThan, prev)
					prev = ev.Progress
				}
				So(last.Completed, ShouldBeTrue)
				So(last.Content, ShouldContainSubstring, "第四章")
			})
		})

		Convey("When the body is invalid", func() {
			events := collect(must(api.GenerateFrontendCodeStream(ctx, types.GenerateFrontendCodeParams{})))

			Convey("Then a single error frame should be sent", func() {
				So(events, ShouldHaveLength, 1)
				So(events[0].Name, ShouldEqual, "error")
				ev, err := events[0].Generation()
				So(err, ShouldBeNil)
				So(ev.Failed(), ShouldBeTrue)
			})
		})
	})
}

func must(resp *http.Response, err error) *http.Response {
	So(err, ShouldBeNil)
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given the stub handler", t, func() {
		h := stub.NewServer(repository.NewMemoryStore()).Handler(context.Background())

		Convey("Then /healthz should answer ok", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then /metrics should expose stub counters", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/copyright/1", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			body, _ := io.ReadAll(w.Body)
			So(string(body), ShouldContainSubstring, "softcopyright_stub_http_requests_total")
		})

		Convey("Then /openapi.yaml should describe every route", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/yaml")

			var doc struct {
				OpenAPI string                               `yaml:"openapi"`
				Paths   map[string]map[string]map[string]any `yaml:"paths"`
			}
			So(yaml.Unmarshal(w.Body.Bytes(), &doc), ShouldBeNil)
			So(doc.OpenAPI, ShouldEqual, "3.0.3")
			So(doc.Paths["/copyright/{id}"], ShouldContainKey, "get")
			So(doc.Paths["/copyright/{id}"], ShouldContainKey, "delete")
			So(doc.Paths["/copyright/{id}"]["get"]["operationId"], ShouldEqual, "copyright_detail")
			So(doc.Paths["/agenthub/api/generate-all-stream"], ShouldContainKey, "post")
		})
	})
}
