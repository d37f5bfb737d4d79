package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestApplications(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithClock(fixedClock("2024-03-05 10:00:00")))

		Convey("When creating an application", func() {
			app, err := store.CreateApplication(ctx, types.CreateCopyrightParams{AppName: "智慧农业管理系统", AppPrompt: "农业"})

			Convey("Then it should be a draft with timestamps", func() {
				So(err, ShouldBeNil)
				So(app.ID, ShouldEqual, 1)
				So(app.Status, ShouldEqual, types.StatusDraft)
				So(*app.AppPrompt, ShouldEqual, "农业")
				So(app.CreateTime, ShouldEqual, "2024-03-05 10:00:00")
				So(app.GeneratedFiles, ShouldBeEmpty)
			})

			Convey("Then it can be read back", func() {
				got, err := store.Application(ctx, app.ID)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, app)
			})

			Convey("Then a partial update should only touch set fields", func() {
				name := "智慧农业平台"
				got, err := store.UpdateApplication(ctx, app.ID, types.UpdateCopyrightParams{AppName: &name})
				So(err, ShouldBeNil)
				So(got.AppName, ShouldEqual, name)
				So(*got.AppPrompt, ShouldEqual, "农业")
			})

			Convey("Then status and files should be recorded", func() {
				got, err := store.SetStatus(ctx, app.ID, types.StatusSubmitted, 100)
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, types.StatusSubmitted)
				So(store.AddFile(ctx, app.ID, "manual.docx"), ShouldBeNil)
				got, _ = store.Application(ctx, app.ID)
				So(got.GeneratedFiles, ShouldResemble, []string{"manual.docx"})
			})

			Convey("Then deleting should make it unknown", func() {
				So(store.DeleteApplication(ctx, app.ID), ShouldBeNil)
				_, err := store.Application(ctx, app.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(store.DeleteApplication(ctx, app.ID), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the name is blank", func() {
			_, err := store.CreateApplication(ctx, types.CreateCopyrightParams{AppName: "  "})

			Convey("Then the input should be rejected", func() {
				So(errors.Is(err, repository.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When setting an unknown status", func() {
			app, _ := store.CreateApplication(ctx, types.CreateCopyrightParams{AppName: "a"})
			_, err := store.SetStatus(ctx, app.ID, types.Status("archived"), 0)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, repository.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestApplicationsFilter(t *testing.T) {
	Convey("Given twelve applications", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithClock(fixedClock("2024-03-05 10:00:00")))
		for i := 1; i <= 12; i++ {
			_, err := store.CreateApplication(ctx, types.CreateCopyrightParams{AppName: fmt.Sprintf("系统%02d", i)})
			So(err, ShouldBeNil)
		}
		_, _ = store.SetStatus(ctx, 3, types.StatusCompleted, 100)

		Convey("Then the default page should hold the ten newest", func() {
			page, total, err := store.Applications(ctx, types.CopyrightSearchParams{})
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 12)
			So(page, ShouldHaveLength, 10)
			So(page[0].ID, ShouldEqual, 12)
		})

		Convey("Then the second page should hold the rest", func() {
			page, _, _ := store.Applications(ctx, types.CopyrightSearchParams{Current: 2, PageSize: 10})
			So(page, ShouldHaveLength, 2)
			So(page[1].ID, ShouldEqual, 1)
		})

		Convey("Then a page past the end should be empty", func() {
			page, total, _ := store.Applications(ctx, types.CopyrightSearchParams{Current: 5})
			So(page, ShouldBeEmpty)
			So(total, ShouldEqual, 12)
		})

		Convey("Then name and status should filter", func() {
			page, total, _ := store.Applications(ctx, types.CopyrightSearchParams{AppName: "系统1"})
			So(total, ShouldEqual, 3)
			So(page, ShouldHaveLength, 3)

			page, _, _ = store.Applications(ctx, types.CopyrightSearchParams{Status: types.StatusCompleted})
			So(page, ShouldHaveLength, 1)
			So(page[0].ID, ShouldEqual, 3)
		})

		Convey("Then the date range should be inclusive", func() {
			_, total, _ := store.Applications(ctx, types.CopyrightSearchParams{DateRange: &[2]string{"2024-03-05", "2024-03-05"}})
			So(total, ShouldEqual, 12)
			_, total, _ = store.Applications(ctx, types.CopyrightSearchParams{DateRange: &[2]string{"2024-03-06", "2024-03-31"}})
			So(total, ShouldEqual, 0)
		})
	})
}

func TestProjects(t *testing.T) {
	Convey("Given a store with deterministic ids", t, func() {
		ctx := context.Background()
		n := 0
		store := repository.NewMemoryStore(repository.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("p%d", n)
		}))

		Convey("When creating a project", func() {
			p, err := store.CreateProject(ctx, types.CreateProjectParams{AppName: "a", Domain: "医疗", ModelID: "deepseek-chat"})

			Convey("Then it should be pending", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "p1")
				So(p.Status, ShouldEqual, types.ProjectPending)
				So(p.ProjectName, ShouldEqual, "a")
			})

			Convey("Then updates should be stored", func() {
				p.Status = types.ProjectCompleted
				p.Progress = 100
				So(store.UpdateProject(ctx, p), ShouldBeNil)
				got, err := store.Project(ctx, "p1")
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, types.ProjectCompleted)
			})

			Convey("Then it should be listed and deletable", func() {
				all, err := store.Projects(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
				So(store.DeleteProject(ctx, "p1"), ShouldBeNil)
				_, err = store.Project(ctx, "p1")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When starting a project", func() {
			_, err := store.CreateProject(ctx, types.CreateProjectParams{AppName: "a"})
			So(err, ShouldBeNil)
			started, err := store.StartProject(ctx, "p1", 5)

			Convey("Then it should be generating with its steps queued", func() {
				So(err, ShouldBeNil)
				So(started.Status, ShouldEqual, types.ProjectGenerating)
				So(started.Progress, ShouldEqual, 0)
				So(started.GeneratingFiles, ShouldEqual, 5)
				So(started.StartTime, ShouldNotBeEmpty)
				got, _ := store.Project(ctx, "p1")
				So(got.Status, ShouldEqual, types.ProjectGenerating)
			})

			Convey("Then a second start should conflict", func() {
				_, err := store.StartProject(ctx, "p1", 5)
				So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
			})

			Convey("Then it can be restarted once it has finished", func() {
				started.Status = types.ProjectCompleted
				So(store.UpdateProject(ctx, started), ShouldBeNil)
				again, err := store.StartProject(ctx, "p1", 5)
				So(err, ShouldBeNil)
				So(again.Status, ShouldEqual, types.ProjectGenerating)
			})
		})

		Convey("When starting an unknown project", func() {
			_, err := store.StartProject(ctx, "nope", 1)

			Convey("Then it should be not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When updating an unknown project", func() {
			err := store.UpdateProject(ctx, types.Project{ID: "nope"})

			Convey("Then it should be not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentProjectStarts(t *testing.T) {
	Convey("Given a pending project", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		p, err := store.CreateProject(ctx, types.CreateProjectParams{AppName: "a"})
		So(err, ShouldBeNil)

		Convey("When many callers start it at once", func() {
			const callers = 32
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				started   int
				conflicts int
			)
			for range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.StartProject(ctx, p.ID, 3)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						started++
					case errors.Is(err, repository.ErrConflict):
						conflicts++
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one should win", func() {
				So(started, ShouldEqual, 1)
				So(conflicts, ShouldEqual, callers-1)
			})
		})
	})
}
