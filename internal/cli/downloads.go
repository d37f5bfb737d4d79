package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

// material is everything a download may carry. Each kind picks its fields.
type material struct {
	appName      string
	appPrompt    string
	frontendFile string
	backendFile  string
	chapterFiles []string
	screenshots  []string
}

func (m material) load() (frontend, backend string, chapters []string, err error) {
	if frontend, err = readOptional(m.frontendFile); err != nil {
		return
	}
	if backend, err = readOptional(m.backendFile); err != nil {
		return
	}
	for _, f := range m.chapterFiles {
		var text string
		if text, err = readOptional(f); err != nil {
			return
		}
		chapters = append(chapters, text)
	}
	return
}

// downloadKind maps a download subcommand to its call and default file name.
type downloadKind struct {
	name  string
	short string
	file  func(g *model.GeneratedData) string
	fetch func(ctx context.Context, e *env, m material) ([]byte, error)
}

var downloadKinds = []downloadKind{
	{
		name:  "manual",
		short: "Download the manual as a Word document",
		file:  func(g *model.GeneratedData) string { return g.FileName(model.ArtifactCompleteDocument) },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			_, _, chapters, err := m.load()
			if err != nil {
				return nil, err
			}
			return e.api.DownloadManual(ctx, types.DownloadManualParams{AppName: m.appName, Chapters: chapters})
		},
	},
	{
		name:  "manual-screenshots",
		short: "Download the manual with screenshots inserted",
		file:  func(g *model.GeneratedData) string { return g.FileName(model.ArtifactScreenshots) },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			frontend, backend, chapters, err := m.load()
			if err != nil {
				return nil, err
			}
			return e.api.DownloadManualWithScreenshots(ctx, types.DownloadManualWithScreenshotsParams{
				AppName:         m.appName,
				AppPrompt:       m.appPrompt,
				FrontendCode:    frontend,
				BackendCode:     backend,
				Chapters:        chapters,
				ScreenshotPaths: m.screenshots,
			})
		},
	},
	{
		name:  "code",
		short: "Download the source code document",
		file:  func(g *model.GeneratedData) string { return g.FileName(model.ArtifactFullCode) },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			frontend, backend, _, err := m.load()
			if err != nil {
				return nil, err
			}
			return e.api.DownloadCode(ctx, types.DownloadCodeParams{
				AppName:      m.appName,
				FrontendCode: frontend,
				BackendCode:  backend,
			})
		},
	},
	{
		name:  "info",
		short: "Download the registration form",
		file:  func(g *model.GeneratedData) string { return g.FileName(model.ArtifactSoftwareInfo) },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			frontend, backend, chapters, err := m.load()
			if err != nil {
				return nil, err
			}
			return e.api.DownloadSoftwareInfo(ctx, types.DownloadSoftwareInfoParams{
				AppName:      m.appName,
				AppPrompt:    m.appPrompt,
				FrontendCode: frontend,
				BackendCode:  backend,
				Chapters:     chapters,
			})
		},
	},
	{
		name:  "all",
		short: "Download every material as one archive",
		file:  func(g *model.GeneratedData) string { return g.AppName + "-软著材料.zip" },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			frontend, backend, chapters, err := m.load()
			if err != nil {
				return nil, err
			}
			return e.api.DownloadAllMaterials(ctx, types.DownloadAllMaterialsParams{
				AppName:      m.appName,
				AppPrompt:    m.appPrompt,
				FrontendCode: frontend,
				BackendCode:  backend,
				Chapters:     chapters,
			})
		},
	},
	{
		name:  "test",
		short: "Download a test document",
		file:  func(g *model.GeneratedData) string { return g.AppName + "-test.docx" },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			return e.api.DownloadTest(ctx, types.AppNameParams{AppName: m.appName})
		},
	},
	{
		name:  "header-footer",
		short: "Download a header and footer sample",
		file:  func(g *model.GeneratedData) string { return g.AppName + "-header-footer.docx" },
		fetch: func(ctx context.Context, e *env, m material) ([]byte, error) {
			return e.api.TestHeaderFooter(ctx, types.AppNameParams{AppName: m.appName})
		},
	},
}

func downloadCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download generated materials",
	}
	for _, kind := range downloadKinds {
		cmd.AddCommand(downloadKindCommand(e, kind))
	}
	return cmd
}

func downloadKindCommand(e *env, kind downloadKind) *cobra.Command {
	var (
		m   material
		out string
	)
	cmd := &cobra.Command{
		Use:   kind.name,
		Short: kind.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := kind.fetch(cmd.Context(), e, m)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = kind.file(model.NewGeneratedData(m.appName))
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			e.log.Debug(cmd.Context(), "download saved", logger.String("kind", kind.name), logger.String("path", path), logger.Int("bytes", len(data)))
			_, err = fmt.Fprintln(e.out, path)
			return err
		},
	}
	cmd.Flags().StringVar(&m.appName, "app", "", "Application name")
	cmd.Flags().StringVar(&m.appPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&m.frontendFile, "frontend-file", "", "Frontend page to include")
	cmd.Flags().StringVar(&m.backendFile, "backend-file", "", "Backend code to include")
	cmd.Flags().StringArrayVar(&m.chapterFiles, "chapter-file", nil, "Chapter file to include, in order; repeatable")
	cmd.Flags().StringArrayVar(&m.screenshots, "screenshot", nil, "Screenshot path to reference; repeatable")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file; defaults to the material's export name")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}
