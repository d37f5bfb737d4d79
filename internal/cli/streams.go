package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/softcopyright/internal/adapters/http/stream"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/logger"
)

// errIncomplete is returned when a generation stream ends without a
// completed frame.
var errIncomplete = errors.New("stream ended before completion")

// follow reads a generation stream until it ends and returns its completed
// frame. Intermediate frames are reported on errOut.
func (e *env) follow(label string, resp *http.Response) (types.StreamEvent, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return types.StreamEvent{}, fmt.Errorf("%s: %s: %s", label, resp.Status, strings.TrimSpace(string(body)))
	}

	var (
		final types.StreamEvent
		done  bool
	)
	err := stream.NewReader(resp.Body).Each(func(ev stream.Event) error {
		frame, err := ev.Generation()
		if err != nil {
			return fmt.Errorf("%s: decode %s frame: %w", label, ev.Name, err)
		}
		if frame.Failed() {
			return fmt.Errorf("%s: %s", label, frame.Error)
		}
		if frame.Completed {
			final, done = frame, true
			return nil
		}
		e.report(label, frame)
		return nil
	})
	if err != nil {
		return types.StreamEvent{}, err
	}
	if !done {
		return types.StreamEvent{}, fmt.Errorf("%s: %w", label, errIncomplete)
	}
	return final, nil
}

func (e *env) report(label string, frame types.StreamEvent) {
	msg := frame.Message
	if msg == "" {
		msg = frame.Stage
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = fmt.Fprintf(e.errOut, "[%s] %3d%% %s\n", label, frame.Progress, msg)
}

// emit writes content to dir/name, or to the command output when dir is empty.
func (e *env) emit(dir, name, content string) error {
	if dir == "" {
		_, err := fmt.Fprintln(e.out, content)
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	_, err := fmt.Fprintln(e.out, path)
	return err
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func namesCommand(e *env) *cobra.Command {
	var streamed bool
	cmd := &cobra.Command{
		Use:   "names DOMAIN",
		Short: "Suggest software names for a business domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !streamed {
				return e.jsonResult(e.api.GenerateSoftwareName(ctx, args[0]))
			}
			names, err := e.streamNames(ctx, args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(e.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&streamed, "stream", false, "Ask the chat model directly over a stream")
	return cmd
}

// streamNames collects the chat completion for domain and parses names from it.
func (e *env) streamNames(ctx context.Context, domain string) ([]string, error) {
	resp, err := e.api.GenerateSoftwareNameStream(ctx, domain, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("names: %s", resp.Status)
	}
	var text strings.Builder
	err = stream.NewReader(resp.Body).Each(func(ev stream.Event) error {
		var chunk types.ChatChunk
		if err := ev.Decode(&chunk); err != nil {
			return fmt.Errorf("names: decode chunk: %w", err)
		}
		text.WriteString(chunk.Text())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copyright.FallbackNames(domain, copyright.NameLines(text.String())), nil
}

func generateCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a streaming generation and print its result",
	}
	cmd.AddCommand(
		generateFrontendCommand(e),
		generateBackendCommand(e),
		generateAllCommand(e),
		generateParallelCommand(e),
		generateInfoCommand(e),
	)
	return cmd
}

func generateFrontendCommand(e *env) *cobra.Command {
	var (
		params types.GenerateFrontendCodeParams
		out    string
	)
	cmd := &cobra.Command{
		Use:   "frontend",
		Short: "Generate the frontend page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			resp, err := e.api.GenerateFrontendCodeStream(cmd.Context(), params)
			if err != nil {
				return err
			}
			final, err := e.follow("frontend", resp)
			if err != nil {
				return err
			}
			e.log.Info(cmd.Context(), "frontend generated", logger.Int("bytes", len(final.FullCode)), since(start))
			g := model.NewGeneratedData(params.AppName)
			g.SetFrontendCode(final.FullCode)
			return e.emit(out, g.FileName(model.ArtifactFrontendCode), g.FrontendCode)
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&params.Domain, "domain", "", "Business domain")
	cmd.Flags().StringVar(&out, "out", "", "Directory to write the page into instead of stdout")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func generateBackendCommand(e *env) *cobra.Command {
	var (
		params   types.GenerateBackendCodeParams
		codeFile string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Generate backend code for a frontend page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readOptional(codeFile)
			if err != nil {
				return err
			}
			params.Code = code
			start := time.Now()
			resp, err := e.api.GenerateBackendCodeStream(cmd.Context(), params)
			if err != nil {
				return err
			}
			final, err := e.follow("backend", resp)
			if err != nil {
				return err
			}
			e.log.Info(cmd.Context(), "backend generated", logger.Int("bytes", len(final.FullCode)), since(start))
			g := model.NewGeneratedData(params.AppName)
			g.SetBackendCode(final.FullCode)
			return e.emit(out, g.FileName(model.ArtifactBackendCode), g.BackendCode)
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&codeFile, "frontend-file", "", "Frontend page the backend is derived from")
	cmd.Flags().StringVar(&out, "out", "", "Directory to write the code into instead of stdout")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func generateAllCommand(e *env) *cobra.Command {
	var params types.GenerateAllParams
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Generate code and manual in one stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := e.api.GenerateAllStream(cmd.Context(), params)
			if err != nil {
				return err
			}
			final, err := e.follow("all", resp)
			if err != nil {
				return err
			}
			return e.printValue(final)
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&params.Domain, "domain", "", "Business domain")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func generateParallelCommand(e *env) *cobra.Command {
	var (
		params       types.GenerateParallelParams
		frontendFile string
	)
	cmd := &cobra.Command{
		Use:   "parallel",
		Short: "Generate every remaining artifact in parallel on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readOptional(frontendFile)
			if err != nil {
				return err
			}
			params.FrontendCode = code
			resp, err := e.api.GenerateParallel(cmd.Context(), params)
			if err != nil {
				return err
			}
			final, err := e.follow("parallel", resp)
			if err != nil {
				return err
			}
			return e.printValue(final)
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&frontendFile, "frontend-file", "", "Frontend page already generated")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func generateInfoCommand(e *env) *cobra.Command {
	var chapterFile string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Extract registration form information from chapter 1 of the manual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chapter, err := readOptional(chapterFile)
			if err != nil {
				return err
			}
			resp, err := e.api.ExtractSoftwareInfo(cmd.Context(), types.ExtractSoftwareInfoParams{Chapter1: chapter})
			if err != nil {
				return err
			}
			final, err := e.follow("info", resp)
			if err != nil {
				return err
			}
			return e.printJSON([]byte(final.Content))
		},
	}
	cmd.Flags().StringVar(&chapterFile, "chapter1-file", "", "File holding chapter 1 of the manual")
	_ = cmd.MarkFlagRequired("chapter1-file")
	return cmd
}

func chaptersCommand(e *env) *cobra.Command {
	var (
		appName, prompt string
		codeFile, out   string
	)
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Generate the four manual chapters concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readOptional(codeFile)
			if err != nil {
				return err
			}
			start := time.Now()
			g := model.NewGeneratedData(appName)
			texts, err := e.chapters(cmd.Context(), types.GenerateDocumentChapterParams{
				AppName:   appName,
				AppPrompt: prompt,
				Code:      code,
			})
			if err != nil {
				return err
			}
			for i, text := range texts {
				g.SetChapter(i+1, text)
			}
			e.log.Info(cmd.Context(), "chapters generated", logger.Bool("ready", g.Ready(model.ArtifactChapters)), since(start))
			for i, text := range g.Chapters.Slice() {
				if err := e.emit(out, g.FileNames.Chapters[fmt.Sprintf("chapter%d", i+1)], text); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&appName, "app", "", "Application name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&codeFile, "code-file", "", "Generated code the manual describes")
	cmd.Flags().StringVar(&out, "out", "", "Directory to write chapter files into instead of stdout")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

// chapters runs every chapter stream at once. The first failure cancels the
// others.
func (e *env) chapters(ctx context.Context, base types.GenerateDocumentChapterParams) ([]string, error) {
	texts := make([]string, copyright.ChapterCount)
	g, gctx := errgroup.WithContext(ctx)
	for i := range copyright.ChapterCount {
		params := base
		params.ChapterNum = i + 1
		g.Go(func() error {
			resp, err := e.api.GenerateDocumentChapterStream(gctx, params)
			if err != nil {
				return err
			}
			final, err := e.follow(fmt.Sprintf("chapter%d", params.ChapterNum), resp)
			if err != nil {
				return err
			}
			texts[i] = final.ChapterContent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
