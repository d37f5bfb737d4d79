// Package cli implements the softcopyright command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/adapters/http/stream"
	"github.com/okian/softcopyright/internal/config"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/pkg/logger"
)

// env carries what every subcommand needs once flags are parsed.
type env struct {
	cfg    *config.Config
	log    logger.Logger
	api    *copyright.API
	out    io.Writer
	errOut io.Writer

	// guards errOut while several streams report progress
	mu sync.Mutex
}

// NewRootCommand builds the command tree over cfg. Persistent flags override
// the loaded configuration.
func NewRootCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	if cfg == nil {
		cfg = config.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	e := &env{cfg: cfg, log: log}

	root := &cobra.Command{
		Use:           "softcopyright",
		Short:         "Client for the software copyright registration assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			e.out = cmd.OutOrStdout()
			e.errOut = cmd.ErrOrStderr()
			e.api = copyright.New(
				client.New(e.cfg.BaseURL,
					client.WithTimeout(e.cfg.Timeout()),
					client.WithAccessToken(e.cfg.AccessToken),
					client.WithLogger(e.log.Named("client"))),
				stream.New(
					stream.WithBaseURL(e.cfg.StreamBaseURL),
					stream.WithLogger(e.log.Named("stream"))),
				copyright.WithDefaultModel(e.cfg.DefaultModel),
				copyright.WithLogger(e.log.Named("copyright")),
			)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Backend base URL for JSON and download calls")
	flags.StringVar(&cfg.StreamBaseURL, "stream-url", cfg.StreamBaseURL, "Base URL for streaming generation calls")
	flags.StringVar(&cfg.AccessToken, "token", cfg.AccessToken, "Access token sent as X-Access-Token")
	flags.StringVar(&cfg.DefaultModel, "model", cfg.DefaultModel, "Model used by streaming calls")
	flags.IntVar(&cfg.TimeoutMS, "timeout-ms", cfg.TimeoutMS, "Timeout of non-streaming calls in milliseconds")

	root.AddCommand(
		listCommand(e),
		detailCommand(e),
		createCommand(e),
		updateCommand(e),
		deleteCommand(e),
		submitCommand(e),
		codeCommand(e),
		documentCommand(e),
		projectsCommand(e),
		namesCommand(e),
		generateCommand(e),
		chaptersCommand(e),
		downloadCommand(e),
		uploadCommand(e),
		saveInfoCommand(e),
		routesCommand(e),
		serveStubCommand(e),
	)
	return root
}

// printJSON writes raw indented to the command output.
func (e *env) printJSON(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = fmt.Fprintln(e.out, string(raw))
		return err
	}
	enc := json.NewEncoder(e.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// jsonResult prints the body of a JSON call, including failed envelopes.
func (e *env) jsonResult(raw json.RawMessage, err error) error {
	if len(raw) > 0 {
		if perr := e.printJSON(raw); perr != nil {
			return perr
		}
	}
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

func since(start time.Time) logger.Field {
	return logger.Duration("elapsed", time.Since(start))
}

// printValue prints v as indented JSON.
func (e *env) printValue(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return e.printJSON(raw)
}
