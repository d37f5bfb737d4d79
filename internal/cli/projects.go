package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/types"
)

// projectCall is one of the API methods keyed by project id.
type projectCall func(api *copyright.API, ctx context.Context, projectID string) (json.RawMessage, error)

func projectsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage batch generation projects",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.jsonResult(e.api.GetProjects(cmd.Context()))
		},
	}
	cmd.AddCommand(
		list,
		projectCreateCommand(e),
		projectCommand(e, "start", "Start generation for a project", (*copyright.API).StartProjectGeneration),
		projectCommand(e, "status", "Show generation progress of a project", (*copyright.API).GetProjectStatus),
		projectCommand(e, "delete", "Delete a project", (*copyright.API).DeleteProject),
	)
	return cmd
}

func projectCommand(e *env, use, short string, call projectCall) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PROJECT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.jsonResult(call(e.api, cmd.Context(), args[0]))
		},
	}
}

func projectCreateCommand(e *env) *cobra.Command {
	var params types.CreateProjectParams
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if params.ModelID == "" {
				params.ModelID = e.cfg.DefaultModel
			}
			return e.jsonResult(e.api.CreateProject(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.Domain, "domain", "", "Business domain")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&params.ModelID, "project-model", "", "Model for this project; defaults to --model")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}
