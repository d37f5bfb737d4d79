package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/domain/types"
)

func listCommand(e *env) *cobra.Command {
	var (
		params   types.CopyrightSearchParams
		status   string
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List copyright applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				params.Status = types.Status(status)
				if !params.Status.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			if from != "" || to != "" {
				if from == "" || to == "" {
					return fmt.Errorf("--from and --to must be given together")
				}
				params.DateRange = &[2]string{from, to}
			}
			return e.jsonResult(e.api.GetCopyrightList(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVar(&params.AppName, "name", "", "Filter by application name substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, generating, completed, failed, submitted, approved, rejected)")
	cmd.Flags().StringVar(&from, "from", "", "First day of the creation date range, inclusive")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the creation date range, inclusive")
	cmd.Flags().IntVar(&params.Current, "page", 0, "Page number")
	cmd.Flags().IntVar(&params.PageSize, "size", 0, "Page size")
	return cmd
}

func detailCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "detail ID",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return e.jsonResult(e.api.GetCopyrightDetail(cmd.Context(), id))
		},
	}
}

func createCommand(e *env) *cobra.Command {
	var params types.CreateCopyrightParams
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.jsonResult(e.api.CreateCopyright(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVar(&params.AppName, "name", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&params.Domain, "domain", "", "Business domain")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func updateCommand(e *env) *cobra.Command {
	var name, prompt, domain string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var params types.UpdateCopyrightParams
			if cmd.Flags().Changed("name") {
				params.AppName = &name
			}
			if cmd.Flags().Changed("prompt") {
				params.AppPrompt = &prompt
			}
			if cmd.Flags().Changed("domain") {
				params.Domain = &domain
			}
			return e.jsonResult(e.api.UpdateCopyright(cmd.Context(), id, params))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New application name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "New description")
	cmd.Flags().StringVar(&domain, "domain", "", "New business domain")
	return cmd
}

func deleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return e.jsonResult(e.api.DeleteCopyright(cmd.Context(), id))
		},
	}
}

func submitCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "submit ID",
		Short: "Submit an application for registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return e.jsonResult(e.api.SubmitCopyright(cmd.Context(), id))
		},
	}
}

func codeCommand(e *env) *cobra.Command {
	var (
		params types.CodeGenerationParams
		kind   string
	)
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Generate code in a single response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params.Type = types.CodeType(kind)
			return e.jsonResult(e.api.GenerateCode(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVar(&params.AppName, "app", "", "Application name")
	cmd.Flags().StringVar(&params.AppPrompt, "prompt", "", "Description used for generation")
	cmd.Flags().StringVar(&kind, "type", string(types.CodeFull), "Code type: frontend, backend or full")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func documentCommand(e *env) *cobra.Command {
	var params types.GenerateDocumentParams
	cmd := &cobra.Command{
		Use:   "document ID",
		Short: "Generate a document for an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			params.ApplicationID = id
			return e.jsonResult(e.api.GenerateDocument(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVar(&params.Type, "type", "manual", "Document type")
	return cmd
}

func uploadCommand(e *env) *cobra.Command {
	var (
		appID   int64
		docType string
	)
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a document for an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return e.jsonResult(e.api.UploadDocument(cmd.Context(), filepath.Base(args[0]), f, appID, docType))
		},
	}
	cmd.Flags().Int64Var(&appID, "app-id", 0, "Application id")
	cmd.Flags().StringVar(&docType, "type", "", "Document type")
	_ = cmd.MarkFlagRequired("app-id")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func saveInfoCommand(e *env) *cobra.Command {
	var (
		appName  string
		infoFile string
	)
	cmd := &cobra.Command{
		Use:   "save-info",
		Short: "Render software information from a JSON file into a Word document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(infoFile)
			if err != nil {
				return err
			}
			var info types.SoftwareInfo
			if err := json.Unmarshal(raw, &info); err != nil {
				return fmt.Errorf("parse %s: %w", infoFile, err)
			}
			return e.jsonResult(e.api.SaveSoftwareInfoToWord(cmd.Context(), types.SaveSoftwareInfoParams{
				AppName: appName,
				Info:    info,
			}))
		},
	}
	cmd.Flags().StringVar(&appName, "app", "", "Application name")
	cmd.Flags().StringVar(&infoFile, "info", "", "JSON file holding the software information")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("info")
	return cmd
}
