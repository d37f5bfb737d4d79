package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/domain/route"
)

func routesCommand(e *env) *cobra.Command {
	var paths bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the page routes of the copyright module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree := route.Copyright()
			if err := tree.Validate(); err != nil {
				return err
			}
			if paths {
				for _, p := range tree.Paths() {
					if _, err := e.out.Write([]byte(p + "\n")); err != nil {
						return err
					}
				}
				return nil
			}
			raw, err := tree.YAML()
			if err != nil {
				return err
			}
			_, err = e.out.Write(raw)
			return err
		},
	}
	cmd.Flags().BoolVar(&paths, "paths", false, "Print only the resolved paths")
	return cmd
}
