package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kode4food/flowdraft/pkg/api"
)

func (f *flowctl) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored workflow names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := f.adapter.List(cmd.Context())
			if err != nil {
				return f.hint(err)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (f *flowctl) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := f.adapter.Read(cmd.Context(), args[0])
			if err != nil {
				return f.hint(err)
			}
			return writeJSON(cmd, wf)
		},
	}
}

func (f *flowctl) saveCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save [NAME]",
		Short: "Create or replace a workflow from a JSON document",
		Long: `Reads a workflow document ({"name", "nodes", "edges"}) and stores it.
A NAME argument overrides the document's name.

Examples:
  flowctl save -f flow.json
  flowctl save "My Flow" -f - < flow.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var wf api.Workflow
			if err := readJSON(cmd, file, &wf); err != nil {
				return err
			}
			if len(args) == 1 {
				wf.Name = args[0]
			}

			res, created, err := f.adapter.Write(cmd.Context(), &wf)
			if err != nil {
				return f.hint(err)
			}

			verb := "Updated"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
				verb, res.Name, res.Key())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-",
		"workflow JSON file, - for stdin")
	return cmd
}

func (f *flowctl) updateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Replace the nodes or edges of an existing workflow",
		Long: `Reads a patch ({"nodes"?, "edges"?}) and merges it onto the stored
workflow. Omitted fields keep their stored values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p api.WorkflowPatch
			if err := readJSON(cmd, file, &p); err != nil {
				return err
			}

			res, err := f.adapter.Update(cmd.Context(), args[0], &p)
			if err != nil {
				return f.hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n",
				res.Name, res.Key())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-",
		"patch JSON file, - for stdin")
	return cmd
}

func (f *flowctl) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a stored workflow",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.adapter.Delete(cmd.Context(), args[0]); err != nil {
				return f.hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n",
				api.SanitizeName(args[0]))
			return nil
		},
	}
}
