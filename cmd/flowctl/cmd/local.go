package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/client"
)

func (f *flowctl) draftCommand() *cobra.Command {
	draft := &cobra.Command{
		Use:   "draft",
		Short: "Show or replace the locally kept draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := f.adapter.Local().LoadDraft(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, wf)
		},
	}

	var file string
	save := &cobra.Command{
		Use:   "save",
		Short: "Replace the local draft from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var wf api.Workflow
			if err := readJSON(cmd, file, &wf); err != nil {
				return err
			}
			return f.adapter.Local().SaveDraft(cmd.Context(), &wf)
		},
	}
	save.Flags().StringVarP(&file, "file", "f", "-",
		"draft JSON file, - for stdin")

	draft.AddCommand(save)
	return draft
}

func (f *flowctl) themeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the editor theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(client.ThemeLight), string(client.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			local := f.adapter.Local()
			prefs, err := local.LoadPreferences(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), prefs.Theme)
				return nil
			}
			prefs.Theme = client.Theme(args[0])
			return local.SavePreferences(cmd.Context(), prefs)
		},
	}
}
