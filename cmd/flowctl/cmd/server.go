package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/client"
)

var errLocalWatch = errors.New("watch requires the server")

func (f *flowctl) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := f.adapter.Remote().Health(cmd.Context())
			if err != nil {
				return f.hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n",
				res.Service, res.Version, res.Status)
			return nil
		},
	}
}

func (f *flowctl) watchCommand() *cobra.Command {
	var names []string
	var types []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream workflow changes from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.adapter.Mode() == client.ModeLocal {
				return errLocalWatch
			}

			sub := &api.ClientSubscription{Names: names}
			for _, t := range types {
				sub.EventTypes = append(sub.EventTypes, api.EventType(t))
			}

			events, err := f.adapter.Remote().Watch(cmd.Context(), sub)
			if err != nil {
				return f.hint(err)
			}
			for ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
					ev.Type, ev.Name, ev.Key)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil,
		"only report these workflows")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil,
		"only report these event types")
	return cmd
}
