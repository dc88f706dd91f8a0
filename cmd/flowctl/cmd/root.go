// Package cmd implements the flowctl command tree
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	app "github.com/kode4food/flowdraft"
	"github.com/kode4food/flowdraft/pkg/client"
)

type flowctl struct {
	serverURL string
	localDir  string
	local     bool
	timeout   time.Duration
	adapter   *client.Adapter
}

const envServerURL = "FLOWDRAFT_SERVER"

// Execute runs flowctl with the process arguments
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the flowctl command tree
func NewRootCommand() *cobra.Command {
	f := &flowctl{}

	root := &cobra.Command{
		Use:   "flowctl",
		Short: "Manage stored workflows",
		Long: `flowctl reads and writes workflow documents through the workflow
server, or through local storage when --local is given.

The server is never replaced by local storage implicitly. When the server
is unreachable, rerun the command with --local.`,
		Version:           app.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: f.open,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return f.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&f.serverURL, "server", "s", defaultServerURL(),
		"workflow server base URL (env "+envServerURL+")")
	flags.BoolVarP(&f.local, "local", "l", false,
		"use local storage instead of the server")
	flags.StringVar(&f.localDir, "local-dir", "",
		"local storage directory (default: user config dir)")
	flags.DurationVar(&f.timeout, "timeout", client.DefaultTimeout,
		"timeout for each server request")

	root.AddCommand(
		f.listCommand(),
		f.getCommand(),
		f.saveCommand(),
		f.updateCommand(),
		f.deleteCommand(),
		f.healthCommand(),
		f.watchCommand(),
		f.draftCommand(),
		f.themeCommand(),
	)
	return root
}

func (f *flowctl) open(*cobra.Command, []string) error {
	dir := f.localDir
	if dir == "" {
		var err error
		if dir, err = client.DefaultLocalDir(); err != nil {
			return fmt.Errorf("locating local storage: %w", err)
		}
	}

	local, err := client.OpenLocalDir(dir)
	if err != nil {
		return err
	}

	f.adapter = client.NewAdapter(client.NewRemote(f.serverURL, f.timeout), local)
	if f.local {
		f.adapter.UseLocal()
	}
	return nil
}

func (f *flowctl) close() error {
	if f.adapter == nil {
		return nil
	}
	return f.adapter.Local().Close()
}

func (f *flowctl) hint(err error) error {
	if errors.Is(err, client.ErrUnreachable) {
		return fmt.Errorf("%w (rerun with --local to use local storage)", err)
	}
	return err
}

func defaultServerURL() string {
	_ = godotenv.Load()
	if url := os.Getenv(envServerURL); url != "" {
		return url
	}
	return client.DefaultBaseURL
}

func readJSON(cmd *cobra.Command, path string, out any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
