// Package main implements the shader-manifest command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/shader-manifest/internal/config"
	"github.com/taigrr/shader-manifest/internal/manifest"
	"github.com/taigrr/shader-manifest/internal/pathfilter"
)

type options struct {
	configPath string
	sort       bool
	verbose    bool
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "shader-manifest [project-root]",
		Short: "Generate shader manifest files",
		Long: `shader-manifest lists the shader sources in each configured directory
and writes their names, extensions stripped, one per line into a
manifest file. Shader loaders read the manifests to discover the
available variants without scanning the filesystem at runtime.

Without a config file the noise and hash manifests are generated:
  shaders/noise -> shaders/noise_list.txt
  shaders/hash  -> shaders/hash_list.txt`,
		Example: `shader-manifest
shader-manifest --sort ./examples/noise_viewer
shader-manifest check`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: <project-root>/"+config.FileName+")")
	cmd.PersistentFlags().BoolVarP(&opts.sort, "sort", "s", false, "sort names instead of keeping directory order")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print each written manifest")

	cmd.AddCommand(newCheckCmd(opts), newInitCmd(opts))

	return cmd
}

// setup resolves the project root and builds the manifest service from
// the config file and flags.
func setup(cmd *cobra.Command, args []string, opts *options) (*manifest.Service, *config.Config, error) {
	root, err := projectRoot(args)
	if err != nil {
		return nil, nil, err
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.Discover(root)
	}
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("sort") {
		cfg.Sort = opts.sort
	}

	pf := pathfilter.New(&cfg.Filter)
	return manifest.New(root, pf, manifest.WithSort(cfg.Sort)), cfg, nil
}

func projectRoot(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return root, nil
}

func runGenerate(cmd *cobra.Command, args []string, opts *options) error {
	svc, cfg, err := setup(cmd, args, opts)
	if err != nil {
		return err
	}

	if err := svc.GenerateAll(cfg.Targets); err != nil {
		return err
	}

	if opts.verbose {
		for _, target := range cfg.Targets {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s from %s\n", target.Output, target.Source)
		}
	}

	return nil
}
