package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/shader-manifest/internal/config"
)

// errStale is returned by check when any manifest is out of date.
var errStale = errors.New("manifests are out of date, run shader-manifest to regenerate")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "check [project-root]",
		Short:        "Verify manifests match their source directories",
		Long:         "check renders every manifest and compares it with the file on disk without writing anything. It fails if a manifest is missing or stale.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := setup(cmd, args, opts)
			if err != nil {
				return err
			}

			results, checkErr := svc.CheckAll(cfg.Targets)

			var stale []string
			for _, result := range results {
				switch {
				case result.Missing:
					stale = append(stale, result.Target.Output+" (missing)")
				case result.Stale:
					stale = append(stale, result.Target.Output)
				}
			}

			if len(stale) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "stale: %s\n", strings.Join(stale, ", "))
				return errors.Join(checkErr, errStale)
			}
			return checkErr
		},
	}
}

func newInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init [project-root]",
		Short:        "Write a default " + config.FileName,
		Long:         "init writes the default targets to <project-root>/" + config.FileName + ", or to the file named by --config.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot(args)
			if err != nil {
				return err
			}

			path := filepath.Join(root, config.FileName)
			if opts.configPath != "" {
				path = opts.configPath
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config file already exists: %s. Use --force to replace it", path)
				}
			}

			cfg := config.Default()
			if cmd.Flags().Changed("sort") {
				cfg.Sort = opts.sort
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config: %s - %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}
