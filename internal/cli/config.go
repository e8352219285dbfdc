package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xmlsearch/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.toml",
	}
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.toml with default settings",
		Long: `Write a config.toml with default settings to the --config path, or next to
the executable when --config is not given. An existing file is kept unless
--force is set.`,
		Args: cobra.NoArgs,
		// 目标文件可能尚不存在，不走根命令的配置加载
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := cmd.Flag("config").Value.String()
			if path == "" {
				path = config.DefaultPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return &ExitError{Code: exitUsage, Err: fmt.Errorf("%s already exists (use --force to overwrite)", path)}
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
