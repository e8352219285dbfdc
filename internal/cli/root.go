// Package cli xmlsearch 命令行
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xmlsearch/internal/config"
	"xmlsearch/internal/logging"
)

// 退出码
const (
	exitError   = 1
	exitUsage   = 2
	exitNoMatch = 3
)

// ExitError 携带进程退出码的错误
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

type runtimeKey struct{}

// runContext 命令执行期配置
type runContext struct {
	cfg  *config.AppConfig
	info config.LoadConfigInfo
}

func runtimeFrom(ctx context.Context) runContext {
	if rt, ok := ctx.Value(runtimeKey{}).(runContext); ok {
		return rt
	}
	return runContext{cfg: config.DefaultConfig()}
}

// Execute 构建并执行命令树，返回退出码
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return exitError
	}
	return 0
}

// NewRootCommand 根命令
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "xmlsearch",
		Short: "Search XML field definitions by tag:value and export matches to Excel",
		Long: `xmlsearch reads an XML document of <Field> definitions, keeps the fields
whose tags match every "Tag:Value" condition (case-insensitive), and exports
them to matching_fields.xlsx.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, info, err := config.LoadConfigWithInfo(cfgFile)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}

			pf := cmd.Flags()
			if pf.Changed("log-level") {
				cfg.Log.Level, _ = pf.GetString("log-level")
			}
			if pf.Changed("log-format") {
				cfg.Log.Format, _ = pf.GetString("log-format")
			}
			if err := cfg.Validate(); err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}
			if noColor, _ := pf.GetBool("no-color"); noColor {
				color.NoColor = true
			}

			logger := logging.SetupWithWriter(cfg.Log, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, runtimeKey{}, runContext{cfg: cfg, info: info})
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("path", info.Path),
				slog.String("logLevel", cfg.Log.Level),
				slog.String("logFormat", cfg.Log.Format),
			)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: config.toml next to the executable)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: exitUsage, Err: err}
	})

	cmd.AddCommand(
		newServeCommand(),
		newExportCommand(),
		newVersionCommand(),
		newConfigCommand(),
	)
	return cmd
}
