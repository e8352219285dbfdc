package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xmlsearch/internal/exporter"
	"xmlsearch/internal/finder"
	"xmlsearch/internal/model"
)

type exportOptions struct {
	input      string
	conditions []string
	output     string
}

func newExportCommand() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Search an XML document and write matching fields to an xlsx file",
		Long: `Search an XML document of <Field> definitions and export the matches.

Each --condition is "Tag:Value"; all conditions must match (case-insensitive).
Entries without a colon are ignored. With no conditions every field matches.
Use "@_Name" as the tag to match a Field attribute.`,
		Example: `  xmlsearch export -i fields.xml -c AutoCalculated:true -c Calculated:true
  cat fields.xml | xmlsearch export -i - -o out.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", `XML file to search ("-" for stdin)`)
	f.StringArrayVarP(&opts.conditions, "condition", "c", nil, "Tag:Value condition (repeatable)")
	f.StringVarP(&opts.output, "output", "o", exporter.FileName, "output xlsx path")

	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	text, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}

	out, err := finder.SearchAndExport(cmd.Context(), text, opts.conditions, exporter.ExportOptions{})
	if out != nil {
		printResult(cmd.OutOrStdout(), out.Result.Count)
	}

	var perr *model.ParseError
	switch {
	case err == nil:
	case errors.Is(err, model.ErrMissingInput), errors.As(err, &perr):
		return &ExitError{Code: exitUsage, Err: err}
	case errors.Is(err, model.ErrNoData):
		return &ExitError{Code: exitNoMatch, Err: model.ErrNoData}
	default:
		return err
	}

	if err := os.WriteFile(opts.output, out.Workbook, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.output)
	return nil
}

// readInput 读取输入文档；未指定输入时返回空文本，由 finder 报告缺少输入
func readInput(cmd *cobra.Command, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
}

func printResult(w io.Writer, count int) {
	c := color.New(color.FgGreen, color.Bold)
	if count == 0 {
		c = color.New(color.FgYellow, color.Bold)
	}
	c.Fprintf(w, "Result: %d\n", count)
}
