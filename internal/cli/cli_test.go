package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"xmlsearch/internal/config"
	"xmlsearch/internal/exporter"
)

const sampleDoc = `<Fields>
  <Field Code="F1">
    <AutoCalculated>true</AutoCalculated>
    <Formula><Expression>A+B</Expression></Formula>
  </Field>
  <Field Code="F2">
    <AutoCalculated>false</AutoCalculated>
  </Field>
</Fields>`

func executeCommand(stdin string, args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fields.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("", "--help")
	require.NoError(t, err)
	for _, sub := range []string{"serve", "export", "version"} {
		assert.Contains(t, stdout, sub)
	}
	for _, flag := range []string{"--config", "--log-level", "--log-format", "--no-color"} {
		assert.Contains(t, stdout, flag)
	}
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("", "--nonexistent")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.Code)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("", "--log-level", "loud", "export", "-i", writeDoc(t, sampleDoc))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.Code)
}

func TestExport_WritesWorkbook(t *testing.T) {
	in := writeDoc(t, sampleDoc)
	out := filepath.Join(t.TempDir(), "result.xlsx")

	stdout, _, err := executeCommand("", "export", "-i", in, "-c", "AutoCalculated:true", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Result: 1")
	assert.Contains(t, stdout, "Wrote "+out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(exporter.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"FieldCode", "Formula", "AutoCalculated"}, rows[0])
	assert.Equal(t, []string{"F1", "A+B", "TRUE"}, rows[1])
}

func TestExport_Stdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "result.xlsx")

	stdout, _, err := executeCommand(sampleDoc, "export", "-i", "-", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Result: 2")
	assert.FileExists(t, out)
}

func TestExport_NoMatchExitCode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "result.xlsx")

	stdout, _, err := executeCommand("", "export", "-i", writeDoc(t, sampleDoc),
		"-c", "AutoCalculated:true", "-c", "Calculated:true", "-o", out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitNoMatch, exitErr.Code)
	assert.Contains(t, stdout, "Result: 0")
	assert.NoFileExists(t, out)
}

func TestExport_ParseErrorExitCode(t *testing.T) {
	_, _, err := executeCommand("", "export", "-i", writeDoc(t, "<Fields><Field"))

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.Code)
}

func TestExport_MissingInputExitCode(t *testing.T) {
	_, _, err := executeCommand("", "export")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.Code)
}

func TestConfigInit_WritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)

	stdout, _, err := executeCommand("", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path)

	cfg, info, err := config.LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, config.DefaultConfig(), cfg)

	// 生成的文件可直接被其他命令加载
	in := writeDoc(t, sampleDoc)
	out := filepath.Join(t.TempDir(), "result.xlsx")
	_, _, err = executeCommand("", "--config", path, "export", "-i", in, "-o", out)
	require.NoError(t, err)
}

func TestConfigInit_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0o600))

	_, _, err := executeCommand("", "--config", path, "config", "init")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.Code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port = 9000")

	_, _, err = executeCommand("", "--config", path, "config", "init", "--force")
	require.NoError(t, err)
	cfg, _, err := config.LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCommand("", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "xmlsearch")

	stdout, _, err = executeCommand("", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"version"`)
}
