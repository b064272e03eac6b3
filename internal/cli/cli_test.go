package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/vburojevic/logstat/internal/config"
	"github.com/vburojevic/logstat/internal/discovery"
)

const (
	okLine      = `10.0.0.1 - - [01/Jan/2024:00:00:00] "GET /x HTTP/1.1" 200 512 "http://a" "agent" 120`
	notFound    = `10.0.0.2 - - [01/Jan/2024:00:00:01] "GET /missing HTTP/1.1" 404 0 "http://b" "agent" 30`
	serverError = `10.0.0.3 - - [01/Jan/2024:00:00:02] "POST /api HTTP/1.1" 502 0 "http://c" "agent" 900`
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format: format,
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Config: config.Default(),
		Logger: zap.NewNop(),
	}, stdout, stderr
}

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

// --- Run Command Tests ---

func TestRunCmd_Run(t *testing.T) {
	t.Run("writes report for a directory", func(t *testing.T) {
		dir := t.TempDir()
		writeLog(t, dir, "a.log", okLine, notFound)
		writeLog(t, dir, "nested/b.log", serverError, "garbage")
		writeLog(t, dir, "ignored.txt", okLine)
		report := filepath.Join(t.TempDir(), "report.json")

		globals, stdout, stderr := testGlobals("json")
		cmd := &RunCmd{Path: dir, Output: report, Ext: ".log", Workers: 2}
		require.NoError(t, cmd.Run(globals))

		data, err := os.ReadFile(report)
		require.NoError(t, err)
		doc := gjson.ParseBytes(data)
		assert.Equal(t, int64(3), doc.Get("total_requests").Int())
		assert.Equal(t, int64(2), doc.Get("methods_count.GET").Int())
		assert.Equal(t, int64(1), doc.Get("methods_count.POST").Int())
		assert.Equal(t, int64(1), doc.Get("top_10_client_errors").Map()["10.0.0.2 GET http://b 404"].Int())
		assert.Equal(t, int64(1), doc.Get("top_10_server_errors").Map()["10.0.0.3 POST http://c 502"].Int())

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "run_summary", lines[0]["type"])
		assert.Equal(t, float64(2), lines[0]["sources"])
		assert.Equal(t, float64(3), lines[0]["parsed"])
		assert.Equal(t, float64(1), lines[0]["failed"])
		assert.Equal(t, report, lines[0]["output"])

		assert.Contains(t, stderr.String(), "Cannot parse line no 1: garbage")
	})

	t.Run("single file is read whatever its extension", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), "access.txt", okLine)
		report := filepath.Join(t.TempDir(), "report.json")

		globals, _, _ := testGlobals("json")
		cmd := &RunCmd{Path: path, Output: report, Ext: ".log", Workers: 1}
		require.NoError(t, cmd.Run(globals))

		data, err := os.ReadFile(report)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gjson.GetBytes(data, "total_requests").Int())
	})

	t.Run("report to stdout in json format", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), "a.log", okLine)

		globals, stdout, _ := testGlobals("json")
		cmd := &RunCmd{Path: path, Output: "-", Ext: ".log", Workers: 1}
		require.NoError(t, cmd.Run(globals))

		assert.True(t, gjson.Valid(stdout.String()))
		assert.Equal(t, int64(1), gjson.Get(stdout.String(), "total_requests").Int())
		assert.NotContains(t, stdout.String(), "run_summary")
	})

	t.Run("report to stdout in text format renders tables", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), "a.log", okLine)

		globals, stdout, _ := testGlobals("text")
		cmd := &RunCmd{Path: path, Output: "-", Ext: ".log", Workers: 1}
		require.NoError(t, cmd.Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Top IPs")
		assert.Contains(t, out, "10.0.0.1")
		assert.False(t, gjson.Valid(out))
	})

	t.Run("quiet suppresses summary and parse notices", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), "a.log", okLine, "garbage")
		report := filepath.Join(t.TempDir(), "report.json")

		globals, stdout, stderr := testGlobals("json")
		globals.Quiet = true
		cmd := &RunCmd{Path: path, Output: report, Ext: ".log", Workers: 1}
		require.NoError(t, cmd.Run(globals))

		assert.Empty(t, stdout.String())
		assert.Empty(t, stderr.String())
		assert.FileExists(t, report)
	})

	t.Run("empty directory warns and writes an empty report", func(t *testing.T) {
		dir := t.TempDir()
		report := filepath.Join(t.TempDir(), "report.json")

		globals, stdout, _ := testGlobals("json")
		cmd := &RunCmd{Path: dir, Output: report, Ext: ".log", Workers: 1}
		require.NoError(t, cmd.Run(globals))

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 2)
		assert.Equal(t, "warning", lines[0]["type"])
		assert.Equal(t, "run_summary", lines[1]["type"])

		data, err := os.ReadFile(report)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gjson.GetBytes(data, "total_requests").Int())
		assert.Empty(t, gjson.GetBytes(data, "top_10_ips").Map())
	})

	t.Run("missing path is INVALID_PATH", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")

		globals, stdout, _ := testGlobals("json")
		cmd := &RunCmd{Path: missing, Output: "-", Ext: ".log", Workers: 1}
		err := cmd.Run(globals)
		require.Error(t, err)

		var cliErr *CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, CodeInvalidPath, cliErr.Code)
		assert.ErrorIs(t, err, discovery.ErrInvalidPath)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["type"])
		assert.Equal(t, CodeInvalidPath, lines[0]["code"])
		assert.NotEmpty(t, lines[0]["hint"])
	})

	t.Run("text errors go to stderr", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")

		globals, stdout, stderr := testGlobals("text")
		cmd := &RunCmd{Path: missing, Output: "-", Ext: ".log", Workers: 1}
		require.Error(t, cmd.Run(globals))

		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error ["+CodeInvalidPath+"]")
	})

	t.Run("unwritable output is WRITE_FAILED", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), "a.log", okLine)
		report := filepath.Join(t.TempDir(), "missing-dir", "report.json")

		globals, stdout, _ := testGlobals("json")
		cmd := &RunCmd{Path: path, Output: report, Ext: ".log", Workers: 1}
		err := cmd.Run(globals)

		var cliErr *CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, CodeWriteFailed, cliErr.Code)
		assert.Contains(t, cliErr.Hint, "missing-dir")
		assert.Contains(t, stdout.String(), CodeWriteFailed)
	})
}

// --- Check Command Tests ---

func TestCheckCmd_Run(t *testing.T) {
	t.Run("all lines match", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &CheckCmd{Lines: []string{okLine, "  " + notFound + "  "}}
		require.NoError(t, cmd.Run(globals))

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 2)
		assert.Equal(t, "record", lines[0]["type"])
		assert.Equal(t, "10.0.0.1", lines[0]["ip"])
		assert.Equal(t, float64(120), lines[0]["response_time"])
		assert.Equal(t, float64(1), lines[1]["line_index"])
		assert.Equal(t, "404", lines[1]["status"])
	})

	t.Run("failures are reported and return PARSE_FAILED", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &CheckCmd{Lines: []string{"garbage", okLine}}
		err := cmd.Run(globals)

		var cliErr *CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, CodeParseFailed, cliErr.Code)
		assert.Equal(t, "1 of 2 lines did not match", cliErr.Message)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 3)
		assert.Equal(t, "parse_failure", lines[0]["type"])
		assert.Equal(t, "garbage", lines[0]["line"])
		assert.Equal(t, "record", lines[1]["type"])
		assert.Equal(t, "error", lines[2]["type"])
	})

	t.Run("reads stdin when no lines given", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		globals.Stdin = strings.NewReader(okLine + "\nnope\n")
		cmd := &CheckCmd{}
		require.Error(t, cmd.Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "OK line 0: ip=10.0.0.1 method=GET url=http://a status=200 time=120")
		assert.Contains(t, out, "FAIL line 1: nope")
		assert.Contains(t, stderr.String(), "Error ["+CodeParseFailed+"]")
	})
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.ConfigFile = "/tmp/.logstat.yaml"
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Current Configuration:")
		assert.Contains(t, out, "format:     json")
		assert.Contains(t, out, "output:    logstat.json")
		assert.Contains(t, out, "workers:   1")
		assert.Contains(t, out, "Loaded from: /tmp/.logstat.yaml")
	})

	t.Run("outputs config in json format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		doc := stdout.String()
		assert.Equal(t, "config", gjson.Get(doc, "type").String())
		assert.Equal(t, "json", gjson.Get(doc, "format").String())
		assert.Equal(t, ".log", gjson.Get(doc, "defaults.extension").String())
		assert.Equal(t, int64(1), gjson.Get(doc, "defaults.workers").Int())
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("uses the loaded file", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.ConfigFile = "/etc/logstat/config.yaml"
		require.NoError(t, (&ConfigPathCmd{}).Run(globals))
		assert.Equal(t, "Config file: /etc/logstat/config.yaml\n", stdout.String())
	})

	t.Run("outputs path in json format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		assert.Equal(t, "config_path", gjson.Get(stdout.String(), "type").String())
		assert.True(t, gjson.Get(stdout.String(), "path").Exists())
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

	out := stdout.String()
	assert.Contains(t, out, "# logstat configuration file")
	assert.Contains(t, out, "format: json")
	assert.Contains(t, out, "output: logstat.json")
	assert.Contains(t, out, "extension: .log")

	// the sample must load cleanly
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, stdout.Bytes(), 0644))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		require.NoError(t, (&VersionCmd{}).Run(globals))

		assert.Equal(t, "version", gjson.Get(stdout.String(), "type").String())
		assert.Equal(t, Version, gjson.Get(stdout.String(), "version").String())
		assert.Equal(t, Commit, gjson.Get(stdout.String(), "commit").String())
	})

	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.Equal(t, "logstat version dev (none)\n", stdout.String())
	})
}

// --- Parser and Globals Tests ---

func TestNewParser(t *testing.T) {
	t.Run("run is the default command", func(t *testing.T) {
		var c CLI
		parser, err := NewParser(&c, nil)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"-p", "/var/log/nginx"})
		require.NoError(t, err)
		assert.Equal(t, "/var/log/nginx", c.Run.Path)
		assert.Equal(t, "logstat.json", c.Run.Output)
		assert.Equal(t, ".log", c.Run.Ext)
		assert.Equal(t, 1, c.Run.Workers)
		assert.Equal(t, "json", c.Format)
	})

	t.Run("config supplies flag defaults", func(t *testing.T) {
		cfg := config.Default()
		cfg.Format = "text"
		cfg.Defaults.Output = "-"
		cfg.Defaults.Extension = ".access"
		cfg.Defaults.Workers = 4

		var c CLI
		parser, err := NewParser(&c, cfg)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"run", "-p", "logs"})
		require.NoError(t, err)
		assert.Equal(t, "text", c.Format)
		assert.Equal(t, "-", c.Run.Output)
		assert.Equal(t, ".access", c.Run.Ext)
		assert.Equal(t, 4, c.Run.Workers)
	})

	t.Run("flags override config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Defaults.Workers = 4

		var c CLI
		parser, err := NewParser(&c, cfg)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"-p", "logs", "-w", "2", "-o", "out.json", "-f", "text"})
		require.NoError(t, err)
		assert.Equal(t, 2, c.Run.Workers)
		assert.Equal(t, "out.json", c.Run.Output)
		assert.Equal(t, "text", c.Format)
	})

	t.Run("check takes positional lines", func(t *testing.T) {
		var c CLI
		parser, err := NewParser(&c, nil)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"check", okLine, "x"})
		require.NoError(t, err)
		assert.Equal(t, []string{okLine, "x"}, c.Check.Lines)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		var c CLI
		parser, err := NewParser(&c, nil)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"-f", "xml", "-p", "logs"})
		assert.Error(t, err)
	})
}

func TestNewGlobalsWithConfig(t *testing.T) {
	t.Run("config quiet and verbose apply when flags are unset", func(t *testing.T) {
		cfg := config.Default()
		cfg.Quiet = true
		cfg.Verbose = true

		globals := NewGlobalsWithConfig(&CLI{Format: "text"}, cfg)
		assert.Equal(t, "text", globals.Format)
		assert.True(t, globals.Quiet)
		assert.True(t, globals.Verbose)
		assert.NotNil(t, globals.Logger)
	})

	t.Run("empty format falls back to config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Format = "text"

		globals := NewGlobalsWithConfig(&CLI{}, cfg)
		assert.Equal(t, "text", globals.Format)
	})
}

func TestGlobalsDiagnostics(t *testing.T) {
	globals, _, stderr := testGlobals("json")
	globals.diagnostics().ParseFailure("a.log", 3, "bad")
	assert.Equal(t, "Cannot parse line no 3: bad\n", stderr.String())

	stderr.Reset()
	globals.Quiet = true
	globals.diagnostics().ParseFailure("a.log", 3, "bad")
	assert.Empty(t, stderr.String())
}

func TestConfigShowCmd_ReportsLoadFailure(t *testing.T) {
	globals, stdout, _ := testGlobals("json")
	globals.ConfigFile = "/home/u/.logstat.yaml"
	globals.ConfigErr = errors.New("invalid format \"xml\": want json or text")

	err := (&ConfigShowCmd{}).Run(globals)

	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, CodeConfigError, cliErr.Code)
	assert.Equal(t, CodeConfigError, gjson.Get(stdout.String(), "code").String())
	assert.Contains(t, gjson.Get(stdout.String(), "hint").String(), "/home/u/.logstat.yaml")
}
