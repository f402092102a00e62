package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplate = "a {~ IF x > 1 THEN ~}b{~ END ~}"
	testTagIf    = "IF $ THEN"
	testTagEnd   = "END"
	testGrammar  = `
delimiters:
  open: "<%"
  close: "%>"
aliases:
  and: "&&"
tags:
  - "IF $ THEN"
  - "END"
`
)

// runCLI runs the CLI with the given stdin and returns the exit code and
// both output streams
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameLex)
	assert.Contains(t, stdout, CmdNameEval)
}

func TestRun_Help(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{CmdNameHelp}, HelpMainUsage},
		{[]string{CmdNameHelp, CmdNameLex}, HelpLexUsage},
		{[]string{CmdNameHelp, CmdNameEval}, HelpEvalUsage},
		{[]string{CmdNameHelp, CmdNameVersion}, HelpVersionUsage},
		{[]string{CmdNameHelp, CmdNameHelp}, HelpHelpUsage},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", tt.args...)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Contains(t, stdout, tt.expected)
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "render")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
	assert.Contains(t, stdout, HelpMainUsage)
}

// ==================== version tests ====================

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "go-xtralite version")

	code, stdout, _ = runCLI(t, "", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	code, _, stderr := runCLI(t, "", CmdNameVersion, "--format", "xml")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

func TestVersion_VersionsFile(t *testing.T) {
	dir := t.TempDir()
	content := "project:\n  version: 1.2.3\ngit:\n  branch: main\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionsFileName), []byte(content), FilePermissions))
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	code, stdout, _ := runCLI(t, "", CmdNameVersion, "--format", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "main", info.Branch)
}

// ==================== lex tests ====================

func TestLex_Text(t *testing.T) {
	code, stdout, stderr := runCLI(t, testTemplate, CmdNameLex, "-t", testTagIf, "--tag", testTagEnd)
	require.Equal(t, ExitCodeSuccess, code, stderr)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1:1\ttext\t\"a \"", lines[0])
	assert.Equal(t, "1:3\ttag\tIF $ THEN\tIF >{@x,1} THEN", lines[1])
	assert.Equal(t, "1:22\ttext\t\"b\"", lines[2])
	assert.Equal(t, "1:23\ttag\tEND\tEND", lines[3])
}

func TestLex_Styles(t *testing.T) {
	tests := []struct {
		style    string
		expected string
	}{
		{"canonical", "IF >{@x,1} THEN"},
		{"arithmetic", "IF x > 1 THEN"},
		{"polish", "IF > x 1 THEN"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "{~ IF x > 1 THEN ~}", CmdNameLex, "-t", testTagIf, "-s", tt.style)
			require.Equal(t, ExitCodeSuccess, code)
			assert.Contains(t, stdout, tt.expected)
		})
	}
}

func TestLex_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, testTemplate, CmdNameLex, "-t", testTagIf, "-t", testTagEnd, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var lexes []lexOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &lexes))
	require.Len(t, lexes, 4)

	assert.Equal(t, LexKindText, lexes[0].Kind)
	assert.Equal(t, "a ", lexes[0].Text)
	assert.Equal(t, 2, lexes[0].Length)

	tag := lexes[1]
	assert.Equal(t, LexKindTag, tag.Kind)
	assert.Equal(t, testTagIf, tag.Pattern)
	assert.Equal(t, 2, tag.Offset)
	require.Len(t, tag.Components, 3)
	assert.Equal(t, "keyword", tag.Components[0].Kind)
	assert.Equal(t, "expression", tag.Components[1].Kind)
	assert.Equal(t, ">{@x,1}", tag.Components[1].Text)
}

func TestLex_Color(t *testing.T) {
	code, stdout, _ := runCLI(t, testTemplate, CmdNameLex, "-t", testTagIf, "-t", testTagEnd, "--color")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "\x1b[")

	code, stdout, _ = runCLI(t, testTemplate, CmdNameLex, "-t", testTagIf, "-t", testTagEnd)
	require.Equal(t, ExitCodeSuccess, code)
	assert.NotContains(t, stdout, "\x1b[")
}

func TestLex_Files(t *testing.T) {
	input := writeTestFile(t, "page.tpl", "x<% if a && b then %>y")
	grammar := writeTestFile(t, "grammar.yaml", testGrammar)
	output := filepath.Join(t.TempDir(), "out.json")

	code, stdout, stderr := runCLI(t, "", CmdNameLex,
		"-i", input, "-g", grammar, "--case-insensitive", "-F", OutputFormatJSON, "-o", output)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var lexes []lexOutput
	require.NoError(t, json.Unmarshal(data, &lexes))
	require.Len(t, lexes, 3)
	assert.Equal(t, "&&{@a,@b}", lexes[1].Components[1].Text)
}

func TestLex_DelimiterFlags(t *testing.T) {
	code, stdout, _ := runCLI(t, "{~ END ~}[[ END ]]", CmdNameLex, "-t", testTagEnd, "--open", "[[", "--close", "]]")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "1:1\ttext\t\"{~ END ~}\"")
	assert.Contains(t, stdout, "1:10\ttag\tEND\tEND")
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		exitCode int
		message  string
	}{
		{"no matching tag", "{~ FOO ~}", []string{"-t", testTagEnd}, ExitCodeLexError, ErrMsgLexFailed},
		{"invalid markup", "", []string{"-t", "IF $ $"}, ExitCodeError, ErrMsgEngineFailed},
		{"missing grammar", "", []string{"-g", filepath.Join(os.TempDir(), "missing-grammar.yaml")}, ExitCodeError, ErrMsgEngineFailed},
		{"missing input", "", []string{"-i", filepath.Join(os.TempDir(), "missing-input.tpl")}, ExitCodeInputError, ErrMsgReadFileFailed},
		{"invalid format", "", []string{"-F", "xml"}, ExitCodeUsageError, ErrMsgInvalidFormat},
		{"invalid style", "", []string{"-s", "lisp"}, ExitCodeUsageError, ErrMsgInvalidStyle},
		{"extra arguments", "", []string{"page.tpl"}, ExitCodeUsageError, ErrMsgTooManyArguments},
		{"unknown flag", "", []string{"--nope"}, ExitCodeUsageError, ErrMsgInvalidFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.stdin, append([]string{CmdNameLex}, tt.args...)...)
			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

// ==================== eval tests ====================

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"arithmetic", "", []string{"1 + 2 * 3"}, "7\n"},
		{"words joined", "", []string{"1", "+", "2"}, "3\n"},
		{"stdin", "2 * 3\n", nil, "6\n"},
		{"json data", "", []string{"-d", `{"items": [1, 2, 3]}`, "items.length * 2"}, "6\n"},
		{"yaml data", "", []string{"--data", "name: Ada", "'hi ' + name"}, "hi Ada\n"},
		{"undefined", "", []string{"missing"}, "undefined\n"},
		{"functions", "", []string{"-d", `{"name": "ada"}`, "upper(name) + len(name)"}, "ADA3\n"},
		{"boolean", "", []string{"1 < 2 && !false"}, "true\n"},
		{"permissive", "", []string{"--permissive", "1 / 0"}, "undefined\n"},
		{"style", "", []string{"-s", "polish", "1 + 2 * 3"}, "polish: + 1 * 2 3\n7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, append([]string{CmdNameEval}, tt.args...)...)
			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestEval_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameEval, "-F", OutputFormatJSON, "1 + 1")
	require.Equal(t, ExitCodeSuccess, code)

	var out evalOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "+{1,1}", out.Expression)
	assert.Equal(t, "number", out.Kind)
	assert.EqualValues(t, 2, out.Value)
}

func TestEval_DataFileAndGrammar(t *testing.T) {
	dataFile := writeTestFile(t, "data.yaml", "ok: true\ndone: false\n")
	grammar := writeTestFile(t, "grammar.yaml", testGrammar)

	code, stdout, stderr := runCLI(t, "", CmdNameEval, "-f", dataFile, "-g", grammar, "ok and done")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "false\n", stdout)
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		exitCode int
		message  string
	}{
		{"incomplete expression", "", []string{"1 +"}, ExitCodeLexError, ErrMsgExpressionFailed},
		{"division by zero", "", []string{"1 / 0"}, ExitCodeError, ErrMsgEvaluateFailed},
		{"no expression", "  \n", nil, ExitCodeUsageError, ErrMsgMissingExpression},
		{"invalid data", "", []string{"-d", "[1, 2", "1"}, ExitCodeInputError, ErrMsgInvalidData},
		{"both data sources", "", []string{"-d", "{}", "-f", "data.json", "1"}, ExitCodeInputError, ErrMsgDataBothSources},
		{"invalid style", "", []string{"-s", "lisp", "1"}, ExitCodeUsageError, ErrMsgInvalidStyle},
		{"invalid format", "", []string{"-F", "xml", "1"}, ExitCodeUsageError, ErrMsgInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.stdin, append([]string{CmdNameEval}, tt.args...)...)
			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stderr, tt.message)
		})
	}
}
