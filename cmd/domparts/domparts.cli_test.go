package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/safehtml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = "<p class=\"${kind}\">${name}</p>\n"
	testValuesYAML      = "kind: greeting\nname: Alice\n"
	testListTemplate    = "<ul>${items}</ul>"
	testListValues      = "items:\n  - <a>\n  - b\n"
	testInvalidTemplate = "<p>${name</p>"
	testStrippedOutput  = "<p class=\"greeting\">Alice</p>"
	testServerMarkup    = "<!--template-part--><p><!--dom-part-0-->hi<!--/dom-part-0--></p><!--/template-part-->"
)

type testFiles struct {
	dir          string
	template     string
	values       string
	listTemplate string
	listValues   string
	invalid      string
	markup       string
}

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) testFiles {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
		return path
	}
	return testFiles{
		dir:          dir,
		template:     write("card.html", testTemplateContent),
		values:       write("values.yaml", testValuesYAML),
		listTemplate: write("list.html", testListTemplate),
		listValues:   write("list.yaml", testListValues),
		invalid:      write("invalid.html", testInvalidTemplate),
		markup:       write("page.html", testServerMarkup),
	}
}

func runCLI(args []string, stdin string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(nil, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameRender)
	assert.Contains(t, stdout, CmdNameInspect)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI([]string{"bogus"}, "")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgUsage)
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runCLI([]string{CmdNameRender, "--bogus"}, "")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== render tests ====================

func TestRender_ServerOutputCarriesMarkers(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", files.template, "-f", files.values}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "<!--template-part-->"))
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "dom-part-0")
}

func TestRender_Strip(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", files.template, "-f", files.values, "--strip"}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testStrippedOutput+FmtNewline, stdout)
}

func TestRender_ClientMatchesServerAfterStrip(t *testing.T) {
	files := setupTestData(t)

	_, server, _ := runCLI([]string{CmdNameRender, "-t", files.listTemplate, "-f", files.listValues, "--strip"}, "")
	code, client, stderr := runCLI([]string{CmdNameRender, "-t", files.listTemplate, "-f", files.listValues, "--strip", "--client"}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, server, client)
	assert.Equal(t, "<ul>&lt;a&gt;b</ul>"+FmtNewline, client)
}

func TestRender_HTMLValue(t *testing.T) {
	files := setupTestData(t)
	values := filepath.Join(files.dir, "html.yaml")
	require.NoError(t, os.WriteFile(values, []byte("body:\n  html: \"<b>b</b>\"\n"), FilePermissions))

	for _, client := range []bool{false, true} {
		args := []string{CmdNameRender, "-t", "-", "-f", values, "--strip"}
		if client {
			args = append(args, "--"+FlagClient)
		}
		code, stdout, stderr := runCLI(args, "<div>${body}</div>")

		require.Equal(t, ExitCodeSuccess, code, stderr)
		assert.Equal(t, "<div><b>b</b></div>"+FmtNewline, stdout)
	}
}

func TestRender_TemplateFromStdin(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", "-", "-f", files.values, "--strip"}, testTemplateContent)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testStrippedOutput+FmtNewline, stdout)
}

func TestRender_MissingValuesRenderEmpty(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", files.template, "--strip"}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<p></p>"+FmtNewline, stdout)
}

func TestRender_OutputFile(t *testing.T) {
	files := setupTestData(t)
	out := filepath.Join(files.dir, "out.html")

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", files.template, "-f", files.values, "--strip", "-o", out}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testStrippedOutput+FmtNewline, string(data))
}

func TestRender_Errors(t *testing.T) {
	files := setupTestData(t)
	badValues := filepath.Join(files.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badValues, []byte("name: [unclosed"), FilePermissions))
	badConfig := filepath.Join(files.dir, "bad-config.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("log_level: loud\n"), FilePermissions))

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"missing template", []string{CmdNameRender}, ExitCodeUsageError, ErrMsgMissingTemplate},
		{"template not found", []string{CmdNameRender, "-t", filepath.Join(files.dir, "nope.html")}, ExitCodeInputError, ErrMsgReadFileFailed},
		{"unclosed placeholder", []string{CmdNameRender, "-t", files.invalid}, ExitCodeTemplateError, ErrMsgCompileFailed},
		{"invalid values", []string{CmdNameRender, "-t", files.template, "-f", badValues}, ExitCodeInputError, ErrMsgInvalidValues},
		{"invalid config", []string{"-c", badConfig, CmdNameRender, "-t", files.template}, ExitCodeInputError, ErrMsgLoadConfigFailed},
		{"positional args", []string{CmdNameRender, "extra"}, ExitCodeUsageError, ErrMsgUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args, "")
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr, tt.msg)
		})
	}
}

func TestRender_WithConfig(t *testing.T) {
	files := setupTestData(t)
	cfg := filepath.Join(files.dir, "domparts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("max_depth: 8\nmetrics:\n  namespace: cli\n"), FilePermissions))

	code, stdout, stderr := runCLI([]string{"--config", cfg, CmdNameRender, "-t", files.template, "-f", files.values, "--strip"}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testStrippedOutput+FmtNewline, stdout)
}

// ==================== compile tests ====================

func TestCompile_Client(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameCompile, "-t", files.template}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "<!--template-part-->")
	assert.Contains(t, stdout, "<!--dom-part-1-->")
	assert.NotContains(t, stdout, "{{dom-part?")
}

func TestCompile_SSR(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameCompile, "-t", files.template, "--" + FlagSSR}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "{{dom-part?")
	assert.Contains(t, stdout, "type=attribute")
	assert.Contains(t, stdout, "type=node")
}

func TestCompile_MissingTemplate(t *testing.T) {
	code, _, _ := runCLI([]string{CmdNameCompile}, "")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== strip tests ====================

func TestStrip_File(t *testing.T) {
	files := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameStrip, "-i", files.markup}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<p>hi</p>"+FmtNewline, stdout)
}

func TestStrip_Stdin(t *testing.T) {
	code, stdout, stderr := runCLI([]string{CmdNameStrip}, testServerMarkup)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<p>hi</p>"+FmtNewline, stdout)
}

// ==================== inspect tests ====================

func TestInspect_Text(t *testing.T) {
	code, stdout, stderr := runCLI([]string{CmdNameInspect}, testServerMarkup)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), FmtNewline)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "template-part")
	assert.Contains(t, lines[1], "dom-part-0")
	assert.Contains(t, lines[1], "prerendered=true")
}

func TestInspect_JSON(t *testing.T) {
	code, stdout, stderr := runCLI([]string{CmdNameInspect, "-F", OutputFormatJSON}, testServerMarkup)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	var regions []regionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &regions))
	require.Len(t, regions, 2)
	assert.True(t, regions[0].Scope)
	assert.Equal(t, -1, regions[0].Index)
	assert.False(t, regions[1].Scope)
	assert.Equal(t, 0, regions[1].Index)
	assert.Equal(t, 1, regions[1].Nodes)
	assert.True(t, regions[1].Closed)
	assert.True(t, regions[1].PreRendered)
}

func TestInspect_Empty(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameInspect}, "<p>plain</p>")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, InspectTextEmpty+FmtNewline, stdout)
}

func TestInspect_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameInspect, "-F", "xml"}, testServerMarkup)

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

// ==================== version tests ====================

func TestVersion_Text(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion}, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "go-domparts version")
}

func TestVersion_JSON(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion, "--format", OutputFormatJSON}, "")

	require.Equal(t, ExitCodeSuccess, code)
	var v versionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &v))
	assert.NotEmpty(t, v.GoVersion)
}

func TestGetVersionInfo_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.yaml")
	content := "project:\n  version: 1.2.3\ngit:\n  commit: abc123\n  branch: main\n"
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	v := getVersionInfo([]string{filepath.Join(t.TempDir(), "missing.yaml"), path})

	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, "abc123", v.Commit)
	assert.Equal(t, "main", v.Branch)
	assert.Equal(t, VersionUnknown, v.BuildTime)
}

// ==================== helper tests ====================

func TestParseSource(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		segments []string
		names    []string
		wantErr  string
	}{
		{"no placeholders", "<p>hi</p>", []string{"<p>hi</p>"}, nil, ""},
		{"one", "<p>${ name }</p>", []string{"<p>", "</p>"}, []string{"name"}, ""},
		{"adjacent", "${a}${b}", []string{"", "", ""}, []string{"a", "b"}, ""},
		{"dollar without brace", "$5 ${x}", []string{"$5 ", ""}, []string{"x"}, ""},
		{"unclosed", "<p>${name</p>", nil, nil, ErrMsgUnclosedName},
		{"empty", "<p>${}</p>", nil, nil, ErrMsgEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, names, err := parseSource(tt.src)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.segments, segments)
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestBindValue_HTMLMapping(t *testing.T) {
	v := bindValue(map[string]any{ValueKeyHTML: "<i>x</i>"})
	h, ok := v.(safehtml.HTML)
	require.True(t, ok)
	assert.Equal(t, "<i>x</i>", h.String())

	other := map[string]any{ValueKeyHTML: "<i>x</i>", "extra": 1}
	assert.Equal(t, other, bindValue(other))
}
