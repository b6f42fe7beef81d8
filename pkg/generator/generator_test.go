package generator

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"cmdbufgen/pkg/config"
	"cmdbufgen/pkg/parser"
)

func init() {
	color.NoColor = true
}

// extractTree writes the archive below a fresh directory and returns a
// configuration pointing at it
func extractTree(t *testing.T, name string) *config.Config {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	root := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}

	cfg := config.Default()
	cfg.Input.FunctionInfo = filepath.Join(root, "api", "function_info.json")
	cfg.Input.Enums = filepath.Join(root, "api", "extra_enums.yaml")
	cfg.Input.GLES2 = []string{filepath.Join(root, "api", "gles2_functions.txt")}
	cfg.Input.EGL = []string{filepath.Join(root, "api", "egl_functions.txt")}
	cfg.Input.SourceDir = filepath.Join(root, "src")
	cfg.Output.Dir = filepath.Join(root, "out")
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readOutput(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	cfg := extractTree(t, "run.txtar")

	var out bytes.Buffer
	g, err := New(cfg, &out, quietLogger())
	require.NoError(t, err)
	require.NoError(t, g.Run())

	// glBogus names an unknown domain; everything else is generated.
	assert.Equal(t, 1, g.Errors())
	assert.Equal(t, "Error: glBogus: unknown enum domain \"NoSuchDomain\" in argument \"mode\"\n", out.String())
	require.Error(t, g.Err())
	assert.Contains(t, g.Err().Error(), "glBogus")

	var names []string
	for _, fn := range g.Functions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{
		"glBindBuffer",
		"glClearColor",
		"glDeleteBuffers",
		"glDeleteBuffersImmediate",
		"glGetString",
		"glSamplerParameteri",
		"eglGetError",
		"eglGetProcAddress",
		"eglGetProcAddressImmediate",
	}, names)

	stats := g.Stats()
	assert.Equal(t, len(g.OutputNames()), stats.FilesWritten)
	assert.Zero(t, stats.FilesKept)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.CustomStructs)

	for _, name := range g.OutputNames() {
		content := readOutput(t, cfg, name)
		assert.NotContains(t, content, "glBogus", name)
		assert.NotContains(t, content, "glSampleCoverage", name)
		assert.NotContains(t, content, "glReleaseShaderCompiler", name)
	}

	types := readOutput(t, cfg, "command_types_autogen.h")
	assert.Equal(t, "COMMAND_GLBINDBUFFER,\nCOMMAND_GLCLEARCOLOR,\nCOMMAND_GLDELETEBUFFERS,\nCOMMAND_GLDELETEBUFFERSIMMEDIATE,\n"+
		"COMMAND_GLGETSTRING,\nCOMMAND_GLSAMPLERPARAMETERI,\nCOMMAND_EGLGETERROR,\nCOMMAND_EGLGETPROCADDRESS,\n"+
		"COMMAND_EGLGETPROCADDRESSIMMEDIATE,\n\n", types)

	header := readOutput(t, cfg, "command_autogen.h")
	assert.NotContains(t, header, "typedef struct _command_glclearcolor ")
	assert.Contains(t, header, "typedef struct _command_gldeletebuffersimmediate {\n    command_t header;\n    int32_t n;\n    uint32_t data_size;\n} command_gldeletebuffersimmediate_t;\n")

	table := readOutput(t, cfg, "dispatch_table_autogen.h")
	assert.True(t, strings.HasPrefix(table, "#ifndef DISPATCH_TABLE_AUTOGEN_H\n#define DISPATCH_TABLE_AUTOGEN_H\n"))
	assert.NotContains(t, table, "Immediate")

	pass := readOutput(t, cfg, "dispatch_table_autogen.c")
	assert.NotContains(t, pass, "static __eglMustCastToProperFunctionPointerType (*real_eglGetProcAddress) (const char *procname);")
	assert.Contains(t, pass, "    *temp = find_gl_symbol (libegl_handle (),\n                            real_eglGetProcAddress, \"eglGetError\");\n")

	entries := readOutput(t, cfg, "client_entry_points.c")
	assert.NotContains(t, entries, "eglGetProcAddress")
	assert.Contains(t, entries, "EGLint eglGetError (void)\n{\n")

	validation := readOutput(t, cfg, "enum_validation.h")
	assert.Contains(t, validation, "is_valid_SamplerParameter (GLenum value)")

	tests := readOutput(t, cfg, "boundary_tests_autogen.c")
	assert.Contains(t, tests, "    command->pname = GL_TEXTURE_MAX_LEVEL;\n")
	assert.Contains(t, tests, "    command->n = -1;\n")
	assert.Contains(t, tests, "test_suite_add (suite, \"glBindBuffer target invalid 0\", test_glbindbuffer_invalid_target_0);")
	assert.NotContains(t, tests, "test_glclearcolor_invalid")
	assert.Equal(t, stats.BoundaryTests, strings.Count(tests, "test_suite_add"))
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := extractTree(t, "run.txtar")

	first, err := New(cfg, io.Discard, quietLogger())
	require.NoError(t, err)
	require.NoError(t, first.Run())

	before := map[string]os.FileInfo{}
	contents := map[string]string{}
	for _, name := range first.OutputNames() {
		info, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		require.NoError(t, err)
		before[name] = info
		contents[name] = readOutput(t, cfg, name)
	}

	second, err := New(cfg, io.Discard, quietLogger())
	require.NoError(t, err)
	require.NoError(t, second.Run())

	assert.Zero(t, second.Stats().FilesWritten)
	assert.Equal(t, len(before), second.Stats().FilesKept)
	for name, info := range before {
		after, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		require.NoError(t, err)
		assert.True(t, after.ModTime().Equal(info.ModTime()), "%s was rewritten", name)
		assert.Equal(t, contents[name], readOutput(t, cfg, name))
	}
}

func TestNewLoadErrors(t *testing.T) {
	cfg := extractTree(t, "run.txtar")

	missing := *cfg
	missing.Input.FunctionInfo = filepath.Join(t.TempDir(), "nope.json")
	_, err := New(&missing, io.Discard, nil)
	assert.ErrorContains(t, err, "loading function info")

	badEnums := *cfg
	badEnums.Input.Enums = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = New(&badEnums, io.Discard, nil)
	assert.ErrorContains(t, err, "loading enum domains")
}

func TestRunMissingDeclarations(t *testing.T) {
	cfg := extractTree(t, "run.txtar")
	cfg.Input.EGL = []string{filepath.Join(t.TempDir(), "missing.txt")}

	g, err := New(cfg, io.Discard, quietLogger())
	require.NoError(t, err)
	assert.ErrorIs(t, g.Run(), os.ErrNotExist)
}

func TestParseAPISkipsMalformedLines(t *testing.T) {
	cfg := extractTree(t, "run.txtar")
	g, err := New(cfg, io.Discard, quietLogger())
	require.NoError(t, err)

	g.ParseAPI("garbage\nGL_APICALL void GL_APIENTRY glFlush (void);\nGL_APICALL void GL_APIENTRY glFinish (void)\n", parser.DialectGL)
	assert.Zero(t, g.Errors())
	require.Len(t, g.Functions(), 1)
	assert.Equal(t, "glFlush", g.Functions()[0].Name)
}

func TestTwoInlinePayloadsAreAnError(t *testing.T) {
	cfg := extractTree(t, "run.txtar")
	cfg.Input.FunctionInfo = filepath.Join(t.TempDir(), "function_info.json")
	require.NoError(t, os.WriteFile(cfg.Input.FunctionInfo, []byte(`{
    "glUniformPair": {
        "immediate": true,
        "argument_element_size": {"a": 4, "b": 4}
    }
}`), 0o644))

	var out bytes.Buffer
	g, err := New(cfg, &out, quietLogger())
	require.NoError(t, err)

	g.ParseAPI("GL_APICALL void GL_APIENTRY glUniformPair (const GLfloat* a, const GLfloat* b);\n"+
		"GL_APICALL void GL_APIENTRY glFlush (void);\n", parser.DialectGL)

	assert.Equal(t, 1, g.Errors())
	assert.Equal(t, 1, g.Stats().Errors)
	assert.Contains(t, out.String(), "Error: glUniformPair: immediate variant with more than one inline payload")

	// The failing function is left out entirely.
	require.Len(t, g.Functions(), 1)
	assert.Equal(t, "glFlush", g.Functions()[0].Name)
}
