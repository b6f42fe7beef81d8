package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdbufgen/pkg/api"
	"cmdbufgen/pkg/parser"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func info(fn func(fi *api.FunctionInfo)) *api.FunctionInfo {
	fi := &api.FunctionInfo{}
	fi.ApplyDefaults()
	if fn != nil {
		fn(fi)
	}
	return fi
}

func decl(ret, name, args string) parser.Declaration {
	return parser.Declaration{Dialect: parser.DialectGL, ReturnType: ret, Name: name, Args: args}
}

func names(args []*api.Argument) []string {
	var out []string
	for _, a := range args {
		out = append(out, a.Name)
	}
	return out
}

func TestBuildClearColor(t *testing.T) {
	b := NewBuilder(newTestClassifier(t), nil)
	fn, err := b.Build(decl("void", "glClearColor", "GLclampf red, GLclampf green, GLclampf blue, GLclampf alpha"))
	require.NoError(t, err)
	require.NotNil(t, fn)

	assert.Equal(t, []string{"red", "green", "blue", "alpha"}, names(fn.CmdArgs))
	for _, a := range fn.CmdArgs {
		assert.Equal(t, api.KindValue, a.Kind)
		assert.Equal(t, "float", a.WireType())
		assert.Zero(t, NumInvalidValues(fn, a))
	}
	assert.Zero(t, fn.NumPointerArgs)
	assert.False(t, WantsImmediate(fn))
	assert.True(t, fn.CanAutoGenerate())
	assert.False(t, fn.IsSynchronous())
}

func TestBuildCmdArgsOverride(t *testing.T) {
	infos := api.InfoTable{
		"glBindBuffer": info(func(fi *api.FunctionInfo) {
			fi.CmdArgs = strPtr("GLenumBufferTarget target, GLidBindBuffer buffer")
		}),
	}
	b := NewBuilder(newTestClassifier(t), infos)
	fn, err := b.Build(decl("void", "glBindBuffer", "GLenum target, GLuint buffer"))
	require.NoError(t, err)

	require.Len(t, fn.CmdArgs, 2)
	assert.Equal(t, api.KindEnum, fn.CmdArgs[0].Kind)
	assert.Equal(t, api.KindResourceIDBind, fn.CmdArgs[1].Kind)
	assert.Equal(t, "uint32_t", fn.CmdArgs[0].WireType())
	assert.Equal(t, "uint32_t", fn.CmdArgs[1].WireType())

	// The API signature keeps the declared types.
	assert.Equal(t, "GLenum", fn.OriginalArgs[0].Type)
	assert.Equal(t, api.KindValue, fn.OriginalArgs[0].Kind)

	inv, ok := InvalidArg(fn.CmdArgs[0], 0)
	require.True(t, ok)
	assert.Equal(t, "GL_RENDERBUFFER", inv.Value)
	assert.Equal(t, "GL_INVALID_ENUM", inv.GLError)
}

func TestBuildCmdArgsMismatch(t *testing.T) {
	infos := api.InfoTable{
		"glBindBuffer": info(func(fi *api.FunctionInfo) {
			fi.CmdArgs = strPtr("GLenumBufferTarget target, GLidBindBuffer buf")
		}),
		"glBindTexture": info(func(fi *api.FunctionInfo) {
			fi.CmdArgs = strPtr("GLenumTextureBindTarget target")
		}),
	}
	b := NewBuilder(newTestClassifier(t), infos)

	_, err := b.Build(decl("void", "glBindBuffer", "GLenum target, GLuint buffer"))
	assert.ErrorIs(t, err, api.ErrCmdArgMismatch)
	assert.ErrorContains(t, err, `"buf"`)

	_, err = b.Build(decl("void", "glBindTexture", "GLenum target, GLuint texture"))
	assert.ErrorIs(t, err, api.ErrCmdArgMismatch)
}

func TestBuildCategories(t *testing.T) {
	infos := api.InfoTable{
		"glReleaseShaderCompiler": info(func(fi *api.FunctionInfo) {
			fi.Type = "Noop"
		}),
		"glFinish": info(func(fi *api.FunctionInfo) {
			fi.Type = "Synchronous"
		}),
		"glMystery": info(func(fi *api.FunctionInfo) {
			fi.Type = "Whenever"
		}),
	}
	b := NewBuilder(newTestClassifier(t), infos)

	fn, err := b.Build(decl("void", "glReleaseShaderCompiler", "void"))
	assert.NoError(t, err)
	assert.Nil(t, fn)

	fn, err = b.Build(decl("void", "glFinish", "void"))
	require.NoError(t, err)
	assert.True(t, fn.IsSynchronous())
	assert.Empty(t, fn.CmdArgs)

	_, err = b.Build(decl("void", "glMystery", "void"))
	assert.ErrorIs(t, err, api.ErrUnknownCategory)

	_, err = b.Build(decl("void", "glBogus", "GLenumNoSuchDomain mode"))
	assert.ErrorIs(t, err, api.ErrUnknownEnumDomain)
}

func TestBuildNeedsSize(t *testing.T) {
	infos := api.InfoTable{
		"glCompressedTexImage2D": info(func(fi *api.FunctionInfo) {
			fi.NeedsSize = true
			fi.ArgumentHasSize["data"] = "imageSize"
		}),
	}
	b := NewBuilder(newTestClassifier(t), infos)
	fn, err := b.Build(decl("void", "glCompressedTexImage2D", "GLsizei imageSize, const void* data"))
	require.NoError(t, err)

	assert.Equal(t, []string{"imageSize", "data", DataSizeName}, names(fn.CmdArgs))
	assert.Equal(t, api.KindDataSize, fn.CmdArgs[2].Kind)
	assert.Equal(t, []string{"imageSize", "data"}, names(fn.InitArgs))
	assert.Equal(t, "imageSize", fn.DataSizeExpression())
}

func TestImmediateVariants(t *testing.T) {
	infos := api.InfoTable{
		"glUniform4fv": info(func(fi *api.FunctionInfo) {
			fi.ArgumentHasSize["value"] = "count"
			fi.ArgumentElementSize["value"] = 4
		}),
		"glTexImage2D": info(func(fi *api.FunctionInfo) {
			fi.Immediate = boolPtr(false)
		}),
		"glDeleteBuffers": info(func(fi *api.FunctionInfo) {
			fi.Immediate = boolPtr(true)
		}),
		"glCompressedTexSubImage2D": info(func(fi *api.FunctionInfo) {
			fi.NeedsSize = true
		}),
		"glCompressedTexImage2D": info(func(fi *api.FunctionInfo) {
			fi.NeedsSize = true
			fi.ArgumentHasSize["data"] = "imageSize"
		}),
		"glUniformPair": info(func(fi *api.FunctionInfo) {
			fi.Immediate = boolPtr(true)
			fi.ArgumentElementSize["a"] = 4
			fi.ArgumentElementSize["b"] = 4
		}),
	}
	b := NewBuilder(newTestClassifier(t), infos)

	t.Run("sized payload", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glUniform4fv", "GLintUniformLocation location, GLsizei count, const GLfloat* value"))
		require.NoError(t, err)
		require.True(t, WantsImmediate(fn))

		imm, err := NewImmediateFunction(fn)
		require.NoError(t, err)
		assert.Equal(t, "glUniform4fvImmediate", imm.Name)
		assert.Equal(t, "glUniform4fv", imm.OriginalName)
		assert.True(t, imm.IsImmediate)
		assert.Equal(t, []string{"location", "count"}, names(imm.CmdArgs))
		assert.Equal(t, []string{"location", "count", "value"}, names(imm.InitArgs))

		payload := imm.ImmediateArg()
		require.NotNil(t, payload)
		assert.Equal(t, api.KindImmediatePointer, payload.Kind)
		assert.Equal(t, "count * 4 * sizeof (const GLfloat)", imm.SizeExpression(payload))

		// The original command keeps its pointer.
		assert.Equal(t, api.KindPointer, fn.CmdArgs[2].Kind)
	})

	t.Run("unsized payload", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glBufferSubData", "GLenumBufferTarget target, GLintptrNotNegative offset, GLsizeiptr size, const void* data"))
		require.NoError(t, err)
		imm, err := NewImmediateFunction(fn)
		require.NoError(t, err)
		assert.Equal(t, []string{"target", "offset", "size", DataSizeName}, names(imm.CmdArgs))
		assert.Equal(t, []string{"target", "offset", "size", "data", DataSizeName}, names(imm.InitArgs))
	})

	t.Run("needs size with unsized payload", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glCompressedTexSubImage2D", "GLuint id, const void* data"))
		require.NoError(t, err)
		imm, err := NewImmediateFunction(fn)
		require.NoError(t, err)

		// A single data_size, passed in by the caller.
		assert.Equal(t, []string{"id", DataSizeName}, names(imm.CmdArgs))
		assert.Equal(t, []string{"id", "data", DataSizeName}, names(imm.InitArgs))
		assert.Same(t, imm.CmdArgs[1], imm.InitArgs[2])
	})

	t.Run("needs size with sized payload", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glCompressedTexImage2D", "GLsizei imageSize, const void* data"))
		require.NoError(t, err)
		imm, err := NewImmediateFunction(fn)
		require.NoError(t, err)

		assert.Equal(t, []string{"imageSize", DataSizeName}, names(imm.CmdArgs))
		assert.Equal(t, []string{"imageSize", "data"}, names(imm.InitArgs))
		assert.Equal(t, "imageSize", imm.DataSizeExpression())
	})

	t.Run("two inline payloads", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glUniformPair", "const GLfloat* a, const GLfloat* b"))
		require.NoError(t, err)
		require.True(t, WantsImmediate(fn))

		_, err = NewImmediateFunction(fn)
		assert.ErrorIs(t, err, api.ErrImmediatePayloads)
		assert.ErrorContains(t, err, "glUniformPairImmediate has 2")
	})

	t.Run("opted out", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glTexImage2D", "GLenumTextureTarget target, GLint level, const void* pixels"))
		require.NoError(t, err)
		assert.False(t, WantsImmediate(fn))
	})

	t.Run("two pointers", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glGetShaderSource", "GLuint shader, GLsizei bufsize, GLsizei* length, GLchar* source"))
		require.NoError(t, err)
		assert.Equal(t, 2, fn.NumPointerArgs)
		assert.False(t, WantsImmediate(fn))
	})

	t.Run("forced", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glDeleteBuffers", "GLsizeiNotNegative n, const GLuint* buffers"))
		require.NoError(t, err)
		assert.True(t, WantsImmediate(fn))
	})

	t.Run("non-immediate pointer", func(t *testing.T) {
		fn, err := b.Build(decl("void", "glReadPixels", "GLint x, NonImmediate GLvoid* pixels"))
		require.NoError(t, err)
		assert.Zero(t, fn.NumPointerArgs)
		assert.False(t, WantsImmediate(fn))
	})
}
