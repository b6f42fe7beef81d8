package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/api"
)

// ServerGenerator writes the server command handlers
type ServerGenerator struct {
	base
}

// NewServerGenerator creates a new server generator
func NewServerGenerator(w io.Writer, sources *CustomSources) *ServerGenerator {
	return &ServerGenerator{base: base{w: w, sources: sources}}
}

// GenerateHandler writes server_handle_<name> for fn
func (g *ServerGenerator) GenerateHandler(fn *api.Function) {
	lname := api.LowerName(fn.Name)
	g.emit("static void\n")
	g.emit("server_handle_%s (server_t *server, command_t *abstract_command)\n", lname)
	g.emit("{\n")
	g.emit("    INSTRUMENT ();\n")

	needDestructor := g.sources.NeedsDestructorCall(fn)
	if needDestructor || len(fn.OriginalArgs) > 0 || fn.HasReturnValue() {
		g.emit("    %s *command =\n", commandType(fn))
		g.emit("            (%s *)abstract_command;\n", commandType(fn))
	}

	for _, name := range fn.MappedNameAttributes() {
		g.emit("    if (command->%s) {\n", name)
		g.emit("        mutex_lock (name_mapping_mutex);\n")
		g.emit("        GLuint *%s = hash_lookup (name_mapping_%s, command->%s);\n", name, fn.MappedNameType(), name)
		g.emit("        mutex_unlock (name_mapping_mutex);\n")
		g.emit("        if (!%s) {\n", name)
		if fn.NeedsCreateMappedName(name) {
			g.emit("            GLuint *data = (GLuint *) malloc (1 * sizeof (GLuint));\n")
			g.emit("            *data = command->%s;\n", name)
			g.emit("            mutex_lock (name_mapping_mutex);\n")
			g.emit("            hash_insert (name_mapping_%s, *data, data);\n", fn.MappedNameType())
			g.emit("            mutex_unlock (name_mapping_mutex);\n")
			g.emit("            %s = data;\n", name)
		} else {
			g.emit("            return;\n")
		}
		g.emit("        }\n")
		g.emit("        command->%s = *%s;\n", name, name)
		g.emit("    }\n")
	}

	var callArgs []string
	for _, a := range fn.OriginalArgs {
		c := cmdArgFor(fn, a)
		switch StorageOf(fn, c) {
		case StoreShm:
			g.emit("    %s %s = (%s) command_get_shared_memory (abstract_command,\n", a.Type, a.Name, a.Type)
			g.emit("            command->%s_shm_id, command->%s_shm_offset);\n", a.Name, a.Name)
			callArgs = append(callArgs, a.Name)
		case StoreInline:
			g.emit("    %s %s = (%s) command_get_immediate_data (abstract_command);\n", a.Type, a.Name, a.Type)
			callArgs = append(callArgs, a.Name)
		case StoreValue, StoreRaw, StoreString, StoreCopy, StoreComputed:
			if a.IsDoublePointer() && strings.Contains(a.Type, "const") {
				callArgs = append(callArgs, fmt.Sprintf("(%s) command->%s", a.Type, a.Name))
			} else {
				callArgs = append(callArgs, "command->"+a.Name)
			}
		}
	}

	g.emit("    ")
	if fn.HasReturnValue() {
		g.emit("command->result = ")
	}
	g.emit("server->dispatch.%s (server%s);\n", fn.OriginalName, withLeading(", ", strings.Join(callArgs, ", ")))

	if needDestructor {
		g.emit("    command_%s_destroy_arguments (command);\n", lname)
	}
	g.emit("}\n\n")
}

// GenerateServer writes server_autogen.c
func (g *ServerGenerator) GenerateServer(fns []*api.Function) {
	for _, fn := range fns {
		if g.sources.HasCustomServerHandler(fn) {
			continue
		}
		g.GenerateHandler(fn)
	}

	g.emit("static void\n")
	g.emit("server_fill_command_handler_table (server_t* server)\n")
	g.emit("{\n")
	for _, fn := range fns {
		g.emit("    server->handler_table[%s] =\n", commandID(fn))
		g.emit("        server_handle_%s;\n", api.LowerName(fn.Name))
	}
	g.emit("}\n\n")
}
