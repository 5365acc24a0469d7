package storage

import (
	_ "embed"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var taskFileSchema string

// compileSchema compiles the embedded task-file schema. The schema ships
// with the binary so every load validates against the same document shape.
func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(taskFileSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("tasks.schema.json")
}
