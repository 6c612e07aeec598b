package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/interpreter.txt
	interpreterRaw string

	//go:embed template/interpreter_json.txt
	interpreterJSONRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	// Interpreter goes through an FString chat template and must not contain braces.
	Interpreter     string
	InterpreterJSON string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Interpreter:     strings.TrimSpace(interpreterRaw),
		InterpreterJSON: strings.TrimSpace(interpreterJSONRaw),
	}
}
