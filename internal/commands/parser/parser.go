// Package parser turns a raw terminal line into a typed instruction.
// Parsing never fails: malformed input becomes a displayable instruction
// variant, so the pipeline treats user mistakes as data.
package parser

import "strings"

const (
	createUsage   = "Usage: create <type> <name> [language]"
	typeErrorMsg  = "Error: Type must be 'app', 'website', or 'component'"
	generateUsage = "Usage: generate <description>"

	defaultLanguage = "javascript"
)

// Instruction is the parsed form of one command line. The concrete variants
// below are the only implementations; the executor switches over them
// exhaustively.
type Instruction interface {
	isInstruction()
}

// CreateInstruction scaffolds a new project.
type CreateInstruction struct {
	Type     string
	Name     string
	Language string
}

// GenerateInstruction requests code generation from a description.
type GenerateInstruction struct {
	Description string
}

// ListInstruction lists the caller's projects.
type ListInstruction struct{}

// HelpInstruction prints the usage summary.
type HelpInstruction struct{}

// UnknownInstruction carries an unrecognized verb.
type UnknownInstruction struct {
	Verb string
}

// InvalidInstruction carries a usage or type error message, rendered verbatim
// as the command output. No side effects are performed for it.
type InvalidInstruction struct {
	Message string
}

func (CreateInstruction) isInstruction()   {}
func (GenerateInstruction) isInstruction() {}
func (ListInstruction) isInstruction()     {}
func (HelpInstruction) isInstruction()     {}
func (UnknownInstruction) isInstruction()  {}
func (InvalidInstruction) isInstruction()  {}

// Parse splits raw input on whitespace; the first token is the verb, the rest
// are positional arguments. There is no quoting or escaping.
func Parse(raw string) Instruction {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return UnknownInstruction{Verb: ""}
	}

	verb, args := parts[0], parts[1:]

	switch verb {
	case "create":
		// Arity is checked before type validity.
		if len(args) < 2 {
			return InvalidInstruction{Message: createUsage}
		}
		projectType := args[0]
		if projectType != "app" && projectType != "website" && projectType != "component" {
			return InvalidInstruction{Message: typeErrorMsg}
		}
		language := defaultLanguage
		if len(args) >= 3 {
			language = args[2]
		}
		return CreateInstruction{Type: projectType, Name: args[1], Language: language}

	case "generate":
		if len(args) < 1 {
			return InvalidInstruction{Message: generateUsage}
		}
		return GenerateInstruction{Description: strings.Join(args, " ")}

	case "list":
		return ListInstruction{}

	case "help":
		return HelpInstruction{}

	default:
		return UnknownInstruction{Verb: verb}
	}
}
