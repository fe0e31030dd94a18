// Package executor performs the side effect behind a parsed instruction and
// renders its outcome as the command's output text.
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/emergent-shell/shell-backend/internal/commands/parser"
	"github.com/emergent-shell/shell-backend/internal/gen"
	projdomain "github.com/emergent-shell/shell-backend/internal/projects/domain"
)

const helpText = `Available commands:
• create <type> <name> [language] - Create a new project
• generate <description> - Generate code from description
• list - List all projects
• edit <project-id> - Edit a project
• preview <project-id> - Preview a project
• help - Show this help message`

const emptyListText = "No projects found. Use 'create' to start a new project."

// ProjectStore is the slice of project persistence the executor needs.
type ProjectStore interface {
	Create(ctx context.Context, p projdomain.Project) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]projdomain.Project, error)
}

// TemplateFunc builds the initial code for a new project.
type TemplateFunc func(projectType, language string) string

// GenerateFunc produces code for a free-text description.
type GenerateFunc func(ctx context.Context, description string) (string, error)

// Executor runs instructions against the project store. Template and
// Generate default to the gen package and exist as fields so a real
// generation backend can be injected.
type Executor struct {
	projects ProjectStore
	template TemplateFunc
	generate GenerateFunc
	log      *logrus.Logger
}

func New(projects ProjectStore, log *logrus.Logger) *Executor {
	return &Executor{
		projects: projects,
		template: gen.Boilerplate,
		generate: gen.Generate,
		log:      log,
	}
}

// WithGenerate replaces the code generation backend.
func (e *Executor) WithGenerate(fn GenerateFunc) *Executor {
	e.generate = fn
	return e
}

// Execute always returns a displayable string. Store or generation failures
// are rendered as "Error: <message>" rather than propagated, so the
// dispatcher's completion patch always has a payload.
func (e *Executor) Execute(ctx context.Context, instr parser.Instruction, ownerID string) string {
	out, err := e.run(ctx, instr, ownerID)
	if err != nil {
		e.log.WithError(err).WithField("owner_id", ownerID).Warn("command execution failed")
		return fmt.Sprintf("Error: %s", err.Error())
	}
	return out
}

func (e *Executor) run(ctx context.Context, instr parser.Instruction, ownerID string) (string, error) {
	switch in := instr.(type) {
	case parser.CreateInstruction:
		return e.runCreate(ctx, in, ownerID)

	case parser.GenerateInstruction:
		return e.generate(ctx, in.Description)

	case parser.ListInstruction:
		return e.runList(ctx, ownerID)

	case parser.HelpInstruction:
		return helpText, nil

	case parser.UnknownInstruction:
		return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", in.Verb), nil

	case parser.InvalidInstruction:
		// Usage and type errors display as-is; no store access.
		return in.Message, nil

	default:
		return "", fmt.Errorf("unhandled instruction %T", instr)
	}
}

func (e *Executor) runCreate(ctx context.Context, in parser.CreateInstruction, ownerID string) (string, error) {
	projectType, err := projdomain.ParseProjectType(in.Type)
	if err != nil {
		return "", err
	}

	id, err := e.projects.Create(ctx, projdomain.Project{
		Name:     in.Name,
		Type:     projectType,
		Language: in.Language,
		Code:     e.template(in.Type, in.Language),
		OwnerID:  ownerID,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✓ Created %s project '%s' with ID: %s", in.Type, in.Name, id), nil
}

func (e *Executor) runList(ctx context.Context, ownerID string) (string, error) {
	projects, err := e.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}

	if len(projects) == 0 {
		return emptyListText, nil
	}

	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		lines = append(lines, fmt.Sprintf("• %s (%s) - %s - ID: %s", p.Name, p.Type, p.Language, p.ID))
	}
	return "Your projects:\n" + strings.Join(lines, "\n"), nil
}
