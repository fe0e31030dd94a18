package gen

import (
	"context"
	"fmt"
)

// Generate produces placeholder code for a free-text description. It is
// deterministic for now; swapping in an AI service only needs to honor this
// signature.
func Generate(_ context.Context, description string) (string, error) {
	out := fmt.Sprintf(`// Generated code for: %s
// This is a placeholder - integrate with AI service for real code generation
function generatedFunction() {
  // Implementation based on: %s
  console.log("Generated code placeholder");
}`, description, description)
	return out, nil
}
