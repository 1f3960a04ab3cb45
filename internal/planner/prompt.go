package planner

import (
	"strings"

	"github.com/golovatskygroup/chainbench/internal/catalog"
)

// DefaultMaxSteps caps a plan; the system prompt states the same limit.
const DefaultMaxSteps = 10

// SystemPrompt is sent unchanged with every planning request.
var SystemPrompt = buildSystemPrompt(catalog.Servers())

func buildSystemPrompt(servers []catalog.Server) string {
	var sb strings.Builder
	sb.WriteString("You are a task planner for LocalCowork. Given a user request, decompose it into a sequence of tool-calling steps. You do NOT call tools yourself. Output ONLY valid JSON.\n\n")
	sb.WriteString("Available capability areas (servers):\n")
	for _, s := range servers {
		sb.WriteString("- ")
		sb.WriteString(s.Name)
		sb.WriteString(": ")
		sb.WriteString(s.Description)
		sb.WriteString("\n")
	}
	sb.WriteString(`
Rules:
1. Output ONLY valid JSON. No prose before or after.
2. If the request does NOT require tools, set needs_tools=false and provide direct_response.
3. Each step description must be COMPLETE and self-contained.
4. Include file paths, search terms, and specifics from the user message in each step.
5. For steps needing a prior result, write: "Using the result from step N, ..."
6. Maximum 10 steps.

JSON schema:
{"needs_tools":bool,"direct_response":string|null,"steps":[{"step_number":int,"description":"...","expected_server":"..."|null,"hint_params":{...}|null}]}`)
	return sb.String()
}
