package planner

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// planSchema checks shapes only. Missing needs_tools and blank descriptions
// are left to ValidatePlan so they keep their own reasons.
const planSchema = `{
  "type": "object",
  "properties": {
    "needs_tools": {"type": "boolean"},
    "direct_response": {"type": ["string", "null"]},
    "steps": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "step_number": {"type": "integer"},
          "description": {"type": ["string", "null"]},
          "expected_server": {"type": ["string", "null"]},
          "hint_params": {"type": ["object", "null"]}
        },
        "required": ["step_number"]
      }
    }
  }
}`

var compiledPlanSchema = jsonschema.MustCompileString("step_plan.json", planSchema)

// ExtractJSON returns the text from the first '{' to the last '}'. Text
// without such a pair is returned unchanged.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// ParsePlan extracts, schema-checks and decodes a plan from model output.
// With repair set, malformed JSON gets one repair attempt before failing.
func ParsePlan(content string, repair bool) (*StepPlan, *Error) {
	raw := ExtractJSON(content)

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		if !repair {
			return nil, errorf(KindParse, "JSON parse error: %v", err)
		}
		fixed, rerr := jsonrepair.JSONRepair(raw)
		if rerr != nil {
			return nil, errorf(KindParse, "JSON parse error: %v", err)
		}
		if err2 := json.Unmarshal([]byte(fixed), &doc); err2 != nil {
			return nil, errorf(KindParse, "JSON parse error: %v", err)
		}
		raw = fixed
	}

	if err := compiledPlanSchema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			leaf := ve
			for len(leaf.Causes) > 0 {
				leaf = leaf.Causes[0]
			}
			loc := leaf.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			return nil, errorf(KindSchema, "plan schema violation at %s: %s", loc, leaf.Message)
		}
		return nil, errorf(KindSchema, "plan schema violation: %v", err)
	}

	var plan StepPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, errorf(KindParse, "JSON parse error: %v", err)
	}
	return &plan, nil
}
