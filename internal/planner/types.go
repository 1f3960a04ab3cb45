package planner

import "fmt"

type PlanStep struct {
	StepNumber     int            `json:"step_number"`
	Description    string         `json:"description"`
	ExpectedServer *string        `json:"expected_server"`
	HintParams     map[string]any `json:"hint_params"`
}

// StepPlan is the planner's decomposition of a request. NeedsTools is a pointer
// so that an absent field can be told apart from false.
type StepPlan struct {
	NeedsTools     *bool      `json:"needs_tools"`
	DirectResponse *string    `json:"direct_response"`
	Steps          []PlanStep `json:"steps"`
}

// WantsTools reports needs_tools == true.
func (p *StepPlan) WantsTools() bool {
	return p != nil && p.NeedsTools != nil && *p.NeedsTools
}

type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http_status"
	KindParse      ErrorKind = "parse"
	KindSchema     ErrorKind = "schema"
)

// Error is a planner failure captured into the Result instead of being returned.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result is one planning call. Plan is nil exactly when Err is set.
type Result struct {
	Plan        *StepPlan
	RawResponse string
	DurationMs  int64
	Err         *Error
}

type Validation struct {
	Valid  bool
	Reason string
}
