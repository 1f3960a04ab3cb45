package executor

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

type FailureReason string

const (
	ReasonNone            FailureReason = "none"
	ReasonDeflection      FailureReason = "deflection"
	ReasonNoTool          FailureReason = "no_tool"
	ReasonWrongTool       FailureReason = "wrong_tool"
	ReasonFilterMiss      FailureReason = "filter_miss"
	ReasonCriticalFailure FailureReason = "critical_failure"
	ReasonError           FailureReason = "error"
)

// Reasons lists every failure reason in report order.
var Reasons = []FailureReason{
	ReasonDeflection, ReasonNoTool, ReasonWrongTool, ReasonFilterMiss, ReasonCriticalFailure, ReasonError,
}

// rawContentLimit caps the reply excerpt kept per step.
const rawContentLimit = 200

type StepResult struct {
	StepIndex       int           `json:"stepIndex"`
	StepNumber      int           `json:"stepNumber"`
	PlanDescription string        `json:"planDescription"`
	ExpectedTools   []string      `json:"expectedTools"`
	ActualTools     []string      `json:"actualTools"`
	Status          Status        `json:"status"`
	FailureReason   FailureReason `json:"failureReason"`
	FilterHit       bool          `json:"filterHit"`
	FilteredTools   []string      `json:"filteredTools"`
	RawContent      string        `json:"rawContent"`
	MockResult      string        `json:"mockResult"`
	DurationMs      int64         `json:"durationMs"`
	Retries         int           `json:"retries"`
	Error           string        `json:"error,omitempty"`
}

func (r StepResult) Passed() bool { return r.Status == StatusPassed }

// History is an append-only log of step results. Append never mutates the
// receiver, so a History handed to a step cannot change under it.
type History struct {
	results []StepResult
}

func (h History) Append(r StepResult) History {
	next := make([]StepResult, len(h.results), len(h.results)+1)
	copy(next, h.results)
	return History{results: append(next, r)}
}

func (h History) Len() int { return len(h.results) }

// Results returns a copy of the log.
func (h History) Results() []StepResult {
	out := make([]StepResult, len(h.results))
	copy(out, h.results)
	return out
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
