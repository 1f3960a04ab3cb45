package executor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func passed(idx int, mock string) StepResult {
	return StepResult{StepIndex: idx, Status: StatusPassed, MockResult: mock}
}

func TestInterpolateNoReferenceIsIdentity(t *testing.T) {
	h := History{}.Append(passed(0, "r0")).Append(passed(1, "r1"))
	desc := "Create a PDF from the extracted text"
	assert.Equal(t, desc, Interpolate(desc, h))
	assert.Equal(t, desc, Interpolate(Interpolate(desc, h), h))
}

func TestInterpolateAppendsOneBlock(t *testing.T) {
	h := History{}.Append(passed(0, "r0")).Append(passed(1, "r1"))
	got := Interpolate("Using the result from Step 2, write a CSV", h)
	assert.Equal(t, "Using the result from Step 2, write a CSV\n\n[Context from previous step 2]:\nr1", got)
	assert.Equal(t, 1, strings.Count(got, "[Context from previous"))
}

func TestInterpolateSkipsFailedPriors(t *testing.T) {
	h := History{}.Append(StepResult{StepIndex: 0, Status: StatusFailed, MockResult: "r0"})
	assert.Equal(t, "use step 1", Interpolate("use step 1", h))
}

func TestInterpolateIsWordBounded(t *testing.T) {
	h := History{}.Append(passed(0, "r0"))
	assert.Equal(t, "see step 12", Interpolate("see step 12", h))
}

func TestInterpolateTruncatesLongResults(t *testing.T) {
	h := History{}.Append(passed(0, strings.Repeat("a", 2500)))
	got := Interpolate("from step 1", h)

	block := strings.SplitN(got, "]:\n", 2)[1]
	assert.True(t, strings.HasSuffix(block, "... [truncated]"))
	assert.Len(t, strings.TrimSuffix(block, "... [truncated]"), 2000)

	h = History{}.Append(passed(0, strings.Repeat("a", 2000)))
	got = Interpolate("from step 1", h)
	assert.NotContains(t, got, "[truncated]")
}

func TestHistoryAppendDoesNotMutate(t *testing.T) {
	base := History{}.Append(passed(0, "r0"))
	a := base.Append(passed(1, "a"))
	b := base.Append(passed(1, "b"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "a", a.Results()[1].MockResult)
	assert.Equal(t, "b", b.Results()[1].MockResult)

	rs := a.Results()
	rs[0].MockResult = "changed"
	assert.Equal(t, "r0", a.Results()[0].MockResult)
}

func TestStepRef(t *testing.T) {
	assert.True(t, StepRef(3).MatchString("Using the result from STEP 3, ..."))
	assert.False(t, StepRef(3).MatchString("steps 3"))
	assert.False(t, StepRef(3).MatchString("step 30"))
}
