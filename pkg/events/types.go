package events

import "time"

// Type identifies the kind of event emitted during a suite run.
type Type string

const (
	SuiteStart  Type = "suite.start"
	SuiteEnd    Type = "suite.end"
	CaseStart   Type = "case.start"
	CasePass    Type = "case.pass"
	CaseFail    Type = "case.fail"
	CaseTimeout Type = "case.timeout"
	CheckFail   Type = "check.fail"
)

// Event represents a single run event. Case is empty for suite-level
// events. Data carries a typed payload depending on the event type:
// SuiteStart a SuiteInfo, SuiteEnd a Tally, CaseFail a FailInfo, and
// CheckFail the diagnostic string for the failed check.
type Event struct {
	Type      Type
	Case      string
	Timestamp time.Time
	Data      any
}

// SuiteInfo accompanies SuiteStart.
type SuiteInfo struct {
	Recipe string
	Found  int
	ToRun  int
}

// Tally accompanies SuiteEnd.
type Tally struct {
	Passed   int
	Total    int
	Duration time.Duration
}

// FailInfo accompanies CaseFail.
type FailInfo struct {
	Errors int
}

// New creates an event with the current timestamp.
func New(typ Type, caseName string, data any) Event {
	return Event{
		Type:      typ,
		Case:      caseName,
		Timestamp: time.Now(),
		Data:      data,
	}
}
