package pipeline

// OutcomeKind tells which path a fallible step took.
type OutcomeKind int

const (
	// OK means the step produced its intended value.
	OK OutcomeKind = iota
	// Fallback means the step failed and a substitute value was used.
	Fallback
	// Fatal means the step failed with no substitute.
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OK:
		return "ok"
	case Fallback:
		return "fallback"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a step with a fallback policy.
type Outcome[T any] struct {
	Kind   OutcomeKind
	Value  T
	Reason string
	Err    error
}

// Succeeded returns an OK outcome.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OK, Value: v}
}

// FellBack returns a Fallback outcome carrying the substitute value.
func FellBack[T any](v T, reason string, err error) Outcome[T] {
	return Outcome[T]{Kind: Fallback, Value: v, Reason: reason, Err: err}
}

// Failed returns a Fatal outcome.
func Failed[T any](reason string, err error) Outcome[T] {
	return Outcome[T]{Kind: Fatal, Reason: reason, Err: err}
}
