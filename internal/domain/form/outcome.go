package form

// TransitionKind identifies which state machine produced an outcome, and is
// pushed onto the evaluation scope stack under "@transitionType" so effect
// handlers can see which transition invoked them (spec §4.6).
type TransitionKind string

const (
	TransitionLoad   TransitionKind = "load"
	TransitionAccess TransitionKind = "access"
	TransitionAction TransitionKind = "action"
	TransitionSubmit TransitionKind = "submit"
)

// AccessOutcome is the result of running an ACCESS transition (spec §4.6).
type AccessOutcome struct {
	// Inert is true when `when` evaluated falsy; no effects ran.
	Inert bool
	// Redirect is non-empty when the transition resolved to a redirect target.
	Redirect string
	// ThrowStatus/ThrowMessage are set when the transition resolved to a thrown error.
	ThrowStatus  int
	ThrowMessage string
}

// Passed reports whether the access gate allows the request through.
func (o AccessOutcome) Passed() bool {
	return o.Redirect == "" && o.ThrowStatus == 0
}

// ActionOutcome is the result of running an ACTION transition (spec §4.6).
type ActionOutcome struct {
	Executed bool
}

// SubmitBranch identifies which onSubmit branch ran.
type SubmitBranch string

const (
	BranchValid   SubmitBranch = "onValid"
	BranchInvalid SubmitBranch = "onInvalid"
)

// SubmitOutcome is the result of running a SUBMIT transition (spec §4.6).
type SubmitOutcome struct {
	Branch            SubmitBranch
	ValidationResults []ValidationMessage
	// Goto is the resolved navigation target from the first matching `next`
	// entry, empty if none matched or a ThrowError outcome took precedence.
	Goto string
	// ThrowStatus/ThrowMessage are set when a ThrowError entry was the
	// winning outcome instead of a Next.
	ThrowStatus  int
	ThrowMessage string
}

// HasValidationFailures reports whether any validation fired, which routes
// the submission to onInvalid.
func (o SubmitOutcome) HasValidationFailures() bool {
	return len(o.ValidationResults) > 0
}

// IsThrow reports whether the outcome resolved to a thrown error rather than
// a navigation target.
func (o SubmitOutcome) IsThrow() bool {
	return o.ThrowStatus != 0
}
