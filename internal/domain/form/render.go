package form

// RenderedBlock is one evaluated block ready to be handed to an external
// ComponentRegistry renderer. Props hold fully evaluated values — no
// expression nodes remain by the time a RenderedBlock exists.
type RenderedBlock struct {
	NodeID  string
	Variant string
	Props   map[string]interface{}
	// Messages carries validation messages attached to this block on a
	// re-render following a failed onSubmit(validate:true).
	Messages []ValidationMessage
	Children []RenderedBlock
}

// RenderContext is the evaluated render tree for a single step, handed to the
// external FrameworkAdapter for HTML assembly. The engine never concatenates
// HTML itself (spec §6).
type RenderContext struct {
	StepID string
	Blocks []RenderedBlock
}

// ValidationMessage is produced by a VALIDATION expression node whose `when`
// predicate evaluated truthy.
type ValidationMessage struct {
	FieldID string
	Message string
}
