package composer

import "context"

// Prompt describes a destructive operation awaiting user confirmation.
type Prompt struct {
	Action string `json:"action"` // "delete_component" | "replace_with_template"
	Target string `json:"target"`
	Count  int    `json:"count"` // components that will be removed
}

const (
	ActionDeleteComponent     = "delete_component"
	ActionReplaceWithTemplate = "replace_with_template"
)

// Confirmer gates destructive operations. A nil Confirmer refuses.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

type ConfirmFunc func(ctx context.Context, p Prompt) bool

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// Confirmed approves everything.
var Confirmed Confirmer = ConfirmIf(true)

// ConfirmIf returns a Confirmer answering ok, for callers that collected the
// user's answer up front (e.g. a "confirm" flag in an API request).
func ConfirmIf(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) bool { return ok })
}

func confirmed(ctx context.Context, c Confirmer, p Prompt) bool {
	return c != nil && c.Confirm(ctx, p)
}
