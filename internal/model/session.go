package model

// EditMode selects whether edits stay local or stream to the rig.
type EditMode string

const (
	// ModeSilent keeps all edits local; the live session is never touched.
	ModeSilent EditMode = "silent"
	// ModeLive streams edits to an exclusive server-held session.
	ModeLive EditMode = "live"
)

// ViewMode is a presentation selector over the draft; it carries no state.
type ViewMode string

const (
	// ViewRaw pages through a universe's channel array.
	ViewRaw ViewMode = "raw"
	// ViewFixture groups channels by named fixture parameter.
	ViewFixture ViewMode = "fixture"
)

// ControlMode tells the editor who owns the rig's output right now.
type ControlMode string

const (
	// ControlPanel means the local panel owns output; Live may be attempted.
	ControlPanel ControlMode = "panel"
	// ControlExternal means an external console owns output.
	ControlExternal ControlMode = "external"
)
