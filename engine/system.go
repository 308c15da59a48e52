package engine

// System represents a behavior that advances session state once per cycle.
// Systems may keep custom state fields that persist between cycles.
type System interface {
	Execute(frame *Frame)
}
