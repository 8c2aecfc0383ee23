package gesture

import "github.com/josephgoksu/TaskTree/internal/task"

// Highlight tells the renderer which zone a dragged node would land in.
type Highlight struct {
	Complete  bool `json:"complete"`
	Available bool `json:"available"`
	Blocked   bool `json:"blocked"`
}

// Listener receives the controller's output.
type Listener interface {
	// Intents is called with each batch of intents a gesture produces.
	// Batches must be applied in order before the next tick.
	Intents(batch []task.Intent)
	Highlight(h Highlight)
	ModeChanged(s State)
	Selected(id string)
	Hovered(id string)
}

// Funcs adapts optional functions to the Listener interface.
type Funcs struct {
	OnIntents     func([]task.Intent)
	OnHighlight   func(Highlight)
	OnModeChanged func(State)
	OnSelected    func(string)
	OnHovered     func(string)
}

func (f Funcs) Intents(batch []task.Intent) {
	if f.OnIntents != nil {
		f.OnIntents(batch)
	}
}

func (f Funcs) Highlight(h Highlight) {
	if f.OnHighlight != nil {
		f.OnHighlight(h)
	}
}

func (f Funcs) ModeChanged(s State) {
	if f.OnModeChanged != nil {
		f.OnModeChanged(s)
	}
}

func (f Funcs) Selected(id string) {
	if f.OnSelected != nil {
		f.OnSelected(id)
	}
}

func (f Funcs) Hovered(id string) {
	if f.OnHovered != nil {
		f.OnHovered(id)
	}
}
