package task

import (
	"encoding/json"
	"fmt"
)

// IntentKind names a user-level graph mutation.
type IntentKind string

const (
	IntentComplete       IntentKind = "complete"
	IntentUncomplete     IntentKind = "uncomplete"
	IntentSetTitle       IntentKind = "setTitle"
	IntentSetDescription IntentKind = "setDescription"
	IntentSetPriority    IntentKind = "setPriority"
	IntentSetIsExternal  IntentKind = "setIsExternal"
	IntentBlock          IntentKind = "block"
	IntentUnblock        IntentKind = "unblock"
	IntentAdd            IntentKind = "add"
	IntentDelete         IntentKind = "delete"
)

// Known reports whether k is one of the intent kinds the reducer handles.
func (k IntentKind) Known() bool {
	switch k {
	case IntentComplete, IntentUncomplete, IntentSetTitle, IntentSetDescription,
		IntentSetPriority, IntentSetIsExternal, IntentBlock, IntentUnblock,
		IntentAdd, IntentDelete:
		return true
	}
	return false
}

// Intent is a single desired mutation targeting one task (the subject).
// Only the payload field matching Kind is read.
type Intent struct {
	Kind      IntentKind
	ID        string
	Text      string   // setTitle, setDescription
	Priority  int      // setPriority
	External  bool     // setIsExternal
	BlockerID string   // block, unblock
	Task      *Partial // add
}

func Complete(id string) Intent   { return Intent{Kind: IntentComplete, ID: id} }
func Uncomplete(id string) Intent { return Intent{Kind: IntentUncomplete, ID: id} }
func Delete(id string) Intent     { return Intent{Kind: IntentDelete, ID: id} }

func SetTitle(id, title string) Intent {
	return Intent{Kind: IntentSetTitle, ID: id, Text: title}
}

func SetDescription(id, description string) Intent {
	return Intent{Kind: IntentSetDescription, ID: id, Text: description}
}

func SetPriority(id string, priority int) Intent {
	return Intent{Kind: IntentSetPriority, ID: id, Priority: priority}
}

func SetIsExternal(id string, external bool) Intent {
	return Intent{Kind: IntentSetIsExternal, ID: id, External: external}
}

// Block makes id depend on blockerID.
func Block(id, blockerID string) Intent {
	return Intent{Kind: IntentBlock, ID: id, BlockerID: blockerID}
}

// Unblock removes blockerID from the dependencies of id.
func Unblock(id, blockerID string) Intent {
	return Intent{Kind: IntentUnblock, ID: id, BlockerID: blockerID}
}

// Add creates a task. Both id and partial may be empty.
func Add(id string, partial *Partial) Intent {
	return Intent{Kind: IntentAdd, ID: id, Task: partial}
}

func (in Intent) String() string {
	switch in.Kind {
	case IntentBlock, IntentUnblock:
		return fmt.Sprintf("%s(%s, %s)", in.Kind, in.ID, in.BlockerID)
	case IntentSetTitle, IntentSetDescription:
		return fmt.Sprintf("%s(%s, %q)", in.Kind, in.ID, in.Text)
	case IntentSetPriority:
		return fmt.Sprintf("%s(%s, %d)", in.Kind, in.ID, in.Priority)
	case IntentSetIsExternal:
		return fmt.Sprintf("%s(%s, %t)", in.Kind, in.ID, in.External)
	default:
		return fmt.Sprintf("%s(%s)", in.Kind, in.ID)
	}
}

// wireIntent is the JSON shape exchanged with clients and the event log.
type wireIntent struct {
	ID        string          `json:"id,omitempty"`
	Type      IntentKind      `json:"type"`
	Value     json.RawMessage `json:"value,omitempty"`
	BlockerID string          `json:"blockerId,omitempty"`
	Task      *Partial        `json:"task,omitempty"`
}

// MarshalJSON encodes the intent as {"id","type","value","blockerId","task"}.
func (in Intent) MarshalJSON() ([]byte, error) {
	w := wireIntent{ID: in.ID, Type: in.Kind, BlockerID: in.BlockerID, Task: in.Task}

	var value any
	switch in.Kind {
	case IntentSetTitle, IntentSetDescription:
		value = in.Text
	case IntentSetPriority:
		value = in.Priority
	case IntentSetIsExternal:
		value = in.External
	}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape. Unknown kinds decode without error so
// the reducer can report them.
func (in *Intent) UnmarshalJSON(b []byte) error {
	var w wireIntent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*in = Intent{Kind: w.Type, ID: w.ID, BlockerID: w.BlockerID, Task: w.Task}

	if len(w.Value) == 0 || string(w.Value) == "null" {
		return nil
	}
	var err error
	switch w.Type {
	case IntentSetTitle, IntentSetDescription:
		err = json.Unmarshal(w.Value, &in.Text)
	case IntentSetPriority:
		err = json.Unmarshal(w.Value, &in.Priority)
	case IntentSetIsExternal:
		err = json.Unmarshal(w.Value, &in.External)
	}
	if err != nil {
		return fmt.Errorf("decode %s value: %w", w.Type, err)
	}
	return nil
}
