package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/josephgoksu/TaskTree/internal/task"
)

// CurrentSchemaVersion is the snapshot layout written by this build.
const CurrentSchemaVersion = 1

// Snapshot is the persisted form of a task graph.
type Snapshot struct {
	SchemaVersion int        `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion" validate:"required,min=1"`
	SavedAt       time.Time  `json:"savedAt,omitempty" yaml:"savedAt,omitempty" toml:"savedAt,omitempty"`
	Tasks         task.Graph `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive,keys,required,endkeys"`
}

// NewSnapshot wraps g in a snapshot stamped with the current schema version.
func NewSnapshot(g task.Graph) Snapshot {
	if g == nil {
		g = task.Graph{}
	}
	return Snapshot{
		SchemaVersion: CurrentSchemaVersion,
		SavedAt:       time.Now().UTC(),
		Tasks:         g,
	}
}

// Validate checks the snapshot envelope and every task in it.
func (s *Snapshot) Validate() error {
	if s.SchemaVersion > CurrentSchemaVersion {
		return fmt.Errorf("snapshot schema version %d is newer than supported version %d", s.SchemaVersion, CurrentSchemaVersion)
	}
	if err := ValidateStruct(s); err != nil {
		return err
	}
	for id, t := range s.Tasks {
		if t.ID != id {
			return fmt.Errorf("task key %q does not match id %q", id, t.ID)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %q: %w", id, err)
		}
	}
	return nil
}

// Normalize fills ids from map keys and canonical status spellings, as
// decoders other than JSON do not run task.Graph's own normalization.
func (s *Snapshot) Normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = CurrentSchemaVersion
	}
	s.Tasks = task.FromMap(s.Tasks)
}

// global validator instance
var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
}
