// Package sim lays task nodes out with a small force-directed particle
// simulation that keeps every node inside the zone matching its status.
package sim

import (
	"fmt"
	"math"

	"github.com/josephgoksu/TaskTree/internal/task"
)

// Zone is a horizontal band of the board.
type Zone int

const (
	ZoneAvailable Zone = iota
	ZoneComplete
	ZoneBlocked
)

func (z Zone) String() string {
	switch z {
	case ZoneComplete:
		return "complete"
	case ZoneBlocked:
		return "blocked"
	default:
		return "available"
	}
}

func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *Zone) UnmarshalText(b []byte) error {
	switch string(b) {
	case "complete":
		*z = ZoneComplete
	case "blocked":
		*z = ZoneBlocked
	case "available":
		*z = ZoneAvailable
	default:
		return fmt.Errorf("unknown zone %q", b)
	}
	return nil
}

// Layout describes the board geometry. X runs from -Width/2 to Width/2 and
// Y from 0 at the top (complete zone) to Height at the bottom (blocked zone).
type Layout struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CompleteLine float64 `json:"completeLine"` // above: complete zone
	BlockedLine  float64 `json:"blockedLine"`  // below: blocked zone

	// Zone gravity setpoints
	CompleteSetpoint  float64 `json:"completeSetpoint"`
	AvailableSetpoint float64 `json:"availableSetpoint"`
	BlockedSetpoint   float64 `json:"blockedSetpoint"`
}

// DefaultLayout returns the standard 1400x500 board.
func DefaultLayout() Layout {
	return Layout{
		Width:             1400,
		Height:            500,
		CompleteLine:      150,
		BlockedLine:       400,
		CompleteSetpoint:  150,
		AvailableSetpoint: 150,
		BlockedSetpoint:   500,
	}
}

func (l Layout) MinX() float64 { return -l.Width / 2 }
func (l Layout) MaxX() float64 { return l.Width / 2 }
func (l Layout) MinY() float64 { return 0 }
func (l Layout) MaxY() float64 { return l.Height }

// Clamp constrains a point to the board.
func (l Layout) Clamp(x, y float64) (float64, float64) {
	return clamp(x, l.MinX(), l.MaxX()), clamp(y, l.MinY(), l.MaxY())
}

// ZoneOf returns the zone containing height y.
func (l Layout) ZoneOf(y float64) Zone {
	switch {
	case y < l.CompleteLine:
		return ZoneComplete
	case y > l.BlockedLine:
		return ZoneBlocked
	default:
		return ZoneAvailable
	}
}

// Setpoint is the height zone gravity pulls t towards.
func (l Layout) Setpoint(t task.Task) float64 {
	if t.EffectiveStatus() == task.StatusComplete {
		return l.CompleteSetpoint
	}
	if t.IsBlocked {
		return l.BlockedSetpoint
	}
	return l.AvailableSetpoint
}

// ZoneBounds returns the top and bottom of z.
func (l Layout) ZoneBounds(z Zone) (top, bottom float64) {
	switch z {
	case ZoneComplete:
		return 0, l.CompleteLine
	case ZoneBlocked:
		return l.BlockedLine, l.Height
	default:
		return l.CompleteLine, l.BlockedLine
	}
}

func clamp(n, lo, hi float64) float64 {
	return math.Min(math.Max(n, lo), hi)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
