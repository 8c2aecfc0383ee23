package sim

import "github.com/josephgoksu/TaskTree/internal/task"

// Palette
const (
	ColorComplete  = "#9f9"
	ColorBlocked   = "#999"
	ColorAvailable = "#fff"
	ColorGhost     = "#fff"

	ColorZoneComplete  = "#daffda"
	ColorZoneAvailable = "#eee"
	ColorZoneBlocked   = "#ccc"

	ColorBorderComplete = "#599959"
	ColorBorderBlocked  = "#666"
)

// GhostSize is the size of the add-dependency spawn target.
const GhostSize = 60

// NodeSize maps a priority onto the node's diameter.
func NodeSize(priority int) float64 {
	switch priority {
	case 1:
		return 50
	case 2:
		return 35
	case 3:
		return 25
	case 4, 5:
		return 20
	default:
		return 10
	}
}

// NodeColor picks the fill for a resolved task.
func NodeColor(t task.Task) string {
	if t.EffectiveStatus() == task.StatusComplete {
		return ColorComplete
	}
	if t.IsBlocked {
		return ColorBlocked
	}
	return ColorAvailable
}

// Shape is how a node is drawn.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square" // external tasks
)

func NodeShape(t task.Task) Shape {
	if t.IsExternal {
		return ShapeSquare
	}
	return ShapeCircle
}

// ZoneColor returns the background of z.
func ZoneColor(z Zone) string {
	switch z {
	case ZoneComplete:
		return ColorZoneComplete
	case ZoneBlocked:
		return ColorZoneBlocked
	default:
		return ColorZoneAvailable
	}
}

func collideRadius(n *Node) float64 {
	return NodeSize(n.Task.Priority) / 2
}
