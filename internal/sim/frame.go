package sim

import "github.com/josephgoksu/TaskTree/internal/task"

// Frame is a render snapshot of the simulation.
type Frame struct {
	Layout Layout      `json:"layout"`
	Alpha  float64     `json:"alpha"`
	Frozen bool        `json:"frozen"`
	Zones  []FrameZone `json:"zones"`
	Nodes  []FrameNode `json:"nodes"`
	Edges  []FrameEdge `json:"edges"`
}

type FrameZone struct {
	Zone   Zone    `json:"zone"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Color  string  `json:"color"`
}

type FrameNode struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Size     float64     `json:"size"`
	Color    string      `json:"color"`
	Shape    Shape       `json:"shape"`
	Status   task.Status `json:"status"`
	Blocked  bool        `json:"blocked"`
	Pinned   bool        `json:"pinned"`
	Priority int         `json:"priority"`
}

type FrameEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Frame captures node positions, sizes and colours and edge endpoints.
func (s *Simulation) Frame() Frame {
	f := Frame{
		Layout: s.layout,
		Alpha:  s.alpha,
		Frozen: s.frozen,
		Nodes:  make([]FrameNode, 0, len(s.nodes)),
		Edges:  make([]FrameEdge, 0, len(s.links)),
	}
	for _, z := range []Zone{ZoneComplete, ZoneAvailable, ZoneBlocked} {
		top, bottom := s.layout.ZoneBounds(z)
		f.Zones = append(f.Zones, FrameZone{Zone: z, Top: top, Bottom: bottom, Color: ZoneColor(z)})
	}
	for _, n := range s.nodes {
		f.Nodes = append(f.Nodes, FrameNode{
			ID:       n.ID,
			Title:    n.Task.Title,
			X:        n.X,
			Y:        n.Y,
			Size:     NodeSize(n.Task.Priority),
			Color:    NodeColor(n.Task),
			Shape:    NodeShape(n.Task),
			Status:   n.Task.EffectiveStatus(),
			Blocked:  n.Task.IsBlocked,
			Pinned:   n.Pinned(),
			Priority: n.Task.Priority,
		})
	}
	for _, l := range s.links {
		f.Edges = append(f.Edges, FrameEdge{
			ID:     l.ID,
			Source: l.Source.ID,
			Target: l.Target.ID,
			X1:     l.Source.X,
			Y1:     l.Source.Y,
			X2:     l.Target.X,
			Y2:     l.Target.Y,
		})
	}
	return f
}
