package sim

import (
	"log/slog"
	"math/rand"
	"slices"

	"github.com/josephgoksu/TaskTree/internal/task"
)

type point struct{ x, y float64 }

// Simulation owns the live node and link set and advances it one tick at a
// time. It is not safe for concurrent use.
type Simulation struct {
	layout Layout
	params Params
	rng    *rand.Rand

	nodes []*Node
	byID  map[string]*Node
	links []Link

	forces []Force

	alpha       float64
	alphaTarget float64
	frozen      bool

	hints map[string]point
}

// New creates an empty simulation. A nil rng uses a fixed seed.
func New(layout Layout, params Params, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Simulation{
		layout:      layout,
		params:      params,
		rng:         rng,
		byID:        make(map[string]*Node),
		alpha:       1,
		alphaTarget: params.AlphaTarget,
		hints:       make(map[string]point),
	}
	s.forces = s.defaultForces()
	return s
}

func (s *Simulation) defaultForces() []Force {
	l, p := s.layout, s.params

	notComplete := func(n *Node) bool { return n.Task.EffectiveStatus() != task.StatusComplete }
	complete := func(n *Node) bool { return n.Task.EffectiveStatus() == task.StatusComplete }
	notBlocked := func(n *Node) bool { return !n.Task.IsBlocked }
	blocked := func(n *Node) bool { return n.Task.IsBlocked }

	fence := func(coord, strength float64, filter Filter, dir float64) Fence {
		return Fence{Axis: AxisY, Coord: coord, Strength: strength, Decay: p.FenceDecay, Clamp: p.FenceClamp, Direction: dir, Filter: filter}
	}

	return []Force{
		ManyBody{Strength: p.Charge},
		Collide{Radius: collideRadius},
		AxisPull{Axis: AxisX, Target: Constant(-p.WallOffset), Strength: p.Wall},
		AxisPull{Axis: AxisX, Target: Constant(p.WallOffset), Strength: p.Wall},
		AxisPull{Axis: AxisY, Target: func(n *Node) float64 { return l.Setpoint(n.Task) }, Strength: p.Gravity},
		fence(l.CompleteLine, p.BoundFence, notComplete, -1),
		fence(l.BlockedLine, p.BoundFence, notBlocked, 1),
		fence(l.CompleteLine, p.CompleteFence, complete, 1),
		fence(l.BlockedLine, p.BlockedFence, blocked, -1),
		LinkForce{Links: func() []Link { return s.links }, Strength: p.LinkStrength, Distance: p.LinkDistance},
	}
}

// Layout returns the board geometry.
func (s *Simulation) Layout() Layout { return s.layout }

// Params returns the tuning constants.
func (s *Simulation) Params() Params { return s.params }

// Update synchronizes nodes and links with a resolved graph. Nodes for
// surviving ids keep their identity and position, new ids are placed at
// their spawn hint or a random spot, and removed ids are dropped. Links are
// rebuilt from scratch and the simulation is reheated unless frozen.
func (s *Simulation) Update(view task.Graph) {
	nodes := make([]*Node, 0, len(view))
	byID := make(map[string]*Node, len(view))

	for _, id := range view.IDs() {
		t := view[id]
		n, ok := s.byID[id]
		if !ok {
			n = s.spawn(id)
		}
		n.Task = t.Clone()
		nodes = append(nodes, n)
		byID[id] = n
	}

	links := make([]Link, 0)
	for _, n := range nodes {
		for _, dep := range n.Task.DependsOn {
			src, ok := byID[dep]
			if !ok {
				continue
			}
			links = append(links, Link{ID: LinkID(dep, n.ID), Source: src, Target: n})
		}
	}
	slices.SortFunc(links, func(a, b Link) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	s.nodes, s.byID, s.links = nodes, byID, links

	if !s.frozen {
		s.alpha = s.params.AmbientWarm
	}
	slog.Debug("simulation updated", "nodes", len(nodes), "links", len(links))
}

func (s *Simulation) spawn(id string) *Node {
	n := &Node{ID: id}
	if h, ok := s.hints[id]; ok {
		n.X, n.Y = h.x, h.y
		delete(s.hints, id)
	} else {
		n.X = s.rng.Float64()*s.params.SpawnSpread - s.params.SpawnSpread/2
		n.Y = s.params.SpawnY
	}
	if s.frozen {
		n.pin(n.X, n.Y)
	}
	return n
}

// SpawnHint places the node for id at (x, y) when it first appears.
func (s *Simulation) SpawnHint(id string, x, y float64) {
	x, y = s.layout.Clamp(x, y)
	s.hints[id] = point{x, y}
}

// Tick advances the simulation by one step.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay

	for _, f := range s.forces {
		f.Apply(s.nodes, s.alpha)
	}

	keep := 1 - s.params.VelocityDecay
	for _, n := range s.nodes {
		if n.FX != nil {
			n.X, n.VX = *n.FX, 0
		} else {
			n.VX *= keep
			n.X += n.VX
		}
		if n.FY != nil {
			n.Y, n.VY = *n.FY, 0
		} else {
			n.VY *= keep
			n.Y += n.VY
		}
		if !finite(n.X) || !finite(n.Y) {
			slog.Warn("resetting non-finite node position", "id", n.ID)
			n.X, n.Y, n.VX, n.VY = 0, s.params.SpawnY, 0, 0
		}
		n.X, n.Y = s.layout.Clamp(n.X, n.Y)
	}
}

// Step runs n ticks.
func (s *Simulation) Step(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the value alpha decays towards.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// Reheat sets both the temperature and its target.
func (s *Simulation) Reheat(alpha, target float64) {
	s.alpha, s.alphaTarget = alpha, target
}

// SetAlphaTarget changes the value alpha decays towards.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = target
}

// Settled reports whether the temperature has cooled below AlphaMin.
func (s *Simulation) Settled() bool {
	return s.alpha < s.params.AlphaMin
}

// Pin fixes node id at (x, y), clamped to the board.
func (s *Simulation) Pin(id string, x, y float64) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	x, y = s.layout.Clamp(x, y)
	n.pin(x, y)
	return true
}

// Unpin releases node id.
func (s *Simulation) Unpin(id string) {
	if n, ok := s.byID[id]; ok {
		n.unpin()
	}
}

// Freeze pins every node where it is and zeroes the temperature.
func (s *Simulation) Freeze() {
	for _, n := range s.nodes {
		n.pin(n.X, n.Y)
		n.VX, n.VY = 0, 0
	}
	s.alpha, s.alphaTarget = 0, 0
	s.frozen = true
}

// Resume releases every node and reheats.
func (s *Simulation) Resume() {
	for _, n := range s.nodes {
		n.unpin()
		n.VX, n.VY = 0, 0
	}
	s.alpha, s.alphaTarget = s.params.ResumeAlpha, s.params.AlphaTarget
	s.frozen = false
}

// Frozen reports whether Freeze is in effect.
func (s *Simulation) Frozen() bool { return s.frozen }

// Node returns the node for id.
func (s *Simulation) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Nodes returns the live nodes ordered by id.
func (s *Simulation) Nodes() []*Node {
	return slices.Clone(s.nodes)
}

// Links returns the current dependency edges.
func (s *Simulation) Links() []Link {
	return slices.Clone(s.links)
}
