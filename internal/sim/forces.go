package sim

import "math"

// Force adds a velocity contribution to nodes for one tick.
type Force interface {
	Apply(nodes []*Node, alpha float64)
}

// Filter selects the nodes a force acts on. A nil Filter matches all nodes.
type Filter func(n *Node) bool

func (f Filter) match(n *Node) bool {
	return f == nil || f(n)
}

// Axis selects the coordinate a one-dimensional force acts along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) pos(n *Node) float64 {
	if a == AxisX {
		return n.X
	}
	return n.Y
}

func (a Axis) push(n *Node, dv float64) {
	if a == AxisX {
		n.VX += dv
	} else {
		n.VY += dv
	}
}

// Fence is an exponential soft wall at Coord along Axis. With Direction +1
// the wrong side is beyond Coord (larger values); with -1 it is before Coord.
// The push grows exponentially the further a node crosses and vanishes on
// the safe side.
type Fence struct {
	Axis      Axis
	Coord     float64
	Strength  float64
	Decay     float64
	Clamp     float64
	Direction float64
	Filter    Filter
}

// Accel returns the acceleration the fence applies at coordinate pos.
func (f Fence) Accel(pos, alpha float64) float64 {
	dir := f.Direction
	if dir == 0 {
		dir = 1
	}
	d := (pos - f.Coord) * dir
	a := f.Strength * math.Exp(-d/f.Decay) * alpha * dir
	if f.Clamp > 0 {
		a = clamp(a, -f.Clamp, f.Clamp)
	}
	return a
}

func (f Fence) Apply(nodes []*Node, alpha float64) {
	for _, n := range nodes {
		if !f.Filter.match(n) {
			continue
		}
		a := f.Accel(f.Axis.pos(n), alpha)
		if !finite(a) {
			continue
		}
		f.Axis.push(n, a)
	}
}

// AxisPull draws nodes linearly towards a per-node target coordinate.
type AxisPull struct {
	Axis     Axis
	Target   func(n *Node) float64
	Strength float64
	Filter   Filter
}

func (p AxisPull) Apply(nodes []*Node, alpha float64) {
	for _, n := range nodes {
		if !p.Filter.match(n) {
			continue
		}
		dv := (p.Target(n) - p.Axis.pos(n)) * p.Strength * alpha
		if !finite(dv) {
			continue
		}
		p.Axis.push(n, dv)
	}
}

// Constant returns a target function with the same value for every node.
func Constant(v float64) func(*Node) float64 {
	return func(*Node) float64 { return v }
}

// ManyBody is pairwise repulsion (negative Strength) or attraction inversely
// proportional to distance.
type ManyBody struct {
	Strength     float64
	DistanceMin2 float64
}

func (m ManyBody) Apply(nodes []*Node, alpha float64) {
	min2 := m.DistanceMin2
	if min2 <= 0 {
		min2 = 1
	}
	for _, n := range nodes {
		for _, o := range nodes {
			if o == n {
				continue
			}
			dx, dy := o.X-n.X, o.Y-n.Y
			l := dx*dx + dy*dy
			if l == 0 {
				continue
			}
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := m.Strength * alpha / l
			if !finite(w) {
				continue
			}
			n.VX += dx * w
			n.VY += dy * w
		}
	}
}

// Collide keeps nodes from overlapping using their predicted positions.
type Collide struct {
	Radius   func(n *Node) float64
	Strength float64
}

func (c Collide) Apply(nodes []*Node, _ float64) {
	strength := c.Strength
	if strength == 0 {
		strength = 1
	}
	for i, n := range nodes {
		ri := c.Radius(n)
		xi, yi := n.X+n.VX, n.Y+n.VY
		for _, o := range nodes[i+1:] {
			rj := c.Radius(o)
			r := ri + rj
			dx := xi - o.X - o.VX
			dy := yi - o.Y - o.VY
			l := dx*dx + dy*dy
			if l >= r*r || l == 0 {
				continue
			}
			l = math.Sqrt(l)
			l = (r - l) / l * strength
			dx, dy = dx*l, dy*l
			ri2, rj2 := ri*ri, rj*rj
			k := rj2 / (ri2 + rj2)
			if !finite(dx) || !finite(dy) || !finite(k) {
				continue
			}
			n.VX += dx * k
			n.VY += dy * k
			o.VX -= dx * (1 - k)
			o.VY -= dy * (1 - k)
		}
	}
}

// LinkForce pulls the ends of each link towards Distance apart. Nodes with
// many links move less.
type LinkForce struct {
	Links    func() []Link
	Strength float64
	Distance float64
}

func (f LinkForce) Apply(_ []*Node, alpha float64) {
	links := f.Links()
	degree := make(map[*Node]int, len(links)*2)
	for _, l := range links {
		degree[l.Source]++
		degree[l.Target]++
	}
	for _, l := range links {
		s, t := l.Source, l.Target
		dx := t.X + t.VX - s.X - s.VX
		dy := t.Y + t.VY - s.Y - s.VY
		d := math.Sqrt(dx*dx + dy*dy)
		if d == 0 {
			continue
		}
		k := (d - f.Distance) / d * alpha * f.Strength
		dx, dy = dx*k, dy*k
		if !finite(dx) || !finite(dy) {
			continue
		}
		bias := float64(degree[s]) / float64(degree[s]+degree[t])
		t.VX -= dx * bias
		t.VY -= dy * bias
		s.VX += dx * (1 - bias)
		s.VY += dy * (1 - bias)
	}
}
