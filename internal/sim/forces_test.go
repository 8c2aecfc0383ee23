package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFence_SignConvention(t *testing.T) {
	f := Fence{Axis: AxisY, Coord: 150, Strength: -0.01, Decay: -30, Clamp: 10, Direction: 1}

	safe := f.Accel(150-500, 1)
	past5 := f.Accel(150+5, 1)
	past50 := f.Accel(150+50, 1)

	assert.InDelta(t, 0, safe, 1e-8, "negligible on the safe side")
	assert.Less(t, past5, 0.0, "pushes back towards smaller y")
	assert.Greater(t, math.Abs(past50), math.Abs(past5), "grows with penetration depth")
	assert.InDelta(t, math.Exp(45.0/30.0), past50/past5, 1e-9, "exponential in depth")
}

func TestFence_NegativeDirection(t *testing.T) {
	// blocked nodes must stay below the line: wrong side is above it
	f := Fence{Axis: AxisY, Coord: 400, Strength: -1, Decay: -30, Clamp: 10, Direction: -1}

	assert.Greater(t, f.Accel(350, 1), 0.0, "pushes down")
	assert.InDelta(t, 0, f.Accel(490, 1), 0.1)
}

func TestFence_Clamped(t *testing.T) {
	f := Fence{Axis: AxisY, Coord: 0, Strength: -16, Decay: -30, Clamp: 10, Direction: 1}
	assert.Equal(t, -10.0, f.Accel(1000, 1))
}

func TestFence_ScalesWithAlphaAndFilter(t *testing.T) {
	f := Fence{
		Axis: AxisX, Coord: 0, Strength: -0.1, Decay: -30, Clamp: 10, Direction: 1,
		Filter: func(n *Node) bool { return n.ID == "a" },
	}
	a := &Node{ID: "a", X: 30}
	b := &Node{ID: "b", X: 30}

	f.Apply([]*Node{a, b}, 0.5)

	assert.InDelta(t, -0.1*math.E*0.5, a.VX, 1e-9)
	assert.Zero(t, b.VX)
	assert.Zero(t, a.VY)
}

func TestAxisPull(t *testing.T) {
	n := &Node{X: 10, Y: 100}
	AxisPull{Axis: AxisY, Target: Constant(200), Strength: 0.1}.Apply([]*Node{n}, 0.5)
	assert.InDelta(t, 5, n.VY, 1e-9)
	assert.Zero(t, n.VX)
}

func TestManyBody_Repels(t *testing.T) {
	a := &Node{X: 0, Y: 0}
	b := &Node{X: 10, Y: 0}
	ManyBody{Strength: -10}.Apply([]*Node{a, b}, 1)

	assert.Less(t, a.VX, 0.0)
	assert.Greater(t, b.VX, 0.0)
	assert.InDelta(t, -a.VX, b.VX, 1e-12)
}

func TestCollide_SeparatesOverlap(t *testing.T) {
	a := &Node{X: 0, Y: 0}
	b := &Node{X: 5, Y: 0}
	radius := func(*Node) float64 { return 10 }
	Collide{Radius: radius}.Apply([]*Node{a, b}, 1)

	assert.Less(t, a.VX, 0.0)
	assert.Greater(t, b.VX, 0.0)
}

func TestLinkForce_PullsTogether(t *testing.T) {
	a := &Node{ID: "a", X: 0}
	b := &Node{ID: "b", X: 200}
	links := []Link{{ID: "a-b", Source: a, Target: b}}
	LinkForce{Links: func() []Link { return links }, Strength: 0.5, Distance: 30}.Apply(nil, 1)

	assert.Greater(t, a.VX, 0.0)
	assert.Less(t, b.VX, 0.0)
}

func TestForces_SkipCoincidentNodes(t *testing.T) {
	a := &Node{X: 5, Y: 5}
	b := &Node{X: 5, Y: 5}
	nodes := []*Node{a, b}

	ManyBody{Strength: -10}.Apply(nodes, 1)
	Collide{Radius: func(*Node) float64 { return 10 }}.Apply(nodes, 1)
	links := []Link{{Source: a, Target: b}}
	LinkForce{Links: func() []Link { return links }, Strength: 1, Distance: 30}.Apply(nodes, 1)

	for _, n := range nodes {
		assert.False(t, math.IsNaN(n.VX) || math.IsNaN(n.VY))
	}
}
