package sim

// Params holds the simulation tuning constants.
type Params struct {
	AlphaTarget   float64 `json:"alphaTarget"`
	AlphaDecay    float64 `json:"alphaDecay"`
	AlphaMin      float64 `json:"alphaMin"`
	VelocityDecay float64 `json:"velocityDecay"`
	AmbientWarm   float64 `json:"ambientWarm"` // alpha after structural change and during drags
	ResumeAlpha   float64 `json:"resumeAlpha"`

	Charge       float64 `json:"charge"`
	LinkStrength float64 `json:"linkStrength"`
	LinkDistance float64 `json:"linkDistance"`
	Gravity      float64 `json:"gravity"`
	Wall         float64 `json:"wall"`
	WallOffset   float64 `json:"wallOffset"`

	FenceDecay    float64 `json:"fenceDecay"`
	FenceClamp    float64 `json:"fenceClamp"`
	CompleteFence float64 `json:"completeFence"`
	BoundFence    float64 `json:"boundFence"`
	BlockedFence  float64 `json:"blockedFence"`

	// New nodes appear at x in [-SpawnSpread/2, SpawnSpread/2) and y = SpawnY.
	SpawnSpread float64 `json:"spawnSpread"`
	SpawnY      float64 `json:"spawnY"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		AlphaTarget:   0,
		AlphaDecay:    0.001,
		AlphaMin:      0.001,
		VelocityDecay: 0.4,
		AmbientWarm:   0.8,
		ResumeAlpha:   0.99,

		Charge:       -10.999,
		LinkStrength: 0.0505,
		LinkDistance: 30,
		Gravity:      0.014,
		Wall:         0.0006,
		WallOffset:   200,

		FenceDecay:    -30,
		FenceClamp:    10,
		CompleteFence: -16,
		BoundFence:    -10,
		BlockedFence:  -1,

		SpawnSpread: 400,
		SpawnY:      200,
	}
}
