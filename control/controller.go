package control

// Controller unifies PID, Bang-Bang, and MPC behind the single-axis
// control contract `(target, measured) -> output` plus Reset (spec.md
// §4.7, §9: controller kind is a closed set realized as a Go sum type — an
// interface with exactly three unexported implementations, constructed
// only through NewPIDController/NewBangBangController/NewMPCController).
type Controller interface {
	Update(target, measured float32) float32
	Reset()
}

type pidController struct{ pid *PID }

// NewPIDController adapts a *PID to the Controller interface.
func NewPIDController(pid *PID) Controller { return pidController{pid} }

func (c pidController) Update(target, measured float32) float32 { return c.pid.Update(target, measured) }
func (c pidController) Reset()                                  { c.pid.Reset() }

// BangBang switches hard between +MaxOutput and -MaxOutput depending on
// the sign of the error. It carries no internal state (spec.md §4.7).
type BangBang struct {
	MaxOutput float32
}

// NewBangBang returns a Bang-Bang controller with the given output
// magnitude.
func NewBangBang(maxOutput float32) *BangBang {
	return &BangBang{MaxOutput: maxOutput}
}

// Update returns +MaxOutput when measured < target, else -MaxOutput.
func (b *BangBang) Update(target, measured float32) float32 {
	if measured < target {
		return b.MaxOutput
	}
	return -b.MaxOutput
}

type bangBangController struct{ bb *BangBang }

// NewBangBangController adapts a *BangBang to the Controller interface.
// Reset is a no-op: Bang-Bang carries no state.
func NewBangBangController(bb *BangBang) Controller { return bangBangController{bb} }

func (c bangBangController) Update(target, measured float32) float32 {
	return c.bb.Update(target, measured)
}
func (c bangBangController) Reset() {}
