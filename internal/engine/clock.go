package engine

// DefaultFPS is the frame rate used when a frame source reports none. It
// matches the default tick cadence so that a StepClock tracks wall time.
const DefaultFPS = 60.0

// FrameSource supplies the host frame counter behind the time and frame
// expression variables.
type FrameSource interface {
	Frame() int
	FPS() float64
}

// StepClock is a FrameSource that advances one frame per engine tick.
type StepClock struct {
	Rate  float64
	frame int
}

// NewStepClock creates a clock running at fps.
func NewStepClock(fps float64) *StepClock {
	return &StepClock{Rate: fps}
}

func (c *StepClock) Frame() int {
	return c.frame
}

func (c *StepClock) FPS() float64 {
	return c.Rate
}

// Step advances the clock by one frame.
func (c *StepClock) Step() {
	c.frame++
}

type stepper interface {
	Step()
}

// Seconds converts the current frame of fs into seconds.
func Seconds(fs FrameSource) float64 {
	fps := fs.FPS()
	if fps <= 0 {
		fps = DefaultFPS
	}

	return float64(fs.Frame()) / fps
}
