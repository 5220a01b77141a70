package audio

import "math"

// compressor is a stereo-linked feed-forward compressor with a soft knee.
type compressor struct {
	threshold float64 // dB
	knee      float64 // dB
	ratio     float64
	attack    float64 // smoothing coefficients
	release   float64
	env       float64 // current gain reduction, dB (<= 0)
}

func newCompressor(cfg Config) *compressor {
	sr := float64(cfg.SampleRate)
	return &compressor{
		threshold: cfg.CompThreshold,
		knee:      cfg.CompKnee,
		ratio:     math.Max(1, cfg.CompRatio),
		attack:    math.Exp(-1 / (math.Max(cfg.CompAttack, 1e-5) * sr)),
		release:   math.Exp(-1 / (math.Max(cfg.CompRelease, 1e-5) * sr)),
	}
}

// gainComputer returns the target output level in dB for input level x dB.
func (c *compressor) gainComputer(x float64) float64 {
	over := x - c.threshold
	switch {
	case 2*over < -c.knee:
		return x
	case c.knee > 0 && 2*math.Abs(over) <= c.knee:
		k := over + c.knee/2
		return x + (1/c.ratio-1)*k*k/(2*c.knee)
	default:
		return c.threshold + over/c.ratio
	}
}

// process compresses one stereo frame.
func (c *compressor) process(l, r float64) (float64, float64) {
	level := math.Max(math.Abs(l), math.Abs(r))
	target := 0.0
	if level > 1e-9 {
		x := 20 * math.Log10(level)
		target = c.gainComputer(x) - x
	}

	coeff := c.release
	if target < c.env {
		coeff = c.attack
	}
	c.env = coeff*c.env + (1-coeff)*target

	g := math.Pow(10, c.env/20)
	return l * g, r * g
}

// Reduction returns the current gain reduction in dB.
func (c *compressor) Reduction() float64 {
	return c.env
}
