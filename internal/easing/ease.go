package easing

import (
	"math"

	"midi-animator/internal/common"
)

const (
	backC1    = 1.70158
	backC3    = backC1 + 1
	elasticC4 = 2 * math.Pi / 3
	bounceN1  = 7.5625
	bounceD1  = 2.75
)

// Ease maps progress t to curved progress. t is clamped to [0, 1] first;
// modes outside the defined set ease linearly.
func Ease(t float64, mode Mode) float64 {
	t = common.Clamp(t, 0, 1)

	switch mode {
	case QuadIn:
		return t * t
	case QuadOut:
		return 1 - (1-t)*(1-t)
	case QuadInOut:
		if t < 0.5 {
			return 2 * t * t
		}

		return 1 - math.Pow(-2*t+2, 2)/2
	case CubicOut:
		return 1 - math.Pow(1-t, 3)
	case ExpoOut:
		if t == 1 {
			return 1
		}

		return 1 - math.Pow(2, -10*t)
	case BackOut:
		return 1 + backC3*math.Pow(t-1, 3) + backC1*math.Pow(t-1, 2)
	case ElasticOut:
		if t == 0 || t == 1 {
			return t
		}

		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*elasticC4) + 1
	case BounceOut:
		return bounceOut(t)
	default:
		return t
	}
}

func bounceOut(t float64) float64 {
	switch {
	case t < 1/bounceD1:
		return bounceN1 * t * t
	case t < 2/bounceD1:
		t -= 1.5 / bounceD1

		return bounceN1*t*t + 0.75
	case t < 2.5/bounceD1:
		t -= 2.25 / bounceD1

		return bounceN1*t*t + 0.9375
	default:
		t -= 2.625 / bounceD1

		return bounceN1*t*t + 0.984375
	}
}
