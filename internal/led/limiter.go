package led

// Limiter applies a two-stage power limiter to an encoded frame:
//  1. Per-LED white cap: scales a pixel so the sum of its channel fractions
//     stays under WhiteCap.
//  2. Global current budget: estimates the draw and scales the whole frame to
//     stay under BudgetmA, easing in from Knee*BudgetmA.
//
// A nil Limiter, or one with zero fields, leaves the frame alone.
type Limiter struct {
	WhiteCap  float64 // sum of channel fractions per LED, 0 = no cap
	ChannelmA float64 // mA per channel at full scale; WS2812 is about 20
	BudgetmA  float64 // 0 disables the budget stage
	Knee      float64 // fraction of the budget where soft limiting begins
}

func DefaultLimiter() *Limiter {
	return &Limiter{ChannelmA: 20, Knee: 0.9}
}

func (l *Limiter) Apply(buf []byte, channels int) {
	if l == nil || channels <= 0 {
		return
	}

	if l.WhiteCap > 0 {
		limit := l.WhiteCap * 255
		for i := 0; i+channels <= len(buf); i += channels {
			px := buf[i : i+channels]
			s := 0.0
			for _, v := range px {
				s += float64(v)
			}
			if s > limit {
				scale(px, limit/s)
			}
		}
	}

	if l.BudgetmA <= 0 {
		return
	}
	chanmA := l.ChannelmA
	if chanmA <= 0 {
		chanmA = 20
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	total := Current(buf, chanmA)
	if total <= 0 {
		return
	}
	ratio := total / l.BudgetmA
	if ratio <= knee {
		return
	}
	minS := l.BudgetmA / total
	if ratio <= 1 {
		// map ratio in [knee,1] to scale in [1, budget/total]
		t := (ratio - knee) / (1 - knee)
		scale(buf, 1-t*(1-minS))
		return
	}
	scale(buf, minS)
}

// Current estimates the draw of buf in mA.
func Current(buf []byte, chanmA float64) float64 {
	total := 0.0
	for _, v := range buf {
		total += float64(v) / 255 * chanmA
	}
	return total
}

func scale(px []byte, s float64) {
	if s >= 1 {
		return
	}
	for i := range px {
		px[i] = uint8(float64(px[i]) * s)
	}
}
