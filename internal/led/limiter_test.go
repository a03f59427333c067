package led

import "testing"

func TestLimiterBudgetClamp(t *testing.T) {
	// 10 pixels all white
	n := 10
	buf := make([]byte, n*3)
	for i := range buf {
		buf[i] = 255
	}
	l := &Limiter{
		ChannelmA: 20,  // 60mA at white per LED
		BudgetmA:  300, // allow 300 mA total
		Knee:      0.9,
	}

	// pre-limit current would be 10 * 60 = 600 mA
	l.Apply(buf, 3)
	cur := Current(buf, 20)
	if cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
	if cur < 250 {
		t.Fatalf("limited too hard, got %.2f mA", cur)
	}
}

func TestLimiterUnderKnee(t *testing.T) {
	buf := []byte{255, 0, 0, 0, 255, 0}
	l := &Limiter{ChannelmA: 20, BudgetmA: 1000, Knee: 0.9}
	l.Apply(buf, 3)
	if buf[0] != 255 || buf[4] != 255 {
		t.Fatalf("frame under the knee changed: %v", buf)
	}
}

func TestWhiteCap(t *testing.T) {
	buf := []byte{255, 255, 255} // sum=3
	l := &Limiter{WhiteCap: 1.5} // cap to 1.5
	l.Apply(buf, 3)
	sum := float64(buf[0]) + float64(buf[1]) + float64(buf[2])
	if sum > 1.5*255 {
		t.Fatalf("expected sum <= %.1f, got %.1f", 1.5*255, sum)
	}
}

func TestNilLimiter(t *testing.T) {
	var l *Limiter
	buf := []byte{1, 2, 3}
	l.Apply(buf, 3)
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Fatalf("nil limiter changed frame: %v", buf)
	}
}
