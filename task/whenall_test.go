package task

import "testing"

// TestWhenAll3_Sum checks that the joiner only runs after all three
// producers have delivered, not after any partial subset.
func TestWhenAll3_Sum(t *testing.T) {
	var i int
	q := &recordingExecutor{}

	joiner := func(a, b, c int) { i = a + b + c }
	p1, p2, p3 := WhenAll3(joiner, q, New(func() int { return 1 }), New(func() int { return 2 }), New(func() int { return 4 }))

	et1 := p1.AsErasedTask()
	et2 := p2.AsErasedTask()
	et3 := p3.AsErasedTask()

	et1.Invoke()
	et2.Invoke()

	if i != 0 {
		t.Fatalf("i = %d after two of three arrivals, want 0 (joiner must not run early)", i)
	}
	if q.size() != 0 {
		t.Fatalf("joiner task submitted early, after only two arrivals")
	}

	et3.Invoke()

	if q.size() != 1 {
		t.Fatalf("expected exactly one joiner task submitted after the third arrival, got %d", q.size())
	}

	q.drainAll()

	if i != 7 {
		t.Fatalf("i = %d, want 7", i)
	}
}

// TestWhenAll3_PreservesPositionalMapping checks that each value reaches
// the joiner in its declared position regardless of arrival order.
func TestWhenAll3_PreservesPositionalMapping(t *testing.T) {
	var a, b, c int
	q := &recordingExecutor{}

	joiner := func(x, y, z int) { a, b, c = x, y, z }
	p1, p2, p3 := WhenAll3(joiner, q, New(func() int { return 1 }), New(func() int { return 2 }), New(func() int { return 3 }))

	et1 := p1.AsErasedTask()
	et2 := p2.AsErasedTask()
	et3 := p3.AsErasedTask()

	// Deliver out of declaration order: 3rd, 1st, 2nd.
	et3.Invoke()
	et1.Invoke()
	et2.Invoke()
	q.drainAll()

	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("got a=%d b=%d c=%d, want a=1 b=2 c=3 regardless of arrival order", a, b, c)
	}
}

// TestWhenAll3_MixedTypes checks that the three producers need not share a
// single result type.
func TestWhenAll3_MixedTypes(t *testing.T) {
	var out string
	q := &recordingExecutor{}

	joiner := func(s string, n int64, d time64Seconds) {
		out = s + " " + int64ToString(n) + " " + int64ToString(int64(d))
	}

	p1, p2, p3 := WhenAll3(
		joiner, q,
		New(func() string { return "Hello!" }),
		New(func() int64 { return 2 }),
		New(func() time64Seconds { return 4 }),
	)

	p1.AsErasedTask().Invoke()
	p2.AsErasedTask().Invoke()
	p3.AsErasedTask().Invoke()
	q.drainAll()

	if out != "Hello! 2 4" {
		t.Fatalf("out = %q, want %q", out, "Hello! 2 4")
	}
}

// time64Seconds stands in for a duration-like value expressed as whole
// seconds, so the test doesn't need to pull in time.Duration formatting.
type time64Seconds int64

func int64ToString(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestWhenAll2_BothArrivalsRequired(t *testing.T) {
	var sum int
	q := &recordingExecutor{}

	p1, p2 := WhenAll2(func(a, b int) { sum = a + b }, q, New(func() int { return 10 }), New(func() int { return 20 }))

	p1.AsErasedTask().Invoke()
	if q.size() != 0 {
		t.Fatalf("joiner submitted after only one of two arrivals")
	}
	p2.AsErasedTask().Invoke()
	q.drainAll()

	if sum != 30 {
		t.Fatalf("sum = %d, want 30", sum)
	}
}

func TestWhenAll4_AllFourRequired(t *testing.T) {
	var sum int
	q := &recordingExecutor{}

	p1, p2, p3, p4 := WhenAll4(
		func(a, b, c, d int) { sum = a + b + c + d }, q,
		New(func() int { return 1 }), New(func() int { return 2 }),
		New(func() int { return 3 }), New(func() int { return 4 }),
	)

	p1.AsErasedTask().Invoke()
	p2.AsErasedTask().Invoke()
	p3.AsErasedTask().Invoke()
	if q.size() != 0 {
		t.Fatalf("joiner submitted before the fourth arrival")
	}
	p4.AsErasedTask().Invoke()
	q.drainAll()

	if sum != 10 {
		t.Fatalf("sum = %d, want 10", sum)
	}
}
