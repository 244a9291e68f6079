package vmath

// FastRand is a xorshift64 generator for reproducible procedural content
// Not safe for concurrent use
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator; zero is remapped since xorshift sticks at zero
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Bipolar returns a value in [-1, 1)
func (r *FastRand) Bipolar() float64 {
	return r.Float64()*2 - 1
}
