// Package randutil derives reproducible random sources from int64 seeds.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand for seed. Equal seeds give equal
// sequences, which is what makes dealt hands replayable.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// RandomSeed picks a fresh non-zero seed for runs that did not ask for one.
func RandomSeed() int64 {
	for {
		if s := rand.Int64(); s != 0 {
			return s
		}
	}
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
