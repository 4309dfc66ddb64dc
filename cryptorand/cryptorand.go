// Package cryptorand provides a math/rand source backed by crypto/rand, for
// seeding games that people might otherwise try to predict.
package cryptorand

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// New returns a *rand.Rand that reads from crypto/rand.
func New() *mathrand.Rand {
	return mathrand.New(Source{})
}

// Source implements rand.Source64. Seed is a no-op.
type Source struct{}

func (s Source) Int63() int64 {
	return int64(s.Uint64() &^ (1 << 63))
}

func (Source) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (Source) Seed(int64) {}
