package weakarena

import (
	"math"
	"sync/atomic"
)

// firstGeneration is the generation of a new arena. Zero is never issued, so
// the zero Handle is never alive.
const firstGeneration = 1

// generation is the arena's clear counter. Reads are atomic so that liveness
// checks racing with Clear never observe a torn value.
type generation struct {
	v atomic.Uint32
}

func (g *generation) init() { g.v.Store(firstGeneration) }

func (g *generation) load() uint32 { return g.v.Load() }

// canBump reports whether bump would succeed.
func (g *generation) canBump() bool { return g.v.Load() < math.MaxUint32 }

// bump advances the counter by exactly one. It refuses to wrap.
func (g *generation) bump() (uint32, error) {
	cur := g.v.Load()
	if cur == math.MaxUint32 {
		return cur, ErrGenerationOverflow
	}
	g.v.Store(cur + 1)
	return cur + 1, nil
}
