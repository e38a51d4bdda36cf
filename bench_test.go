package weakarena

import (
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage tests request-scoped patterns where the arena should excel
func BenchmarkRealisticUsage(b *testing.B) {
	type record struct {
		ID   int64
		Data [56]byte // Total 64 bytes
	}

	b.Run("ManySmallAllocs/Arena", func(b *testing.B) {
		a, _ := NewArena(64 * 1024)
		defer a.Destroy()
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				_, _ = Alloc(a, record{ID: int64(j)})
			}
			// Clear after every batch (simulates request cleanup)
			_ = a.Clear()
		}
	})

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			objects := make([]*record, 100)
			for j := 0; j < 100; j++ {
				objects[j] = &record{ID: int64(j)}
			}
			runtime.KeepAlive(objects)
		}
	})
}

func BenchmarkAlloc(b *testing.B) {
	a, _ := NewArena(1024 * 1024)
	defer a.Destroy()

	b.Run("Alloc[int]", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = Alloc(a, i)
			if i%1000 == 999 {
				_ = a.Clear()
			}
		}
	})

	b.Run("AllocWith[int]", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = AllocWith(a, func() int { return i })
			if i%1000 == 999 {
				_ = a.Clear()
			}
		}
	})
}

func BenchmarkDeref(b *testing.B) {
	a, _ := NewArena(0)
	defer a.Destroy()
	h, _ := Alloc(a, int64(1))

	b.Run("Deref", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Deref(a, h)
		}
	})

	b.Run("Handle.Get", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = h.Get()
		}
	})

	b.Run("IsAlive", func(b *testing.B) {
		r := h.Ref()
		for i := 0; i < b.N; i++ {
			_ = a.IsAlive(r)
		}
	})
}

func BenchmarkClear(b *testing.B) {
	for _, n := range []int{0, 100, 10000} {
		b.Run(fmt.Sprintf("live=%d", n), func(b *testing.B) {
			a, _ := NewArena(1024 * 1024)
			defer a.Destroy()

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				for j := 0; j < n; j++ {
					_, _ = Alloc(a, int64(j))
				}
				b.StartTimer()
				_ = a.Clear()
			}
		})
	}
}

func BenchmarkSafeArenaParallel(b *testing.B) {
	s, _ := NewSafeArena(1024 * 1024)
	defer s.Destroy()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			h, _ := SafeAlloc(s, int64(i))
			_, _ = SafeLoad(s, h)
			i++
			if i%1000 == 0 {
				_ = s.Clear()
			}
		}
	})
}
