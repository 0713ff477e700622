package game

import (
	"math"
	"sort"
	"strings"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	rng := NewSeededRand(42)
	for _, in := range [][]int{nil, {}, {1}, {1, 2}, {5, 5, 1, 9, 3, 3, 3}} {
		orig := append([]int(nil), in...)
		out := Shuffle(rng, in)
		if len(out) != len(in) {
			t.Fatalf("Shuffle(%v) length = %d", in, len(out))
		}
		a := append([]int(nil), out...)
		b := append([]int(nil), in...)
		sort.Ints(a)
		sort.Ints(b)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Shuffle(%v) = %v is not a permutation", in, out)
			}
		}
		for i := range in {
			if in[i] != orig[i] {
				t.Fatalf("Shuffle modified its input: %v", in)
			}
		}
	}
}

func TestShuffleUniform(t *testing.T) {
	const draws = 60000
	rng := NewSeededRand(2024)
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		out := Shuffle(rng, []string{"a", "b", "c"})
		counts[strings.Join(out, "")]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, got %v", counts)
	}
	for perm, n := range counts {
		if got := float64(n) / draws; math.Abs(got-1.0/6) > 0.01 {
			t.Fatalf("permutation %s frequency %.4f, want about %.4f", perm, got, 1.0/6)
		}
	}
}
