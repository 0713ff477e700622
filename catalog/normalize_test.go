package catalog

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gǒu Qǐ Zǐ", "gouqizi"},
		{"gouqizi", "gouqizi"},
		{"Ren Shen", "renshen"},
		{"Bai-Zhu", "baizhu"},
		{"Huang Qi (Astragalus)", "huangqi"},
		{"Da Zao (Jujube) (Red Date)", "dazaoreddate"},
		{"  Chái Hú\t", "chaihu"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"Gǒu Qǐ Zǐ", "Da Zao (Jujube) (Red Date)", "a(b(c)d)e", "Mǔ Dān Pí", "(", "x-y z"} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNameKeysDedup(t *testing.T) {
	keys := NameKeys([]string{"Ren Shen", "renshen", "", "Ginseng"})
	if len(keys) != 2 || keys[0] != "renshen" || keys[1] != "ginseng" {
		t.Fatalf("NameKeys() = %v", keys)
	}
}
