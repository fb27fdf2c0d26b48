package types

import "testing"

func TestProfileCacheKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jordan Reyes", "jordan_reyes"},
		{"ada", "ada"},
		{"Grace Brewster Murray Hopper", "grace_brewster_murray_hopper"},
		{"", ""},
	}
	for _, tt := range tests {
		p := Profile{Name: tt.name}
		if got := p.CacheKey(); got != tt.want {
			t.Errorf("CacheKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
