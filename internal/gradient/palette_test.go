package gradient

import "testing"

func TestSize(t *testing.T) {
	if Size() != 25 {
		t.Fatalf("got %d presets, want 25", Size())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{0, 0},
		{7, 7},
		{24, 24},
		{25, 0},
		{999, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCSS(t *testing.T) {
	if got := CSS(0); got != "linear-gradient(135deg, #FF6B6B, #FFE66D)" {
		t.Errorf("got %q", got)
	}
	if CSS(-5) != CSS(0) {
		t.Error("out of range index should render the first preset")
	}
}

func TestByName(t *testing.T) {
	if g := ByName("ocean deep"); g.Name != "Ocean Deep" {
		t.Errorf("got %q", g.Name)
	}
	if g := ByName("nope"); g.Name != "Sunset Blaze" {
		t.Errorf("unknown name should default to first, got %q", g.Name)
	}
}

func TestHeroes(t *testing.T) {
	heroes := Heroes()
	if len(heroes) != 8 {
		t.Fatalf("got %d heroes, want 8", len(heroes))
	}
	if heroes[7].Name != "Coral Reef" {
		t.Errorf("last hero should be Coral Reef, got %q", heroes[7].Name)
	}
	if Hero(100).Name != "Sunset Blaze" {
		t.Error("out of range hero should clamp to first")
	}
}

func TestAllIsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	if At(0).Name != "Sunset Blaze" {
		t.Error("All should not expose the backing slice")
	}
}
