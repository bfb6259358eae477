package catalogs

import "testing"

func TestFishByCatchName(t *testing.T) {
	id, ok := FishByCatchName("slimy swamp eel")
	if !ok || id != RawSlimyEel {
		t.Fatalf("expected RawSlimyEel, got %d ok=%v", id, ok)
	}
	if _, ok := FishByCatchName("Shark"); ok {
		t.Fatalf("lookup must be case sensitive")
	}
	if _, ok := FishByCatchName("bluegill"); ok {
		t.Fatalf("molch island fish are never announced by name")
	}
}

func TestIsFish(t *testing.T) {
	for _, id := range []int{RawShark, Bluegill, InfernalEel, Minnow} {
		if !IsFish(id) {
			t.Fatalf("expected %d to be a fish", id)
		}
	}
	for _, id := range []int{FishBarrel, RingOfLife, 0} {
		if IsFish(id) {
			t.Fatalf("expected %d not to be a fish", id)
		}
	}
}

func TestIsBarrel(t *testing.T) {
	for _, id := range BarrelIDs {
		if !IsBarrel(id) {
			t.Fatalf("expected %d to be a barrel", id)
		}
	}
	if IsBarrel(RawShark) {
		t.Fatalf("shark is not a barrel")
	}
}

func TestResolveFish(t *testing.T) {
	cases := map[string]int{
		"Raw shark":      RawShark,
		"raw  SHARK":     RawShark,
		"Raw macerel":    RawMackerel,
		"Raw anglerfsh":  RawAnglerfish,
		"Leaping salmon": LeapingSalmon,
	}
	for in, want := range cases {
		got, ok := ResolveFish(in)
		if !ok || got.ID != want {
			t.Fatalf("ResolveFish(%q) = %d ok=%v, want %d", in, got.ID, ok, want)
		}
	}
	for _, in := range []string{"", "Raw manta ray", "Hello"} {
		if got, ok := ResolveFish(in); ok {
			t.Fatalf("ResolveFish(%q) unexpectedly resolved to %q", in, got.Name)
		}
	}
}

func TestItemName(t *testing.T) {
	if got := ItemName(RingOfLife); got != "Ring of life" {
		t.Fatalf("got %q", got)
	}
	if got := ItemName(-1); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
