package mahjong

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func TestNewTile_Validation(t *testing.T) {
	cases := []struct {
		name  string
		suit  Suit
		rank  int
		honor Honor
		ok    bool
	}{
		{"man 1", SuitMan, 1, HonorNone, true},
		{"pin 9", SuitPin, 9, HonorNone, true},
		{"sou 5", SuitSou, 5, HonorNone, true},
		{"rank 0", SuitMan, 0, HonorNone, false},
		{"rank 10", SuitSou, 10, HonorNone, false},
		{"negative rank", SuitPin, -1, HonorNone, false},
		{"numbered with honor", SuitMan, 3, East, false},
		{"east", SuitHonor, 0, East, true},
		{"red dragon", SuitHonor, 0, Red, true},
		{"honor without kind", SuitHonor, 0, HonorNone, false},
		{"honor with rank", SuitHonor, 1, South, false},
		{"honor kind out of range", SuitHonor, 0, Honor(8), false},
		{"unknown suit", Suit(7), 1, HonorNone, false},
	}
	for _, c := range cases {
		tile, err := NewTile(c.suit, c.rank, c.honor)
		if c.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", c.name, err)
			}
			if tile.Suit() != c.suit || tile.Rank() != c.rank || tile.Honor() != c.honor {
				t.Fatalf("%s: fields not kept, got %+v", c.name, tile)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidTileSpec) {
			t.Fatalf("%s: expected ErrInvalidTileSpec, got %v", c.name, err)
		}
	}
}

func TestTile_Equality(t *testing.T) {
	a := MustTile(SuitPin, 3, HonorNone)
	b := MustTile(SuitPin, 3, HonorNone)
	c := MustTile(SuitPin, 4, HonorNone)
	if a != b {
		t.Fatalf("3p should equal 3p")
	}
	if a == c {
		t.Fatalf("3p should not equal 4p")
	}
	if MustTile(SuitHonor, 0, East) == MustTile(SuitHonor, 0, South) {
		t.Fatalf("east should not equal south")
	}
}

func TestTile_OrderIsTotal(t *testing.T) {
	kinds := AllTileKinds()
	for i, a := range kinds {
		for j, b := range kinds {
			got := a.Compare(b)
			switch {
			case i < j && got != -1:
				t.Fatalf("%v should be less than %v", a, b)
			case i > j && got != 1:
				t.Fatalf("%v should be greater than %v", a, b)
			case i == j && got != 0:
				t.Fatalf("%v should compare equal to itself", a)
			}
		}
	}
}

func TestTile_OrderGroups(t *testing.T) {
	tiles := MustParseHand("P 5s 1m 9p E")
	SortTiles(tiles)
	if got := FormatTiles(tiles); got != "1m 9p 5s E P" {
		t.Fatalf("unexpected order: %s", got)
	}
}

func TestSortTiles_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := NewWall(rng)
	tiles, err := w.DrawN(40)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	before := FormatTiles(tiles)
	once := SortedCopy(tiles)
	twice := SortedCopy(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("sorting twice changed position %d: %v vs %v", i, once[i], twice[i])
		}
		if i > 0 && once[i].Less(once[i-1]) {
			t.Fatalf("not sorted at %d", i)
		}
	}
	if FormatTiles(tiles) != before {
		t.Fatalf("SortedCopy must not touch the input")
	}
}

func TestTile_Predicates(t *testing.T) {
	cases := []struct {
		tile                     string
		terminal, honor, simple bool
	}{
		{"1m", true, false, false},
		{"9s", true, false, false},
		{"5p", false, false, true},
		{"2m", false, false, true},
		{"8s", false, false, true},
		{"E", false, true, false},
		{"C", false, true, false},
	}
	for _, c := range cases {
		tile, err := ParseTile(c.tile)
		if err != nil {
			t.Fatalf("parse %s: %v", c.tile, err)
		}
		if tile.IsTerminal() != c.terminal || tile.IsHonor() != c.honor || tile.IsSimple() != c.simple {
			t.Fatalf("%s: terminal=%v honor=%v simple=%v", c.tile, tile.IsTerminal(), tile.IsHonor(), tile.IsSimple())
		}
		if tile.IsTerminalOrHonor() != (c.terminal || c.honor) {
			t.Fatalf("%s: IsTerminalOrHonor mismatch", c.tile)
		}
	}
}

func TestTile_StringRoundTrip(t *testing.T) {
	for _, kind := range AllTileKinds() {
		parsed, err := ParseTile(kind.String())
		if err != nil {
			t.Fatalf("parse %s: %v", kind, err)
		}
		if parsed != kind {
			t.Fatalf("round trip %s -> %v", kind, parsed)
		}
		if tileFromIndex(kind.Index()) != kind {
			t.Fatalf("index round trip failed for %s", kind)
		}
	}
}

func TestTile_JSON(t *testing.T) {
	in := MustParseHand("1m 9p E C")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["1m","9p","E","C"]` {
		t.Fatalf("unexpected json %s", data)
	}
	var out []Tile
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("json round trip mismatch at %d", i)
		}
	}
	if _, err := json.Marshal(Tile{}); err == nil {
		t.Fatalf("zero tile should not marshal")
	}
}

func TestAllTileKinds(t *testing.T) {
	kinds := AllTileKinds()
	if len(kinds) != 34 {
		t.Fatalf("expected 34 kinds, got %d", len(kinds))
	}
	seen := NewTileSet(kinds...)
	if seen.Len() != 34 {
		t.Fatalf("kinds are not distinct")
	}
	kinds[0] = MustTile(SuitHonor, 0, Red)
	if AllTileKinds()[0] != MustTile(SuitMan, 1, HonorNone) {
		t.Fatalf("AllTileKinds must return a fresh slice")
	}
}
