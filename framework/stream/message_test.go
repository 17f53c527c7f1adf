package stream

import (
	"errors"
	"testing"
)

func TestMessage_EncodeDecode(t *testing.T) {
	m, err := NewMessage("tile.discarded", "g1", map[string]int{"seat": 2})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Route != "tile.discarded" || got.GameID != "g1" || string(got.Data) != `{"seat":2}` {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestMessage_Invalid(t *testing.T) {
	if _, err := NewMessage("r", "g", make(chan int)); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	for _, in := range []string{"not json", `{"gameId":"g"}`} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrInvalidMessage) {
			t.Fatalf("%q: expected ErrInvalidMessage, got %v", in, err)
		}
	}
}
