package node

import (
	"context"
	"errors"
	"testing"
	"time"

	"mahjong/framework/game"
	"mahjong/framework/stream"
)

type fakeClient struct {
	sent    map[string][][]byte
	failing bool
}

func (f *fakeClient) Run(string) error { return nil }
func (f *fakeClient) Close() error     { return nil }

func (f *fakeClient) SendMessage(subject string, data []byte) error {
	if f.failing {
		return ErrNotConnected
	}
	if f.sent == nil {
		f.sent = make(map[string][][]byte)
	}
	f.sent[subject] = append(f.sent[subject], data)
	return nil
}

func TestNatsPublisher_Publish(t *testing.T) {
	cli := &fakeClient{}
	p := NewNatsPublisher(cli, "mahjong.table")
	e := game.Event{Type: game.EventTileDiscarded, GameID: "g1", Seat: 2, Player: "carol", At: time.Now()}

	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	sent := cli.sent["mahjong.table.g1"]
	if len(sent) != 1 {
		t.Fatalf("expected one message on mahjong.table.g1, got %v", cli.sent)
	}
	msg, err := stream.Decode(sent[0])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Route != string(game.EventTileDiscarded) || msg.GameID != "g1" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestNatsPublisher_Errors(t *testing.T) {
	p := NewNatsPublisher(&fakeClient{failing: true}, "s")
	err := p.Publish(context.Background(), game.Event{Type: game.EventGameWon, GameID: "g"})
	if !errors.Is(err, ErrPublishFailed) || !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected wrapped ErrPublishFailed, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewNatsPublisher(&fakeClient{}, "s").Publish(ctx, game.Event{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNatsClient_NotConnected(t *testing.T) {
	nc := NewNatsClient()
	if err := nc.SendMessage("s", nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := nc.Subscribe("s", func(string, []byte) {}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := nc.Close(); err != nil {
		t.Fatalf("Close on unconnected client: %v", err)
	}
}
