package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"
)

func TestMemoryGameRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameRecordRepository()

	base := time.Now()
	for i, id := range []string{"g-1", "g-2", "g-3"} {
		record := entity.NewGameRecord(id, []entity.PlayerInfo{{Name: "alice", SeatIndex: 0}, {Name: id, SeatIndex: 1}})
		record.StartTime = base.Add(time.Duration(i) * time.Minute)
		if err := repo.SaveGameRecord(ctx, record); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	record, err := repo.FindGameRecord(ctx, "g-2")
	if err != nil || record.GameID != "g-2" {
		t.Fatalf("find g-2: %v %+v", err, record)
	}
	record.CompleteWin(10, 0, []string{"1m"}, [4]int{})
	if err := repo.SaveGameRecord(ctx, record); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	record.Result.WinningHand[0] = "9s"

	stored, _ := repo.FindGameRecord(ctx, "g-2")
	if stored.Status != entity.StatusWon || stored.Result.WinningHand[0] != "1m" {
		t.Fatalf("stored record should be an isolated copy: %+v", stored.Result)
	}

	if _, err := repo.FindGameRecord(ctx, "missing"); !errors.Is(err, repository.ErrGameRecordNotFound) {
		t.Fatalf("expected ErrGameRecordNotFound, got %v", err)
	}

	page, err := repo.FindGameRecordsByPlayer(ctx, "alice", 2, 0)
	if err != nil || len(page) != 2 || page[0].GameID != "g-3" || page[1].GameID != "g-2" {
		t.Fatalf("unexpected first page %v %v", err, page)
	}
	page, _ = repo.FindGameRecordsByPlayer(ctx, "alice", 2, 2)
	if len(page) != 1 || page[0].GameID != "g-1" {
		t.Fatalf("unexpected second page %v", page)
	}
	if page, _ = repo.FindGameRecordsByPlayer(ctx, "nobody", 10, 0); len(page) != 0 {
		t.Fatalf("unknown player should have no records")
	}
}
