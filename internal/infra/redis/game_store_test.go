package redis

import (
	"testing"
	"time"

	"team-trivia-service/internal/game"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestGameStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewGameStore(client, time.Minute)

	store.Put("game-1", game.NewSession("game-1", game.Assignment{}))
	if !mr.Exists("trivia:game:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("game-1")
	if mr.Exists("trivia:game:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed")
	}
}
