package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-session-service/internal/domain"
)

func TestSessionStoreMarksLiveness(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session := store.Create("quiz-1", domain.ModePractice)
	if !mr.Exists("quiz:session:" + session.ID()) {
		t.Fatalf("expected liveness key to be set")
	}

	got, ok := store.Get(session.ID())
	if !ok || got != session {
		t.Fatalf("expected stored session back")
	}
}

func TestSessionStoreRefreshesTTLOnGet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session := store.Create("quiz-1", domain.ModePractice)
	key := "quiz:session:" + session.ID()

	mr.FastForward(30 * time.Second)
	if _, ok := store.Get(session.ID()); !ok {
		t.Fatalf("expected session")
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected ttl refreshed to 1m, got %s", ttl)
	}
}
