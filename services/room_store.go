package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"mafiaparty/game"

	"github.com/redis/go-redis/v9"
)

// ErrRoomNotFound is returned when no live document exists for a code.
var ErrRoomNotFound = errors.New("room not found")

// RoomStore keeps the live room documents: one JSON document per room
// under room:<code>, plus a pub/sub channel per room that carries the
// full document snapshot on every commit. Subscribers always get the
// latest snapshot but are not guaranteed every intermediate write.
type RoomStore struct {
	redis *redis.Client
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRoomStore(redisClient *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		redis: redisClient,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the commit lock for a room, creating it on first use.
// This process is the only writer, so an in-process lock is enough to
// serialize read-modify-write cycles on the document.
func (s *RoomStore) roomLock(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[code] = lock
	}
	return lock
}

func roomKey(code string) string { return "room:" + code }
func roomChannel(code string) string { return "room:" + code + ":updates" }

// Read returns the current room document, or ErrRoomNotFound.
func (s *RoomStore) Read(ctx context.Context, code string) (*game.RoomDoc, error) {
	data, err := s.redis.Get(ctx, roomKey(code)).Result()
	if err == redis.Nil {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read room %s: %w", code, err)
	}

	var doc game.RoomDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room %s: %w", code, err)
	}
	return &doc, nil
}

// WriteDoc replaces the whole room document and notifies subscribers.
func (s *RoomStore) WriteDoc(ctx context.Context, code string, doc *game.RoomDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room %s: %w", code, err)
	}

	if err := s.redis.Set(ctx, roomKey(code), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store room %s: %w", code, err)
	}

	if err := s.redis.Publish(ctx, roomChannel(code), data).Err(); err != nil {
		log.Printf("Failed to publish update for room %s: %v", code, err)
	}
	return nil
}

// Update applies a partial mutation to the room document and commits it.
// Mutations returning an error leave the stored document untouched.
// Commits to the same room are serialized so concurrent submissions
// never overwrite each other.
func (s *RoomStore) Update(ctx context.Context, code string, mutate func(*game.RoomDoc) error) (*game.RoomDoc, error) {
	lock := s.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.Read(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}
	if err := s.WriteDoc(ctx, code, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete discards a room document.
func (s *RoomStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	delete(s.locks, code)
	s.mu.Unlock()
	return s.redis.Del(ctx, roomKey(code)).Err()
}

// Subscribe registers onChange for every commit to the room and returns
// an unsubscribe func. onChange runs on a dedicated goroutine and
// receives the committed document snapshot.
func (s *RoomStore) Subscribe(ctx context.Context, code string, onChange func(*game.RoomDoc)) func() {
	sub := s.redis.Subscribe(ctx, roomChannel(code))

	go func() {
		for msg := range sub.Channel() {
			var doc game.RoomDoc
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				log.Printf("Dropping malformed update for room %s: %v", code, err)
				continue
			}
			onChange(&doc)
		}
	}()

	return func() {
		if err := sub.Close(); err != nil {
			log.Printf("Failed to close subscription for room %s: %v", code, err)
		}
	}
}
