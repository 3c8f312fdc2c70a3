package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vitrinebot/internal/model"
)

const (
	sessionTTL   = 30 * time.Minute
	historyLimit = 20
)

// Store guarda o histórico de perguntas e respostas por sessão no Redis.
// Cada Append renova o TTL: sessão parada meia hora expira sozinha.
type Store struct {
	Client *redis.Client
}

func key(sessionID string) string {
	return "ask:" + sessionID
}

func (s *Store) Get(ctx context.Context, sessionID string) ([]model.AskRecord, error) {
	val, err := s.Client.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []model.AskRecord
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) Append(ctx context.Context, sessionID string, rec model.AskRecord) error {
	history, _ := s.Get(ctx, sessionID)
	history = append(history, rec)

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(sessionID), b, sessionTTL).Err()
}
