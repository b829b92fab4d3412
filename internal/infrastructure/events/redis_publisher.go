package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/pkg/logger"
)

// Canal pub/sub al que se suscriben los gateways de UI en vivo.
const channel = "tallerpos:events"

var _ events.Publisher = (*RedisPublisher)(nil)

// RedisPublisher fan-out de eventos vía Redis pub/sub. Best-effort: un fallo
// de publicación se loguea y se descarta, nunca afecta la operación que lo originó.
type RedisPublisher struct {
	rdb *redis.Client
	log *logger.Logger
}

// RedisConfig parámetros de conexión.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisPublisher conecta a Redis y verifica con Ping.
func NewRedisPublisher(cfg RedisConfig, log *logger.Logger) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &RedisPublisher{rdb: rdb, log: log}, nil
}

// Close cierra la conexión.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

type eventPayload struct {
	Event   string `json:"event"`
	PartID  string `json:"part_id,omitempty"`
	StoreID string `json:"store_id,omitempty"`
	JobID   string `json:"job_id,omitempty"`
}

// StockUpdate notifica que cambió el stock de (part, store).
func (p *RedisPublisher) StockUpdate(ctx context.Context, partID, storeID string) {
	p.publish(ctx, eventPayload{Event: events.EventStockUpdate, PartID: partID, StoreID: storeID})
}

// JobUpdate notifica que cambió una orden de reparación.
func (p *RedisPublisher) JobUpdate(ctx context.Context, jobID string) {
	p.publish(ctx, eventPayload{Event: events.EventJobUpdate, JobID: jobID})
}

func (p *RedisPublisher) publish(ctx context.Context, payload eventPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("event", payload.Event).Msg("serializar evento")
		return
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		p.log.Warn().Err(err).Str("event", payload.Event).Msg("publicar evento en redis")
	}
}
