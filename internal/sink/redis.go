package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abhisek/examiner/internal/session"
)

// Redis key layout.
const (
	DefaultPrefix  = "examiner:"
	resultKeyFmt   = "%sresult:%s"  // full message by attempt ID
	examListKeyFmt = "%sresults:%s" // attempt IDs per exam, newest first
	channelFmt     = "%sresults"    // pub/sub notifications
)

// Message is the JSON payload stored and published for each record.
type Message struct {
	Participant string          `json:"participant"`
	Record      *session.Record `json:"record"`
}

// RedisSink publishes records to Redis. Each record is stored as JSON under
// its attempt ID, its ID is pushed onto the exam's list and the message is
// announced on the results channel.
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisSink.
type RedisOption func(*RedisSink)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(p string) RedisOption {
	return func(s *RedisSink) { s.prefix = p }
}

// WithTTL expires stored results after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisSink) { s.ttl = ttl }
}

func NewRedisSink(client *redis.Client, opts ...RedisOption) *RedisSink {
	s := &RedisSink{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Debug().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("redis connected")

	return rdb, nil
}

func (s *RedisSink) Publish(ctx context.Context, participant string, rec *session.Record) error {
	data, err := json.Marshal(Message{Participant: participant, Record: rec})
	if err != nil {
		return fmt.Errorf("redis sink: %w: marshal: %w", ErrPermanent, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.ResultKey(rec.AttemptID), data, s.ttl)
	pipe.LPush(ctx, s.ExamListKey(rec.ExamID), rec.AttemptID)
	pipe.Publish(ctx, s.Channel(), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sink: %w", err)
	}
	return nil
}

// Fetch reads back a stored message.
func (s *RedisSink) Fetch(ctx context.Context, attemptID string) (*Message, error) {
	data, err := s.client.Get(ctx, s.ResultKey(attemptID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("redis sink: get %s: %w", attemptID, err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("redis sink: unmarshal: %w", err)
	}
	return &msg, nil
}

func (s *RedisSink) ResultKey(attemptID string) string {
	return fmt.Sprintf(resultKeyFmt, s.prefix, attemptID)
}

func (s *RedisSink) ExamListKey(examID string) string {
	return fmt.Sprintf(examListKeyFmt, s.prefix, examID)
}

func (s *RedisSink) Channel() string {
	return fmt.Sprintf(channelFmt, s.prefix)
}
