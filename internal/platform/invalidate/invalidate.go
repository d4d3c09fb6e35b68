// Package invalidate tells downstream caches which resource paths changed
// after a successful write.
package invalidate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Paths used by the domain services.
const (
	PathPatients = "/patients"
	PathSessions = "/sessions"
	PathBilling  = "/billing"
	PathCalendar = "/calendar"
)

// PatientPath returns the path of a single patient's page.
func PatientPath(id string) string { return PathPatients + "/" + id }

// Invalidator is notified after writes. Implementations never fail the
// caller; delivery problems are logged.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// LogInvalidator only records invalidations in the log.
type LogInvalidator struct {
	logger zerolog.Logger
}

func NewLogInvalidator(logger zerolog.Logger) *LogInvalidator {
	return &LogInvalidator{logger: logger}
}

func (l *LogInvalidator) Invalidate(_ context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	l.logger.Debug().Strs("paths", paths).Msg("invalidate")
}

// Publisher is the subset of *redis.Client used for publishing.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Message is the payload published to the invalidation channel.
type Message struct {
	Paths []string  `json:"paths"`
	At    time.Time `json:"at"`
}

// RedisInvalidator publishes invalidations on a Redis pub/sub channel.
type RedisInvalidator struct {
	pub     Publisher
	channel string
	logger  zerolog.Logger
	now     func() time.Time
}

func NewRedisInvalidator(pub Publisher, channel string, logger zerolog.Logger) *RedisInvalidator {
	return &RedisInvalidator{pub: pub, channel: channel, logger: logger, now: time.Now}
}

func (r *RedisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	payload, err := json.Marshal(Message{Paths: paths, At: r.now().UTC()})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to encode invalidation")
		return
	}
	// Publish even if the request was canceled after the write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := r.pub.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Error().Err(err).Str("channel", r.channel).Strs("paths", paths).Msg("failed to publish invalidation")
	}
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
