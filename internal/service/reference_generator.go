package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisReferenceKeyPrefix = "booking:reference:"

	// Counter keys outlive their day so a late request never restarts at 1
	referenceCounterTTL = 48 * time.Hour
	referenceTimeout    = 2 * time.Second
)

// ReferenceGenerator hands out human-readable booking reference numbers
type ReferenceGenerator interface {
	Next(ctx context.Context) string
}

type referenceGenerator struct {
	redisClient *redis.Client
	log         *logrus.Logger
	prefix      string
	now         func() time.Time
}

// NewReferenceGenerator builds PREFIX-YYYYMMDD-NNNN numbers from a daily Redis
// counter. When Redis is unreachable it falls back to a random suffix.
func NewReferenceGenerator(redisClient *redis.Client, log *logrus.Logger, prefix string) ReferenceGenerator {
	if prefix == "" {
		prefix = "LAB"
	}
	return &referenceGenerator{
		redisClient: redisClient,
		log:         log,
		prefix:      strings.ToUpper(prefix),
		now:         time.Now,
	}
}

func (g *referenceGenerator) Next(ctx context.Context) string {
	day := g.now().UTC().Format("20060102")
	key := RedisReferenceKeyPrefix + day

	ctx, cancel := context.WithTimeout(ctx, referenceTimeout)
	defer cancel()

	seq, err := g.redisClient.Incr(ctx, key).Result()
	if err == nil {
		if seq == 1 {
			if err := g.redisClient.Expire(ctx, key, referenceCounterTTL).Err(); err != nil {
				g.log.Warnf("Failed to set expiry on reference counter %s: %+v", key, err)
			}
		}
		return fmt.Sprintf("%s-%s-%04d", g.prefix, day, seq)
	}

	g.log.Warnf("Reference counter unavailable, using random suffix: %+v", err)
	return fmt.Sprintf("%s-%s-%s", g.prefix, day, randomSuffix())
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
