package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
)

// generationTTL keeps generation counters far longer than any compute, so a
// counter cannot expire and restart between a Version read and its Set.
const generationTTL = 7 * 24 * time.Hour

var errStaleVersion = errors.New("availability changed while computing")

// AvailabilityCache stores computed slots per counsellor and calendar
// date. Each date is one hash keyed by slot length, so a booking change
// drops every slot length of that date with a single DEL.
//
// Every invalidation also bumps a generation counter. Set only writes when
// the generation is still the one read before computing, so a result built
// from data older than an invalidation is never cached.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func dateKey(counsellorID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", counsellorID, date)
}

func counsellorPattern(counsellorID uint) string {
	return fmt.Sprintf("availability:%d:*", counsellorID)
}

// generationKeys returns the counsellor-wide and the per-date counters.
func generationKeys(counsellorID uint, date string) []string {
	return []string{
		fmt.Sprintf("availability-gen:%d", counsellorID),
		fmt.Sprintf("availability-gen:%d:%s", counsellorID, date),
	}
}

// versionOf joins counter values; a missing counter reads as 0.
func versionOf(vals []interface{}) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			s = "0"
		}
		parts[i] = s
	}
	return strings.Join(parts, "/")
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	counsellorID uint,
	date string,
	slotMinutes int,
) ([]domain.CandidateSlot, bool, error) {

	raw, err := c.client.HGet(ctx, dateKey(counsellorID, date), strconv.Itoa(slotMinutes)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("availability cache get: %w", err)
	}

	var slots []domain.CandidateSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, fmt.Errorf("availability cache decode: %w", err)
	}
	return slots, true, nil
}

// Version reads the generation of a counsellor date. Callers read it before
// loading the data they compute from and hand it back to Set.
func (c *AvailabilityCache) Version(
	ctx context.Context,
	counsellorID uint,
	date string,
) (string, error) {

	vals, err := c.client.MGet(ctx, generationKeys(counsellorID, date)...).Result()
	if err != nil {
		return "", fmt.Errorf("availability cache version: %w", err)
	}
	return versionOf(vals), nil
}

// Set caches slots unless the date was invalidated after version was read.
// A skipped write is not an error.
func (c *AvailabilityCache) Set(
	ctx context.Context,
	counsellorID uint,
	date string,
	slotMinutes int,
	version string,
	slots []domain.CandidateSlot,
) error {

	payload, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability cache encode: %w", err)
	}

	key := dateKey(counsellorID, date)
	gens := generationKeys(counsellorID, date)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, gens...).Result()
		if err != nil {
			return err
		}
		if versionOf(vals) != version {
			return errStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, strconv.Itoa(slotMinutes), payload)
			p.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gens...)

	if errors.Is(err, errStaleVersion) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("availability cache set: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) InvalidateDates(ctx context.Context, counsellorID uint, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		keys := make([]string, 0, len(dates))
		for _, d := range dates {
			gen := generationKeys(counsellorID, d)[1]
			p.Incr(ctx, gen)
			p.Expire(ctx, gen, generationTTL)
			keys = append(keys, dateKey(counsellorID, d))
		}
		p.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) InvalidateCounsellor(ctx context.Context, counsellorID uint) error {
	epoch := generationKeys(counsellorID, "")[0]
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, epoch)
		p.Expire(ctx, epoch, generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}

	iter := c.client.Scan(ctx, 0, counsellorPattern(counsellorID), 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("availability cache scan: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}
