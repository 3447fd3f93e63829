package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"campusnest/internal/domain"
)

// Schools caches the domain -> school mapping. Schools never change after
// creation, so entries are only ever written, never invalidated. A nil KV
// store or any cache failure falls through to the loader.
type Schools struct {
	kv  KVStore
	ttl time.Duration
	log *slog.Logger
}

func NewSchools(kv KVStore, ttl time.Duration, log *slog.Logger) *Schools {
	if log == nil {
		log = slog.Default()
	}
	return &Schools{kv: kv, ttl: ttl, log: log}
}

func schoolKey(domainName string) string { return "school:domain:" + domainName }

// ByDomain returns the cached school for domainName, calling load on a miss
// and caching what it returns.
func (s *Schools) ByDomain(ctx context.Context, domainName string, load func(context.Context) (*domain.School, error)) (*domain.School, error) {
	if s == nil || s.kv == nil {
		return load(ctx)
	}

	key := schoolKey(domainName)
	raw, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		var school domain.School
		if jerr := json.Unmarshal([]byte(raw), &school); jerr == nil {
			return &school, nil
		}
		s.log.Warn("school cache: bad entry", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		s.log.Warn("school cache: get failed", "key", key, "err", err)
	}

	school, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if b, jerr := json.Marshal(school); jerr == nil {
		if serr := s.kv.Set(ctx, key, string(b), s.ttl); serr != nil {
			s.log.Warn("school cache: set failed", "key", key, "err", serr)
		}
	}
	return school, nil
}
