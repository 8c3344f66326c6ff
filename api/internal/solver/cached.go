package solver

import (
	"context"
	"errors"
	"log"
	"time"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"
)

// ErrCacheMiss is what a Cache returns when it has nothing usable for the key.
var ErrCacheMiss = errors.New("solution cache miss")

type Cache interface {
	Find(ctx context.Context, key, engine, model string, maxAge time.Duration) (types.Solution, error)
	Upsert(ctx context.Context, key, engine, model string, lang types.Language, sol types.Solution) error
}

// Cached wraps an engine with a solution cache keyed by the problem hash.
// Cache failures are logged and never fail the solve.
type Cached struct {
	Next   Engine
	Cache  Cache
	MaxAge time.Duration
}

func NewCached(next Engine, cache Cache, maxAge time.Duration) *Cached {
	return &Cached{Next: next, Cache: cache, MaxAge: maxAge}
}

func (c *Cached) Name() string     { return c.Next.Name() }
func (c *Cached) GetModel() string { return c.Next.GetModel() }

func (c *Cached) Solve(ctx context.Context, in Request) (types.Solution, error) {
	key, err := Key(in)
	if err != nil {
		// битое изображение: кэш не строим, пусть движок сам вернёт ошибку
		return c.Next.Solve(ctx, in)
	}

	sol, err := c.Cache.Find(ctx, key, c.Next.Name(), c.Next.GetModel(), c.MaxAge)
	if err == nil {
		if verr := sol.Validate(); verr == nil {
			log.Printf("solver: cache hit %s (%s/%s)", key[:12], c.Next.Name(), c.Next.GetModel())
			return sol, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Printf("solver: cache find: %v", err)
	}

	sol, err = c.Next.Solve(ctx, in)
	if err != nil {
		return types.Solution{}, err
	}
	if err := c.Cache.Upsert(ctx, key, c.Next.Name(), c.Next.GetModel(), in.Lang, sol); err != nil {
		log.Printf("solver: cache upsert: %v", err)
	}
	return sol, nil
}

// Key hashes language, text and decoded image bytes.
func Key(in Request) (string, error) {
	var img []byte
	if in.Image != "" {
		b, _, err := util.DecodeBase64MaybeDataURL(in.Image)
		if err != nil {
			return "", err
		}
		img = b
	}
	return util.ProblemHash(string(in.Lang), in.Text, img), nil
}
