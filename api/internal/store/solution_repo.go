package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
)

// ErrNotFound matches both solver.ErrCacheMiss and sql.ErrNoRows.
var ErrNotFound = fmt.Errorf("%w: %w", solver.ErrCacheMiss, sql.ErrNoRows)

type SolutionRepo struct {
	DB      *sql.DB
	Dialect string
}

func NewSolutionRepo(db *sql.DB, dialect string) *SolutionRepo {
	return &SolutionRepo{DB: db, Dialect: dialect}
}

func (r *SolutionRepo) EnsureSchema(ctx context.Context) error {
	return Migrate(ctx, r.DB, r.Dialect)
}

// Find возвращает решение для (problemHash, engine, model).
// Если maxAge > 0 и запись старше — ErrNotFound, чтобы решить заново.
func (r *SolutionRepo) Find(ctx context.Context, problemHash, engine, model string, maxAge time.Duration) (types.Solution, error) {
	const q = `select solution_json, created_unix
	           from solutions_cache
	           where problem_hash=$1 and engine=$2 and model=$3`
	var (
		js []byte
		ts int64
	)
	if err := r.DB.QueryRowContext(ctx, q, problemHash, engine, model).Scan(&js, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Solution{}, ErrNotFound
		}
		return types.Solution{}, err
	}
	if maxAge > 0 && time.Since(time.Unix(ts, 0)) > maxAge {
		return types.Solution{}, ErrNotFound
	}
	sol, err := types.ParseSolution(string(js))
	if err != nil {
		// битый кэш считаем отсутствующим
		return types.Solution{}, ErrNotFound
	}
	return sol, nil
}

// Upsert сохраняет решение; PK: (problem_hash, engine, model).
func (r *SolutionRepo) Upsert(ctx context.Context, problemHash, engine, model string, lang types.Language, sol types.Solution) error {
	js, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	const q = `
insert into solutions_cache(problem_hash, engine, model, lang, solution_json, created_unix)
values ($1,$2,$3,$4,$5,$6)
on conflict (problem_hash, engine, model)
do update set lang=excluded.lang, solution_json=excluded.solution_json, created_unix=excluded.created_unix`
	_, err = r.DB.ExecContext(ctx, q, problemHash, engine, model, string(lang), string(js), time.Now().Unix())
	return err
}

// Purge drops entries older than maxAge and reports how many went.
func (r *SolutionRepo) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	const q = `delete from solutions_cache where created_unix < $1`
	res, err := r.DB.ExecContext(ctx, q, time.Now().Add(-maxAge).Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
