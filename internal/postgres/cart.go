// Package postgres provides database-backed implementations of the
// repository interfaces.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/domain"
)

// CartRepository persists cart state as one JSONB document per
// namespace. The document uses the same shape as the file backend, so
// carts survive a switch between the two.
type CartRepository struct {
	pool *pgxpool.Pool
}

// Compile-time check that CartRepository implements cart.Repository.
var _ cart.Repository = (*CartRepository)(nil)

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Load(ctx context.Context, namespace string) (*domain.CartState, error) {
	const op = "postgres.CartRepository.Load"

	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT state FROM cart_states WHERE namespace = $1`,
		namespace,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.Error{
				Code:    domain.ENOTFOUND,
				Message: "No saved cart state",
				Op:      op,
			}
		}
		return nil, domain.Internal(err, op, "failed to query cart state")
	}

	state, err := cart.DecodeState(data)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode cart state")
	}
	return state, nil
}

func (r *CartRepository) Save(ctx context.Context, namespace string, state *domain.CartState) error {
	const op = "postgres.CartRepository.Save"

	data, err := cart.EncodeState(state)
	if err != nil {
		return domain.Internal(err, op, "failed to encode cart state")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO cart_states (namespace, state, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (namespace) DO UPDATE SET state = $2, updated_at = now()`,
		namespace, data,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to upsert cart state")
	}
	return nil
}
