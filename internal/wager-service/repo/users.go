package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
	"github.com/radieske/sports-wager-engine/internal/wager-service/settle"
)

// UserStore lê o apostador e a tabela de limites do seu tier.
type UserStore struct {
	DB *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{DB: db} }

// GetUser carrega saldo, flags e os limites do tier (linhas por
// categoria × forma do bilhete).
func (s *UserStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{
		ID:            id,
		SingleBlocked: map[domain.Category]bool{},
		Tier: domain.TierLimits{
			Single: map[domain.Category]domain.Bounds{},
			Multi:  map[domain.Category]domain.Bounds{},
		},
	}

	var tier string
	var blocked pq.StringArray
	err := s.DB.QueryRowContext(ctx, `
		SELECT balance_cents, tier, single_blocked_categories, two_leg_blocked, non_debiting
		FROM users WHERE id=$1`, id).
		Scan(&u.BalanceCents, &tier, &blocked, &u.TwoLegBlocked, &u.NonDebiting)
	if err == sql.ErrNoRows {
		return nil, settle.ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	for _, c := range blocked {
		u.SingleBlocked[domain.Category(c)] = true
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT category, shape, min_stake_cents, max_stake_cents, max_payout_cents,
		       max_legs, max_total_price, group_max_stake_cents, group_max_payout_cents
		FROM tier_limits WHERE tier=$1`, tier)
	if err != nil {
		return nil, fmt.Errorf("query tier limits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, shape, maxTotal string
		var b domain.Bounds
		if err := rows.Scan(&category, &shape, &b.MinStakeCents, &b.MaxStakeCents,
			&b.MaxPayoutCents, &b.MaxLegs, &maxTotal,
			&b.GroupMaxStakeCents, &b.GroupMaxPayoutCents); err != nil {
			return nil, fmt.Errorf("scan tier limits: %w", err)
		}
		if err := b.MaxTotalPrice.Scan(maxTotal); err != nil {
			return nil, fmt.Errorf("parse tier max total price: %w", err)
		}
		switch shape {
		case "single":
			u.Tier.Single[domain.Category(category)] = b
		case "multi":
			u.Tier.Multi[domain.Category(category)] = b
		}
	}
	return u, rows.Err()
}
