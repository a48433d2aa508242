package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// WagerStore lê apostas persistidas: consulta de exposição (apostas
// abertas por classe de equivalência) e consulta de status.
type WagerStore struct {
	DB *sql.DB
}

func NewWagerStore(db *sql.DB) *WagerStore { return &WagerStore{DB: db} }

// OpenWagersByAnchorKeys retorna as apostas abertas do usuário que têm
// alguma leg nas classes dadas. A junção é feita por usuário/status no
// banco e o filtro de classe em memória, já que a chave é composta.
func (s *WagerStore) OpenWagersByAnchorKeys(ctx context.Context, userID string, keys []domain.AnchorKey) ([]domain.Wager, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT w.id, w.category, w.stake_cents, w.payout_cents, w.status, w.placed_at,
		       l.sport, l.competition, l.home_team, l.away_team, l.kickoff_at, l.market, l.side, l.price
		FROM wagers w
		JOIN wager_legs l ON l.wager_id = w.id
		WHERE w.user_id = $1 AND w.status = 'open'
		ORDER BY w.placed_at, l.seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query open wagers: %w", err)
	}
	defer rows.Close()

	byID := map[string]*domain.Wager{}
	var order []string
	for rows.Next() {
		var id, category, status, price string
		var stake, payout int64
		var leg domain.WagerLeg
		var w domain.Wager
		if err := rows.Scan(&id, &category, &stake, &payout, &status, &w.PlacedAt,
			&leg.Sport, &leg.Competition, &leg.HomeTeam, &leg.AwayTeam,
			&leg.KickoffAt, &leg.Market, &leg.Side, &price); err != nil {
			return nil, fmt.Errorf("scan open wager: %w", err)
		}
		if err := leg.Price.Scan(price); err != nil {
			return nil, fmt.Errorf("parse wager leg price: %w", err)
		}
		if _, ok := byID[id]; !ok {
			w.ID = id
			w.UserID = userID
			w.Category = domain.Category(category)
			w.StakeCents = stake
			w.PayoutCents = payout
			w.Status = status
			byID[id] = &w
			order = append(order, id)
		}
		byID[id].Legs = append(byID[id].Legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	keySet := make(map[domain.AnchorKey]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	var out []domain.Wager
	for _, id := range order {
		if byID[id].MatchesAnyKey(keySet) {
			out = append(out, *byID[id])
		}
	}
	return out, nil
}

// GetStatus retorna o status atual de uma aposta.
func (s *WagerStore) GetStatus(ctx context.Context, wagerID string) (string, error) {
	var st string
	err := s.DB.QueryRowContext(ctx, `SELECT status FROM wagers WHERE id=$1`, wagerID).Scan(&st)
	return st, err
}
