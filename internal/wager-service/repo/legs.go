package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// LegStore lê legs autoritativas do mercado. O Postgres é a fonte de
// verdade; o Redis serve de cache de leitura alimentado pelo ingestor de
// odds. Erro de cache nunca bloqueia a leitura, só cai para o banco.
type LegStore struct {
	DB    *sql.DB
	Cache *redis.Client
	TTL   time.Duration
}

func NewLegStore(db *sql.DB, cache *redis.Client, ttl time.Duration) *LegStore {
	return &LegStore{DB: db, Cache: cache, TTL: ttl}
}

// legKey gera a chave Redis da leg corrente.
func legKey(id string) string { return "leg:current:" + id }

// GetLegsByIDs resolve as legs por id. Ids inexistentes simplesmente não
// aparecem no mapa; quem decide o que fazer com leg ausente é o verificador.
func (s *LegStore) GetLegsByIDs(ctx context.Context, ids []string) (map[string]domain.Leg, error) {
	out := make(map[string]domain.Leg, len(ids))

	missing := ids
	if s.Cache != nil {
		missing = s.fromCache(ctx, ids, out)
	}
	if len(missing) == 0 {
		return out, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, sport, competition, home_team, away_team, kickoff_at, market, side, price, COALESCE(memo, '')
		FROM market_legs
		WHERE id = ANY($1)`, pq.Array(missing))
	if err != nil {
		return nil, fmt.Errorf("query market legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Leg
		var price string
		if err := rows.Scan(&l.ID, &l.Sport, &l.Competition, &l.HomeTeam, &l.AwayTeam,
			&l.KickoffAt, &l.Market, &l.Side, &price, &l.Memo); err != nil {
			return nil, fmt.Errorf("scan market leg: %w", err)
		}
		if err := l.Price.Scan(price); err != nil {
			return nil, fmt.Errorf("parse leg price: %w", err)
		}
		out[l.ID] = l
		s.backfill(ctx, l)
	}
	return out, rows.Err()
}

// fromCache preenche out com o que o Redis tiver e retorna os ids que
// faltaram.
func (s *LegStore) fromCache(ctx context.Context, ids []string, out map[string]domain.Leg) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, legKey(id))
	}
	vals, err := s.Cache.MGet(ctx, keys...).Result()
	if err != nil {
		return ids
	}

	var missing []string
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var l domain.Leg
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		out[l.ID] = l
	}
	return missing
}

// backfill repovoa o cache após leitura do banco; melhor esforço.
func (s *LegStore) backfill(ctx context.Context, l domain.Leg) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(l)
	if err != nil {
		return
	}
	_ = s.Cache.Set(ctx, legKey(l.ID), b, s.TTL).Err()
}
