package exposure

import (
	"fmt"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// Violation descreve o grupo de exposição que estourou contagem ou teto
// agregado.
type Violation struct {
	Key       domain.AnchorKey
	Limit     string
	Threshold int64
	Message   string
}

// Guard impede que o usuário contorne os tetos por bilhete fatiando uma
// aposta grande em vários bilhetes menores sobre o mesmo resultado
// ("aposta âncora"). Somente leitura: nenhuma mutação.
type Guard struct {
	// MaxAnchorCount é o máximo de apostas abertas distintas sobre a
	// mesma classe (evento, mercado, seleção).
	MaxAnchorCount int
}

func NewGuard(maxAnchorCount int) *Guard {
	return &Guard{MaxAnchorCount: maxAnchorCount}
}

// Check agrupa as apostas abertas do usuário pelas classes de equivalência
// das legs do bilhete e valida, por grupo, a contagem e os agregados
// hipotéticos de stake e payout (soma existente + contribuição deste
// bilhete). Os tetos de grupo vêm da célula do tier correspondente à forma
// do bilhete ATUAL (simples vs múltiplo). Limites agregados são inclusivos:
// igual ao teto passa.
func (g *Guard) Check(slipLegs []domain.Leg, stakeCents, payoutCents int64, open []domain.Wager, bounds domain.Bounds) *Violation {
	for _, sl := range slipLegs {
		key := sl.AnchorKey()

		var count int
		var groupStake, groupPayout int64
		for _, w := range open {
			if w.Status != domain.StatusOpen {
				continue
			}
			if !w.MatchesAnyKey(map[domain.AnchorKey]bool{key: true}) {
				continue
			}
			count++
			groupStake += w.StakeCents
			groupPayout += w.PayoutCents
		}

		if g.MaxAnchorCount > 0 && count >= g.MaxAnchorCount {
			return &Violation{
				Key:       key,
				Limit:     "anchor_count",
				Threshold: int64(g.MaxAnchorCount),
				Message:   fmt.Sprintf("already %d open wagers on %s %s/%s", count, key.Event.Competition, key.Market, key.Side),
			}
		}

		if bounds.GroupMaxStakeCents > 0 && groupStake+stakeCents > bounds.GroupMaxStakeCents {
			return &Violation{
				Key:       key,
				Limit:     "group_max_stake",
				Threshold: bounds.GroupMaxStakeCents,
				Message:   fmt.Sprintf("aggregate stake on %s %s/%s would exceed %d", key.Event.Competition, key.Market, key.Side, bounds.GroupMaxStakeCents),
			}
		}
		if bounds.GroupMaxPayoutCents > 0 && groupPayout+payoutCents > bounds.GroupMaxPayoutCents {
			return &Violation{
				Key:       key,
				Limit:     "group_max_payout",
				Threshold: bounds.GroupMaxPayoutCents,
				Message:   fmt.Sprintf("aggregate payout on %s %s/%s would exceed %d", key.Event.Competition, key.Market, key.Side, bounds.GroupMaxPayoutCents),
			}
		}
	}
	return nil
}
