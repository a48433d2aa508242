package limits

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// Violation nomeia o limite estourado e o valor do teto, para que o
// cliente exiba uma mensagem acionável.
type Violation struct {
	Limit     string
	Threshold decimal.Decimal
	Message   string
}

// GlobalPolicy são os tetos globais, independentes de tier.
type GlobalPolicy struct {
	MaxLegs       int
	MaxTotalPrice decimal.Decimal
	SingleEnabled map[domain.Category]bool // aposta simples habilitada por categoria
}

// Evaluator aplica os limites do tier do usuário e a política global a um
// bilhete já verificado. Puro e total: toda forma de bilhete tem desfecho
// definido.
type Evaluator struct {
	Global GlobalPolicy
}

func NewEvaluator(g GlobalPolicy) *Evaluator {
	return &Evaluator{Global: g}
}

// Evaluate decide os limites aplicáveis (célula simples ou múltipla do
// tier, mais tetos globais para múltiplas) e valida stake, payout e forma
// do bilhete. Retorna nil quando dentro dos limites.
func (e *Evaluator) Evaluate(legCount int, category domain.Category, stakeCents, payoutCents int64, totalPrice decimal.Decimal, user *domain.User) *Violation {
	if legCount == 1 {
		return e.evaluateSingle(category, stakeCents, payoutCents, user)
	}
	return e.evaluateMulti(legCount, category, stakeCents, payoutCents, totalPrice, user)
}

func (e *Evaluator) evaluateSingle(category domain.Category, stakeCents, payoutCents int64, user *domain.User) *Violation {
	if !e.Global.SingleEnabled[category] {
		return &Violation{
			Limit:   "single_disabled",
			Message: fmt.Sprintf("single-leg betting is disabled for category %s", category),
		}
	}
	if user.SingleBlocked[category] {
		return &Violation{
			Limit:   "single_blocked",
			Message: fmt.Sprintf("single-leg betting restricted for this account in category %s", category),
		}
	}
	b, ok := user.Tier.SingleBounds(category)
	if !ok {
		return &Violation{
			Limit:   "tier_missing",
			Message: fmt.Sprintf("tier carries no single-leg limits for category %s", category),
		}
	}
	return checkBounds(b, stakeCents, payoutCents)
}

func (e *Evaluator) evaluateMulti(legCount int, category domain.Category, stakeCents, payoutCents int64, totalPrice decimal.Decimal, user *domain.User) *Violation {
	// Bloqueio específico anti-arbitragem de bilhetes com exatamente 2 legs.
	if legCount == 2 && user.TwoLegBlocked {
		return &Violation{
			Limit:   "two_leg_blocked",
			Message: "two-leg slips are restricted for this account",
		}
	}
	if e.Global.MaxLegs > 0 && legCount > e.Global.MaxLegs {
		return &Violation{
			Limit:     "global_max_legs",
			Threshold: decimal.NewFromInt(int64(e.Global.MaxLegs)),
			Message:   fmt.Sprintf("slip has %d legs, global maximum is %d", legCount, e.Global.MaxLegs),
		}
	}
	if e.Global.MaxTotalPrice.IsPositive() && totalPrice.GreaterThan(e.Global.MaxTotalPrice) {
		return &Violation{
			Limit:     "global_max_total_price",
			Threshold: e.Global.MaxTotalPrice,
			Message:   fmt.Sprintf("total price %s exceeds global maximum %s", totalPrice, e.Global.MaxTotalPrice),
		}
	}

	b, ok := user.Tier.MultiBounds(category)
	if !ok {
		return &Violation{
			Limit:   "tier_missing",
			Message: fmt.Sprintf("tier carries no multi-leg limits for category %s", category),
		}
	}
	if b.MaxLegs > 0 && legCount > b.MaxLegs {
		return &Violation{
			Limit:     "max_legs",
			Threshold: decimal.NewFromInt(int64(b.MaxLegs)),
			Message:   fmt.Sprintf("slip has %d legs, tier maximum is %d", legCount, b.MaxLegs),
		}
	}
	if b.MaxTotalPrice.IsPositive() && totalPrice.GreaterThan(b.MaxTotalPrice) {
		return &Violation{
			Limit:     "max_total_price",
			Threshold: b.MaxTotalPrice,
			Message:   fmt.Sprintf("total price %s exceeds tier maximum %s", totalPrice, b.MaxTotalPrice),
		}
	}
	return checkBounds(b, stakeCents, payoutCents)
}

// checkBounds valida stake dentro de [min, max] inclusivo e payout até o
// teto da célula.
func checkBounds(b domain.Bounds, stakeCents, payoutCents int64) *Violation {
	if stakeCents < b.MinStakeCents {
		return &Violation{
			Limit:     "min_stake",
			Threshold: centsDec(b.MinStakeCents),
			Message:   fmt.Sprintf("stake below minimum of %d", b.MinStakeCents),
		}
	}
	if b.MaxStakeCents > 0 && stakeCents > b.MaxStakeCents {
		return &Violation{
			Limit:     "max_stake",
			Threshold: centsDec(b.MaxStakeCents),
			Message:   fmt.Sprintf("stake above maximum of %d", b.MaxStakeCents),
		}
	}
	if b.MaxPayoutCents > 0 && payoutCents > b.MaxPayoutCents {
		return &Violation{
			Limit:     "max_payout",
			Threshold: centsDec(b.MaxPayoutCents),
			Message:   fmt.Sprintf("potential payout above maximum of %d", b.MaxPayoutCents),
		}
	}
	return nil
}

func centsDec(c int64) decimal.Decimal {
	return decimal.NewFromInt(c)
}
