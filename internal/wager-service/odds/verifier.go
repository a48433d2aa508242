package odds

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// Verdict é o desfecho da verificação de integridade de odds.
type Verdict int

const (
	// VerdictOK: todas as odds conferem com a fonte autoritativa.
	VerdictOK Verdict = iota
	// VerdictStale: alguma odd mudou desde que o cliente montou o bilhete;
	// recuperável, o cliente pode reconfirmar com as legs atualizadas.
	VerdictStale
	// VerdictTampered: inconsistência que mudança legítima de odd não
	// explica (leg inexistente, odd malformada, total adulterado).
	VerdictTampered
)

// Result carrega o veredito e, no caso stale, exatamente as legs cujo
// preço divergiu, já com o valor autoritativo.
type Result struct {
	Verdict   Verdict
	StaleLegs []domain.Leg
	Reason    string
}

// Verifier recomputa o multiplicador do bilhete a partir das odds
// autoritativas e compara com o que o cliente declarou. Puro: nenhum
// I/O, a busca das legs é responsabilidade do chamador.
type Verifier struct {
	// Bonus mapeia quantidade de legs → multiplicador promocional de
	// parlay. Ausência de entrada = sem bônus (1.0).
	Bonus map[int]decimal.Decimal
}

func NewVerifier(bonus map[int]decimal.Decimal) *Verifier {
	return &Verifier{Bonus: bonus}
}

// bonusFor retorna o multiplicador aplicável ao tamanho do bilhete.
func (v *Verifier) bonusFor(legCount int) decimal.Decimal {
	if b, ok := v.Bonus[legCount]; ok && b.IsPositive() {
		return b
	}
	return decimal.NewFromInt(1)
}

// Verify compara cada odd enviada com a autoritativa e o total declarado
// com o produto recomputado (2 casas, half-up, com bônus aplicável).
// Legs não resolvidas ou com odd autoritativa <= 1.0 são rejeição dura,
// nunca aceitas nem silenciosamente ignoradas.
func (v *Verifier) Verify(slip *domain.Slip, authoritative map[string]domain.Leg) Result {
	var stale []domain.Leg
	prices := make([]decimal.Decimal, 0, len(slip.Legs))

	for _, sl := range slip.Legs {
		leg, ok := authoritative[sl.LegID]
		if !ok {
			return Result{
				Verdict: VerdictTampered,
				Reason:  fmt.Sprintf("leg %s does not exist in the market store", sl.LegID),
			}
		}
		if !leg.Price.GreaterThan(domain.MinPrice) {
			return Result{
				Verdict: VerdictTampered,
				Reason:  fmt.Sprintf("leg %s has malformed authoritative price %s", sl.LegID, leg.Price),
			}
		}
		prices = append(prices, leg.Price)
		if !leg.Price.Equal(sl.Price) {
			stale = append(stale, leg)
		}
	}

	if len(stale) > 0 {
		return Result{Verdict: VerdictStale, StaleLegs: stale}
	}

	want := domain.TotalPrice(prices, v.bonusFor(len(slip.Legs)))
	got := domain.RoundPrice(slip.TotalPrice)
	if !want.Equal(got) {
		return Result{
			Verdict: VerdictTampered,
			Reason:  fmt.Sprintf("submitted total price %s does not match recomputed %s", got, want),
		}
	}

	return Result{Verdict: VerdictOK}
}
