package domain

import "github.com/shopspring/decimal"

// Bounds são os tetos de uma célula (categoria × quantidade de legs) da
// tabela de limites do tier. Os campos Max* de parlay só se aplicam à
// célula multi; os tetos Group* alimentam o guard de exposição agregada.
type Bounds struct {
	MinStakeCents  int64
	MaxStakeCents  int64
	MaxPayoutCents int64

	MaxLegs       int             // multi apenas
	MaxTotalPrice decimal.Decimal // multi apenas; zero = sem teto do tier

	GroupMaxStakeCents  int64
	GroupMaxPayoutCents int64
}

// TierLimits é a tabela de limites do tier do usuário: limites distintos
// para bilhete simples (1 leg) e múltiplo, por categoria de aposta.
type TierLimits struct {
	Single map[Category]Bounds
	Multi  map[Category]Bounds
}

// SingleBounds retorna a célula simples da categoria.
func (t TierLimits) SingleBounds(c Category) (Bounds, bool) {
	b, ok := t.Single[c]
	return b, ok
}

// MultiBounds retorna a célula múltipla da categoria.
func (t TierLimits) MultiBounds(c Category) (Bounds, bool) {
	b, ok := t.Multi[c]
	return b, ok
}

// User é o registro do apostador visto pelo motor: saldo, tier e flags
// de bloqueio. O saldo é o único estado mutável disputado deste subsistema
// e só é debitado dentro da transação de liquidação.
type User struct {
	ID            string
	BalanceCents  int64
	Tier          TierLimits
	SingleBlocked map[Category]bool // bloqueio de aposta simples por categoria
	TwoLegBlocked bool              // bloqueio específico de bilhetes com exatamente 2 legs
	NonDebiting   bool              // conta demo: aposta criada sem débito
}
