package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de ciclo de vida de uma aposta persistida. Este motor só escreve
// "open"; as transições seguintes pertencem ao liquidador de resultados.
const (
	StatusOpen      = "open"
	StatusWon       = "won"
	StatusLost      = "lost"
	StatusVoid      = "void"
	StatusCancelled = "cancelled"
)

// WagerLeg é o snapshot imutável de uma leg no momento da aceitação
// (odd congelada).
type WagerLeg struct {
	Sport       Sport
	Competition string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Market      MarketKind
	Side        Side
	Price       decimal.Decimal
}

// Wager é a aposta persistida, imutável após a criação.
type Wager struct {
	ID          string
	UserID      string
	Category    Category
	StakeCents  int64
	PayoutCents int64
	TotalPrice  decimal.Decimal
	Status      string
	Legs        []WagerLeg
	PlacedAt    time.Time
}

func (w WagerLeg) EventKey() EventKey {
	return EventKey{
		Competition: w.Competition,
		KickoffAt:   w.KickoffAt.UTC(),
		HomeTeam:    w.HomeTeam,
		AwayTeam:    w.AwayTeam,
	}
}

func (w WagerLeg) AnchorKey() AnchorKey {
	return AnchorKey{Event: w.EventKey(), Market: w.Market, Side: w.Side}
}

// MatchesAnyKey indica se alguma leg da aposta cai em uma das classes de
// equivalência dadas.
func (w Wager) MatchesAnyKey(keys map[AnchorKey]bool) bool {
	for _, l := range w.Legs {
		if keys[l.AnchorKey()] {
			return true
		}
	}
	return false
}
