package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sport identifica a modalidade do evento.
type Sport string

const (
	SportSoccer     Sport = "soccer"
	SportBasketball Sport = "basketball"
	SportBaseball   Sport = "baseball"
	SportVolleyball Sport = "volleyball"
	SportIceHockey  Sport = "icehockey"
)

// MarketKind identifica o tipo de mercado dentro de um evento.
type MarketKind string

const (
	MarketMatch     MarketKind = "match"     // 1X2 (resultado)
	MarketHandicap  MarketKind = "handicap"  // handicap asiático/europeu
	MarketUnderOver MarketKind = "underover" // total de pontos/gols
	MarketSpecial   MarketKind = "special"   // mercados especiais
)

// Side é a seleção dentro de um mercado.
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideTie   Side = "tie"
	SideUnder Side = "under"
	SideOver  Side = "over"
)

// Category é a categoria de aposta declarada no bilhete.
type Category string

const (
	CategoryCross   Category = "cross"
	CategoryLive    Category = "live"
	CategorySpecial Category = "special"
)

// KnownMarket indica se o tipo de mercado é reconhecido pelo motor.
func KnownMarket(m MarketKind) bool {
	switch m {
	case MarketMatch, MarketHandicap, MarketUnderOver, MarketSpecial:
		return true
	}
	return false
}

// KnownCategory indica se a categoria de aposta é reconhecida.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryCross, CategoryLive, CategorySpecial:
		return true
	}
	return false
}

// Leg é uma seleção apostável em um mercado de um evento.
// O preço (odd) é mutável ao longo do tempo e pertence ao ingestor de
// mercado: este motor apenas lê.
type Leg struct {
	ID          string
	Sport       Sport
	Competition string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Market      MarketKind
	Side        Side
	Price       decimal.Decimal // odd decimal, sempre > 1.0
	Memo        string
}

// EventKey identifica o evento subjacente de uma leg: mesmo campeonato,
// mesmo horário e mesmos participantes.
type EventKey struct {
	Competition string
	KickoffAt   time.Time
	HomeTeam    string
	AwayTeam    string
}

// AnchorKey identifica a classe de equivalência (evento, mercado, seleção)
// usada na agregação de exposição.
type AnchorKey struct {
	Event  EventKey
	Market MarketKind
	Side   Side
}

func (l Leg) EventKey() EventKey {
	return EventKey{
		Competition: l.Competition,
		KickoffAt:   l.KickoffAt.UTC(),
		HomeTeam:    l.HomeTeam,
		AwayTeam:    l.AwayTeam,
	}
}

func (l Leg) AnchorKey() AnchorKey {
	return AnchorKey{Event: l.EventKey(), Market: l.Market, Side: l.Side}
}
