package dto

import "github.com/shopspring/decimal"

type UpdatedLeg struct {
	LegID string          `json:"leg_id"`
	Price decimal.Decimal `json:"price"` // odd autoritativa atual
}

type PlaceWagerResponse struct {
	Status       string       `json:"status"` // committed | stale_odds | rejected
	WagerID      string       `json:"wagerId,omitempty"`
	PayoutCents  int64        `json:"payout_cents,omitempty"`
	BalanceCents *int64       `json:"balance_cents,omitempty"`
	Code         string       `json:"code,omitempty"`
	Message      string       `json:"message,omitempty"`
	UpdatedLegs  []UpdatedLeg `json:"updated_legs,omitempty"`
}

type WagerStatusResponse struct {
	WagerID string `json:"wagerId"`
	Status  string `json:"status"`
}
