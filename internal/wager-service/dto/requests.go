package dto

import "github.com/shopspring/decimal"

type SlipLeg struct {
	LegID string          `json:"leg_id"`
	Price decimal.Decimal `json:"price"` // odd que o cliente viu
}

type PlaceWagerRequest struct {
	UserID     string          `json:"userId"`
	Category   string          `json:"category"` // "cross" | "live" | "special"
	Legs       []SlipLeg       `json:"legs"`
	StakeCents int64           `json:"stake_cents"`
	TotalPrice decimal.Decimal `json:"total_price"` // produto declarado, 2 casas
}
