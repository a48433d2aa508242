package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptySlip       = errors.New("slip has no legs")
	ErrInvalidStake    = errors.New("stake must be positive")
	ErrInvalidCategory = errors.New("unknown bet category")
)

// SlipLeg é uma leg como o cliente a enviou: id + odd que ele viu.
type SlipLeg struct {
	LegID string
	Price decimal.Decimal
}

// Slip é o bilhete proposto pelo cliente. Efêmero: existe apenas durante
// uma passada de validação, nunca é persistido como está.
type Slip struct {
	UserID     string
	Category   Category
	Legs       []SlipLeg
	StakeCents int64
	TotalPrice decimal.Decimal // produto das odds declarado pelo cliente, 2 casas
}

// Validate cobre apenas a forma do bilhete; a validação de conteúdo
// (odds, combinações, limites) é responsabilidade dos estágios do motor.
func (s *Slip) Validate() error {
	if len(s.Legs) == 0 {
		return ErrEmptySlip
	}
	if s.StakeCents <= 0 {
		return ErrInvalidStake
	}
	if !KnownCategory(s.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// LegIDs retorna os ids das legs na ordem do bilhete.
func (s *Slip) LegIDs() []string {
	ids := make([]string, 0, len(s.Legs))
	for _, l := range s.Legs {
		ids = append(ids, l.LegID)
	}
	return ids
}
