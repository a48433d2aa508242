package engine

import "github.com/radieske/sports-wager-engine/internal/wager-service/domain"

// State é o desfecho final de uma submissão de bilhete. Todo estado é
// terminal para aquela submissão; não há estado parcial visível.
type State string

const (
	StateCommitted State = "committed"
	StateStaleOdds State = "stale_odds"
	StateRejected  State = "rejected"
)

// ReasonCode classifica rejeições para que a UI reaja de forma distinta
// (reconfirmar odds vs parada dura).
type ReasonCode string

const (
	ReasonStaleOdds            ReasonCode = "STALE_ODDS"
	ReasonTamperedOdds         ReasonCode = "TAMPERED_ODDS"
	ReasonForbiddenCombination ReasonCode = "FORBIDDEN_COMBINATION"
	ReasonLimitExceeded        ReasonCode = "LIMIT_EXCEEDED"
	ReasonExposureExceeded     ReasonCode = "EXPOSURE_EXCEEDED"
	ReasonInsufficientBalance  ReasonCode = "INSUFFICIENT_BALANCE"
	ReasonCommitFailed         ReasonCode = "COMMIT_FAILED"
)

// Receipt é o resultado de uma submissão: exatamente um dos três estados.
//   - StateCommitted: WagerID, PayoutCents e BalanceCents preenchidos.
//   - StateStaleOdds: UpdatedLegs carrega exatamente as legs cuja odd
//     mudou, com o valor autoritativo atual, para reconfirmação.
//   - StateRejected: Code e Message explicam a rejeição.
type Receipt struct {
	State        State
	WagerID      string
	PayoutCents  int64
	BalanceCents int64
	UpdatedLegs  []domain.Leg
	Code         ReasonCode
	Message      string
}

func committed(wagerID string, payoutCents, balanceCents int64) *Receipt {
	return &Receipt{
		State:        StateCommitted,
		WagerID:      wagerID,
		PayoutCents:  payoutCents,
		BalanceCents: balanceCents,
	}
}

func staleOdds(legs []domain.Leg) *Receipt {
	return &Receipt{State: StateStaleOdds, Code: ReasonStaleOdds, UpdatedLegs: legs}
}

func rejected(code ReasonCode, msg string) *Receipt {
	return &Receipt{State: StateRejected, Code: code, Message: msg}
}
