package events

// Evento publicado no tópico "wager_placed" após a efetivação de um
// bilhete. Consumido por sistemas promocionais e de notificação.
type WagerPlaced struct {
	WagerID     string `json:"wager_id"`
	UserID      string `json:"user_id"`
	Category    string `json:"category"`
	StakeCents  int64  `json:"stake_cents"`
	PayoutCents int64  `json:"payout_cents"`
	TotalPrice  string `json:"total_price"` // multiplicador final, 2 casas
	LegCount    int    `json:"leg_count"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
