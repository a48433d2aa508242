package topics

const (
	// Wagers
	WagerPlaced = "wager_placed"

	// DLQs
	WagerPlacedDLQ = "wager_placed_dlq"
)
