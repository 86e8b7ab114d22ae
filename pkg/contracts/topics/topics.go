package topics

const (
	// Palpites
	PredictionPlaced   = "prediction_placed"
	PredictionResolved = "prediction_resolved"

	// Créditos
	CreditPurchaseRequested  = "credit_purchase_requested"
	CreditTransactionDecided = "credit_transaction_decided"

	// Partidas
	MatchFinished = "match_finished"

	// DLQs
	MatchFinishedDLQ = "match_finished_dlq"
)
