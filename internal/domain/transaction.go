package domain

// Transaction models a transaction node in the graph.
type Transaction struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     float64
	IP         string
	DeviceID   string
}

// TransactionWithParties is a transaction joined with its resolved sender and
// receiver. Either party may be nil when the flow edges were never created.
type TransactionWithParties struct {
	Transaction Transaction
	Sender      *User
	Receiver    *User
}
