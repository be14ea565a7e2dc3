package generator

// Config drives the synthetic data generator.
type Config struct {
	NumUsers        int
	NumTransactions int
	// Share chances control how often a new entity reuses an attribute value
	// already handed out, which is what produces linkable clusters.
	EmailShareChance   float64
	PhoneShareChance   float64
	AddressShareChance float64
	PaymentShareChance float64
	IPShareChance      float64
	DeviceShareChance  float64
	Seed               int64
}

// DefaultConfig returns baseline settings producing a well-connected demo
// population. The counts are modest on purpose: every ingestion triggers a
// full relinking pass, so dataset size drives quadratic load.
func DefaultConfig() Config {
	return Config{
		NumUsers:           200,
		NumTransactions:    1000,
		EmailShareChance:   0.2,
		PhoneShareChance:   0.15,
		AddressShareChance: 0.15,
		PaymentShareChance: 0.1,
		IPShareChance:      0.25,
		DeviceShareChance:  0.3,
		Seed:               42,
	}
}
