package domain

// User aggregates the canonical user node data.
type User struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Address        string
	PaymentMethods []string
}
