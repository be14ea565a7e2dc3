package service

import (
	"strings"

	"github.com/ananya/fraudlens/backend/internal/domain"
)

// UserInput is the inbound user payload accepted by the ingestion facade.
type UserInput struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Address        string
	PaymentMethods []string
}

// TransactionInput is the inbound transaction payload.
type TransactionInput struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     float64
	IP         string
	DeviceID   string
}

func (in UserInput) toDomain() domain.User {
	methods := make([]string, 0, len(in.PaymentMethods))
	for _, m := range in.PaymentMethods {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	return domain.User{
		ID:             strings.TrimSpace(in.ID),
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		PaymentMethods: methods,
	}
}

func (in TransactionInput) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:         strings.TrimSpace(in.ID),
		SenderID:   strings.TrimSpace(in.SenderID),
		ReceiverID: strings.TrimSpace(in.ReceiverID),
		Amount:     in.Amount,
		IP:         strings.TrimSpace(in.IP),
		DeviceID:   strings.TrimSpace(in.DeviceID),
	}
}
