package domain

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Donation, error)
	Create(ctx context.Context, donation *Donation) error
}
