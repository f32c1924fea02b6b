package domain

import "context"

type Repository interface {
	Create(ctx context.Context, suggestion *Suggestion) error
}
