package catalog

import (
	"context"
	"errors"

	"github.com/sanket-jethava/saleor/domain"
)

var ErrCheckoutNotFound = errors.New("checkout not found")

// CheckoutRepository reads the checkout and catalog state the serializer
// consumes. The serializer never writes back; upserts exist for ingestion.
type CheckoutRepository interface {
	GetCheckout(ctx context.Context, checkoutID string) (*domain.Checkout, error)
	GetCheckoutLines(ctx context.Context, checkoutID string) ([]domain.CheckoutLineInfo, error)
	UpsertCheckout(ctx context.Context, checkout *domain.Checkout, lines []domain.CheckoutLineInfo) error
}
