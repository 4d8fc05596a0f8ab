// Package server exposes the HTTP surface that triggers checkout-line
// serialization and hands the resulting payload to the outbox.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sanket-jethava/saleor/domain"
	"github.com/sanket-jethava/saleor/internal/catalog"
	"github.com/sanket-jethava/saleor/internal/repository"
	"github.com/sanket-jethava/saleor/internal/serializer"
)

// LinesSerializer is the serialization core as the HTTP layer sees it.
type LinesSerializer interface {
	SerializeWithTaxes(ctx context.Context, checkoutInfo domain.CheckoutInfo, lines []domain.CheckoutLineInfo, discounts []domain.DiscountInfo) ([]domain.TaxedLinePayload, error)
	SerializeWithoutTaxes(ctx context.Context, checkout domain.Checkout, lines []domain.CheckoutLineInfo, useGrossAsBase bool) ([]domain.UntaxedLinePayload, error)
}

// OutboxWriter is the slice of the outbox repository the handler needs.
type OutboxWriter interface {
	InsertEvent(ctx context.Context, aggregateID, eventType string, payload []byte) error
}

type EventsHandler struct {
	catalog    catalog.CheckoutRepository
	serializer LinesSerializer
	outbox     OutboxWriter
	discounts  serializer.DiscountProvider
	timeout    time.Duration
}

func NewEventsHandler(
	catalogRepo catalog.CheckoutRepository,
	lines LinesSerializer,
	outbox OutboxWriter,
	discounts serializer.DiscountProvider,
	timeout time.Duration,
) *EventsHandler {
	return &EventsHandler{
		catalog:    catalogRepo,
		serializer: lines,
		outbox:     outbox,
		discounts:  discounts,
		timeout:    timeout,
	}
}

func NewRouter(h *EventsHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/checkouts/{checkoutID}/events", func(r chi.Router) {
		r.Post("/taxed", h.PublishTaxedLines)
		r.Post("/untaxed", h.PublishUntaxedLines)
	})

	return r
}

type UntaxedRequestDTO struct {
	UseGrossAsBase bool `json:"use_gross_as_base"`
}

// POST /api/v1/checkouts/{checkoutID}/events/taxed
func (h *EventsHandler) PublishTaxedLines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checkout, lines, ok := h.loadCheckout(ctx, w, r)
	if !ok {
		return
	}

	discounts, err := h.discounts.CurrentDiscounts(ctx)
	if err != nil {
		log.Printf("failed to fetch discounts for checkout %s: %v", checkout.ID, err)
		respondError(w, http.StatusBadGateway, "discounts_unavailable", err.Error())
		return
	}

	checkoutInfo := domain.CheckoutInfo{Checkout: *checkout, Channel: checkout.Channel}
	payload, err := h.serializer.SerializeWithTaxes(ctx, checkoutInfo, lines, discounts)
	if err != nil {
		log.Printf("failed to serialize checkout %s: %v", checkout.ID, err)
		respondError(w, http.StatusBadGateway, "serialization_failed", err.Error())
		return
	}

	h.enqueueAndRespond(ctx, w, checkout.ID, repository.EventCheckoutLinesSerialized, payload)
}

// POST /api/v1/checkouts/{checkoutID}/events/untaxed
func (h *EventsHandler) PublishUntaxedLines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UntaxedRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	checkout, lines, ok := h.loadCheckout(ctx, w, r)
	if !ok {
		return
	}

	payload, err := h.serializer.SerializeWithoutTaxes(ctx, *checkout, lines, req.UseGrossAsBase)
	if err != nil {
		log.Printf("failed to serialize checkout %s: %v", checkout.ID, err)
		respondError(w, http.StatusBadGateway, "serialization_failed", err.Error())
		return
	}

	h.enqueueAndRespond(ctx, w, checkout.ID, repository.EventCheckoutLinesBase, payload)
}

func (h *EventsHandler) loadCheckout(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Checkout, []domain.CheckoutLineInfo, bool) {
	checkoutID := chi.URLParam(r, "checkoutID")
	if _, err := uuid.Parse(checkoutID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_checkout_id", "checkout id must be a UUID")
		return nil, nil, false
	}

	checkout, err := h.catalog.GetCheckout(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, catalog.ErrCheckoutNotFound) {
			respondError(w, http.StatusNotFound, "checkout_not_found", checkoutID)
			return nil, nil, false
		}
		log.Printf("failed to load checkout %s: %v", checkoutID, err)
		respondError(w, http.StatusInternalServerError, "catalog_error", err.Error())
		return nil, nil, false
	}

	lines, err := h.catalog.GetCheckoutLines(ctx, checkoutID)
	if err != nil {
		log.Printf("failed to load lines of checkout %s: %v", checkoutID, err)
		respondError(w, http.StatusInternalServerError, "catalog_error", err.Error())
		return nil, nil, false
	}

	return checkout, lines, true
}

func (h *EventsHandler) enqueueAndRespond(ctx context.Context, w http.ResponseWriter, checkoutID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal payload for checkout %s: %v", checkoutID, err)
		respondError(w, http.StatusInternalServerError, "marshal_failed", err.Error())
		return
	}

	if err := h.outbox.InsertEvent(ctx, checkoutID, eventType, raw); err != nil {
		log.Printf("failed to enqueue event for checkout %s: %v", checkoutID, err)
		respondError(w, http.StatusInternalServerError, "outbox_error", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, payload)
}
