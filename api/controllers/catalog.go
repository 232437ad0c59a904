package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/menuvivo/menuvivo-backend/api/responses"
	"github.com/menuvivo/menuvivo-backend/api/validators"
	"github.com/menuvivo/menuvivo-backend/internal/extras"
	"github.com/menuvivo/menuvivo-backend/pkg/checkout"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
	"github.com/menuvivo/menuvivo-backend/pkg/logger"
)

func productIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

type productExtrasResponse struct {
	Groups   []checkout.GroupedExtras `json:"groups"`
	Defaults checkout.Selection       `json:"defaults,omitempty"`
}

// ProductExtras returns the resolved extra groups for a menu item.
// Passing ?defaults=1 also composes the initial selection.
func ProductExtras(resolver extras.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "extras resolver unavailable"))
			return
		}

		productID, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := resolver.Resolve(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := productExtrasResponse{Groups: groups}
		if r.URL.Query().Get("defaults") == "1" {
			payload.Defaults = checkout.ComposeDefaults(groups)
		}
		responses.WriteSuccess(w, payload)
	}
}

type selectionRequest struct {
	Selection checkout.Selection `json:"selection"`
}

// ValidateProductSelection checks a customer's selection against the
// product's resolved groups. Violations come back in the payload, not
// as an HTTP error.
func ValidateProductSelection(resolver extras.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "extras resolver unavailable"))
			return
		}

		productID, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := resolver.Resolve(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkout.ValidateSelection(payload.Selection, groups))
	}
}

type quoteResponse struct {
	Validation checkout.ValidationResult `json:"validation"`
	Total      decimal.Decimal           `json:"total"`
	Items      []checkout.LineItem       `json:"items"`
}

// QuoteProductSelection prices a selection. The quote carries the
// validation outcome; total and line items are only computed for valid
// selections.
func QuoteProductSelection(resolver extras.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "extras resolver unavailable"))
			return
		}

		productID, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := resolver.Resolve(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote := quoteResponse{
			Validation: checkout.ValidateSelection(payload.Selection, groups),
			Total:      decimal.Zero,
			Items:      []checkout.LineItem{},
		}
		if quote.Validation.IsValid {
			quote.Total = checkout.Total(payload.Selection, groups)
			quote.Items = checkout.Expand(payload.Selection, groups)
		}
		responses.WriteSuccess(w, quote)
	}
}
