package handler

import (
	"context"
	"net/http"

	"github.com/gocab/gocab/internal/adapter/http/handler/dto"
	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/validator"
)

type GeoService interface {
	GetCoordinates(ctx context.Context, address string) (models.Coordinates, error)
	GetDistanceDuration(ctx context.Context, pickup, destination string) (models.DistanceDuration, error)
	GetSuggestions(ctx context.Context, input string) ([]models.Suggestion, error)
}

// Maps is a thin passthrough over the geo provider.
type Maps struct {
	geo GeoService
	log logger.Logger
}

func NewMaps(geo GeoService, log logger.Logger) *Maps {
	return &Maps{
		geo: geo,
		log: log,
	}
}

func (h *Maps) GetCoordinates(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_coordinates")

	q := dto.AddressQuery{Address: r.URL.Query().Get("address")}

	v := validator.New()
	if q.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	coords, err := h.geo.GetCoordinates(ctx, q.Address)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to geocode address", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"coordinates": coords}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

func (h *Maps) GetDistanceTime(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_distance_time")

	q := dto.RouteQuery{
		Pickup:      r.URL.Query().Get("pickup"),
		Destination: r.URL.Query().Get("destination"),
	}

	v := validator.New()
	if q.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	dd, err := h.geo.GetDistanceDuration(ctx, q.Pickup, q.Destination)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to get distance and time", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"distance_time": dd}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

func (h *Maps) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_suggestions")

	q := dto.SuggestionsQuery{Input: r.URL.Query().Get("input")}

	v := validator.New()
	if q.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	suggestions, err := h.geo.GetSuggestions(ctx, q.Input)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to get suggestions", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"suggestions": suggestions}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}
