package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type analyticsHandler struct {
	responder Responder
	logger    zerolog.Logger
	analytics *services.AnalyticsService
}

func newAnalyticsHandler(analytics *services.AnalyticsService) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		analytics: analytics,
	}
}

// recordEvent appends one analytics event
// @Summary Track event
// @Description Pages call this without waiting on it; nothing is checked against projects or posts.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param event body services.EventInput true "Event"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse "Unknown event type"
// @Failure 500 {object} ErrorResponse
// @Router /analytics [post]
func (h analyticsHandler) recordEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.EventInput
		if err := decodeRequiredJSON(w, r, "analytics event", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		event, err := h.analytics.Record(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, CreatedResponse{Status: "ok", ID: event.ID.String()})
	}
}

// getSummary aggregates the events of the last ?days days (30 when missing or invalid)
// @Summary Analytics summary
// @Tags Analytics
// @Produce json
// @Param days query int false "Lookback window in days" default(30)
// @Success 200 {object} services.AnalyticsSummary
// @Failure 500 {object} ErrorResponse
// @Router /analytics [get]
func (h analyticsHandler) getSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := h.analytics.Summary(r.Context(), parseDays(r.URL.Query().Get("days")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, summary)
	}
}

func parseDays(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return services.DefaultAnalyticsDays
	}
	return days
}
