package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   *services.ContactService
}

func newContactHandler(contact *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

// CreatedResponse acknowledges a stored contact message or analytics event
type CreatedResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty" example:"Message received"`
	ID      string `json:"id"`
}

type readFlagRequest struct {
	Read *bool `json:"read"`
}

// createContactMessage stores a message from the public contact form
// @Summary Send contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body services.ContactInput true "Contact form"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse "Missing fields or invalid email"
// @Failure 500 {object} ErrorResponse
// @Router /contact [post]
func (h contactHandler) createContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ContactInput
		if err := decodeRequiredJSON(w, r, "contact message", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg, err := h.contact.Create(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, CreatedResponse{
			Status:  "ok",
			Message: "Message received",
			ID:      msg.ID.String(),
		})
	}
}

// listContactMessages returns every message, newest first
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Success 200 {array} models.ContactMessage
// @Failure 401 {object} ErrorResponse
// @Router /contact [get]
func (h contactHandler) listContactMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.contact.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, messages)
	}
}

// updateContactMessage sets the read flag, or flips it when the body is empty.
// A JSON body without "read" leaves the message as it is.
// @Summary Mark message read/unread
// @Tags Contact
// @Accept json
// @Produce json
// @Param id path string true "Message ID" format(uuid)
// @Param body body readFlagRequest false "New read flag"
// @Success 200 {object} models.ContactMessage
// @Failure 404 {object} ErrorResponse "Message not found"
// @Router /contact/{id} [patch]
func (h contactHandler) updateContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.messageID(w, r)
		if !ok {
			return
		}

		var body readFlagRequest
		err := decodeJSON(w, r, "read flag", &body)
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			h.responder.WriteError(w, err)
			return
		case body.Read == nil:
			msg, err := h.contact.Get(r.Context(), id)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, msg)
			return
		}

		msg, err := h.contact.SetRead(r.Context(), id, body.Read)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, msg)
	}
}

// deleteContactMessage permanently removes a message
// @Summary Delete contact message
// @Tags Contact
// @Param id path string true "Message ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Message not found"
// @Router /contact/{id} [delete]
func (h contactHandler) deleteContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.messageID(w, r)
		if !ok {
			return
		}
		if err := h.contact.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, MessageResponse{Message: "Message deleted"})
	}
}

// messageID parses the {id} path parameter. An id that is not a UUID cannot
// match any message, so it is reported as not found.
func (h contactHandler) messageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.responder.WriteError(w, errs.NewNotFound("message"))
		return uuid.Nil, false
	}
	return id, true
}
