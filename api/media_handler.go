package api

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     *services.MediaStore
	tracker   *services.Tracker
}

func newMediaHandler(media *services.MediaStore, tracker *services.Tracker) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
		tracker:   tracker,
	}
}

// uploadMedia stores an image or PDF and returns its public URL
// @Summary Upload media
// @Description Returns the URL to use as a project/post cover image or gallery entry.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or PDF"
// @Success 201 {object} services.UploadedMedia
// @Failure 400 {object} ErrorResponse "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 503 {object} ErrorResponse "Storage not configured"
// @Router /admin/uploads [post]
func (h mediaHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxErr.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			if byExt := mime.TypeByExtension(path.Ext(header.Filename)); byExt != "" {
				contentType = byExt
			}
		}

		uploaded, err := h.media.Upload(r.Context(), header.Filename, contentType, file, header.Size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("key", uploaded.Key).Int64("size", header.Size).Msg("Media uploaded")
		h.responder.WriteJSONStatus(w, http.StatusCreated, uploaded)
	}
}

// downloadResume redirects to a short-lived resume link and records a resume_download event
// @Summary Download resume
// @Tags Public
// @Success 302
// @Failure 503 {object} ErrorResponse "Storage not configured"
// @Router /resume [get]
func (h mediaHandler) downloadResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := h.media.ResumeURL(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.tracker.Track(services.EventInput{
			Type: models.EventResumeDownload,
			Page: r.URL.Query().Get("from"),
		})
		http.Redirect(w, r, url, http.StatusFound)
	}
}
