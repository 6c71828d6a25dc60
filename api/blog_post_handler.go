package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.BlogService
}

func newBlogPostHandler(blog *services.BlogService) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blog:      blog,
	}
}

// listBlogPosts returns published posts, most recently published first
// @Summary List blog posts
// @Tags Blog
// @Produce json
// @Param tag query string false "Only posts with this tag"
// @Success 200 {array} models.BlogPost
// @Failure 500 {array} models.BlogPost "Empty list"
// @Router /blog [get]
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blog.List(r.Context(), services.BlogFilter{Tag: r.URL.Query().Get("tag")})
		if err != nil {
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, posts)
			return
		}
		h.responder.WriteJSON(w, posts)
	}
}

// listAllBlogPosts returns every post including drafts
// @Router /admin/blog [get]
func (h blogPostHandler) listAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blog.List(r.Context(), services.BlogFilter{
			Tag:                r.URL.Query().Get("tag"),
			IncludeUnpublished: true,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, posts)
	}
}

// getBlogPost returns one post by slug
// @Summary Get blog post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Blog post not found"
// @Router /blog/{slug} [get]
// @Router /admin/blog/{slug} [get]
func (h blogPostHandler) getBlogPost(includeUnpublished bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.blog.Get(r.Context(), chi.URLParam(r, "slug"), includeUnpublished)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// createBlogPost creates a new post
// @Summary Create blog post
// @Description Slug, read time and publish date are filled in when missing.
// @Tags Blog
// @Accept json
// @Produce json
// @Param post body models.BlogPost true "Blog post data"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slug already in use"
// @Router /blog [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var post models.BlogPost
		if err := decodeRequiredJSON(w, r, "blog post", &post); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.blog.Create(r.Context(), &post)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", created.Slug).Msg("Blog post created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updateBlogPost replaces the given fields of a post
// @Summary Update blog post
// @Tags Blog
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param post body services.BlogPostPatch true "Fields to change"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Blog post not found"
// @Router /blog/{slug} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch services.BlogPostPatch
		if err := decodeRequiredJSON(w, r, "blog post", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.blog.Update(r.Context(), chi.URLParam(r, "slug"), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteBlogPost permanently removes a post
// @Router /blog/{slug} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := h.blog.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", slug).Msg("Blog post deleted")
		h.responder.WriteJSON(w, MessageResponse{Message: "Blog post deleted successfully"})
	}
}
