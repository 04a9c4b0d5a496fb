package http

import (
	"net/http"

	"github.com/devlink/devlink/backend/internal/common/authgate"
	commonhttp "github.com/devlink/devlink/backend/internal/common/http"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/post/service"
)

type createPostRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type Handler struct {
	posts  *service.PostService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(posts *service.PostService, jwtSecret string, log *logger.Logger) http.Handler {
	h := &Handler{
		posts:  posts,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}

	gate := authgate.Middleware(jwtSecret, log)

	mux := http.NewServeMux()
	mux.Handle("POST /api/posts", gate(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/posts", gate(http.HandlerFunc(h.list)))
	mux.Handle("GET /api/posts/{id}", gate(http.HandlerFunc(h.get)))
	mux.Handle("DELETE /api/posts/{id}", gate(http.HandlerFunc(h.delete)))
	mux.Handle("PUT /api/posts/like/{id}", gate(http.HandlerFunc(h.like)))
	mux.Handle("PUT /api/posts/unlike/{id}", gate(http.HandlerFunc(h.unlike)))
	mux.Handle("POST /api/posts/comment/{id}", gate(http.HandlerFunc(h.addComment)))
	mux.Handle("DELETE /api/posts/comment/{id}/{comment_id}", gate(http.HandlerFunc(h.deleteComment)))
	return mux
}

func callerID(r *http.Request) (string, bool) {
	claims, ok := authgate.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	var req createPostRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), caller, req.Text)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	if err := h.posts.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"msg": "post removed"})
}

func (h *Handler) like(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	likes, err := h.posts.Like(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, likes)
}

func (h *Handler) unlike(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	likes, err := h.posts.Unlike(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, likes)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	var req addCommentRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	comments, err := h.posts.AddComment(r.Context(), caller, r.PathValue("id"), req.Text)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, comments)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	comments, err := h.posts.DeleteComment(r.Context(), caller, r.PathValue("id"), r.PathValue("comment_id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, comments)
}
