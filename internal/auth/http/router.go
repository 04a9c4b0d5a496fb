package http

import (
	"net/http"

	"github.com/devlink/devlink/backend/internal/auth/service"
	"github.com/devlink/devlink/backend/internal/common/authgate"
	commonhttp "github.com/devlink/devlink/backend/internal/common/http"
	"github.com/devlink/devlink/backend/internal/common/logger"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	auth      *service.AuthService
	errors    *commonhttp.ErrorHandler
	jwtSecret string
	log       *logger.Logger
}

func NewHandler(auth *service.AuthService, jwtSecret string, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:      auth,
		errors:    commonhttp.NewErrorHandler(log),
		jwtSecret: jwtSecret,
		log:       log,
	}

	gate := authgate.Middleware(jwtSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", h.register)
	mux.HandleFunc("POST /api/auth", h.login)
	mux.Handle("GET /api/auth", gate(http.HandlerFunc(h.currentUser)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, tokenResponse{Token: result.Token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := authgate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userdomain.ID(claims.UserID))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, user)
}
