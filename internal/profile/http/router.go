package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/devlink/devlink/backend/internal/common/authgate"
	commonhttp "github.com/devlink/devlink/backend/internal/common/http"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/github"
	"github.com/devlink/devlink/backend/internal/profile/domain"
	"github.com/devlink/devlink/backend/internal/profile/service"
)

type upsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experienceRequest struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from" validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type educationRequest struct {
	School       string     `json:"school" validate:"required"`
	Degree       string     `json:"degree" validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required"`
	From         time.Time  `json:"from" validate:"required"`
	To           *time.Time `json:"to"`
	Description  string     `json:"description"`
}

type Handler struct {
	profiles *service.ProfileService
	github   *github.Client
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(profiles *service.ProfileService, gh *github.Client, jwtSecret string, log *logger.Logger) http.Handler {
	h := &Handler{
		profiles: profiles,
		github:   gh,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}

	gate := authgate.Middleware(jwtSecret, log)

	mux := http.NewServeMux()
	mux.Handle("GET /api/profile/me", gate(http.HandlerFunc(h.me)))
	mux.Handle("POST /api/profile", gate(http.HandlerFunc(h.upsert)))
	mux.Handle("GET /api/profile", http.HandlerFunc(h.list))
	mux.Handle("GET /api/profile/user/{user_id}", http.HandlerFunc(h.getByUser))
	mux.Handle("DELETE /api/profile", gate(http.HandlerFunc(h.deleteAccount)))
	mux.Handle("PUT /api/profile/experience", gate(http.HandlerFunc(h.addExperience)))
	mux.Handle("DELETE /api/profile/experience/{exp_id}", gate(http.HandlerFunc(h.deleteExperience)))
	mux.Handle("PUT /api/profile/education", gate(http.HandlerFunc(h.addEducation)))
	mux.Handle("DELETE /api/profile/education/{edu_id}", gate(http.HandlerFunc(h.deleteEducation)))
	mux.Handle("GET /api/profile/github/{username}", http.HandlerFunc(h.githubRepos))
	return mux
}

func callerID(r *http.Request) (string, bool) {
	claims, ok := authgate.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// splitSkills turns the comma separated skills field into trimmed entries.
// Empty segments are dropped.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	profile, err := h.profiles.Me(r.Context(), caller)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	var req upsertProfileRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), caller, service.UpsertInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         splitSkills(req.Skills),
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Social: domain.Social{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			Linkedin:  req.Linkedin,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profiles)
}

func (h *Handler) getByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetByUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	if err := h.profiles.DeleteAccount(r.Context(), caller); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"msg": "user removed"})
}

func (h *Handler) addExperience(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	var req experienceRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), caller, service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) deleteExperience(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	profile, err := h.profiles.DeleteExperience(r.Context(), caller, r.PathValue("exp_id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) addEducation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	var req educationRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), caller, service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Description:  req.Description,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) deleteEducation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
		return
	}

	profile, err := h.profiles.DeleteEducation(r.Context(), caller, r.PathValue("edu_id"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) githubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.github.Repos(r.Context(), r.PathValue("username"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, repos)
}
