package service

import (
	"context"
	"errors"
	"time"

	"github.com/devlink/devlink/backend/internal/common/clock"
	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/observability/metrics"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	"github.com/devlink/devlink/backend/internal/profile/domain"
	profilerepo "github.com/devlink/devlink/backend/internal/profile/repository"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

// ProfileService owns the profile aggregate. Experience and education
// mutations follow the same load-mutate-save-whole-document cycle as post
// likes and comments; a profile is only ever addressed by its owning user, so
// loading by caller id is what scopes every mutation to the owner.
type ProfileService struct {
	repo        profilerepo.Repository
	userRepo    userrepo.Repository
	postRepo    postrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewProfileService(
	repo profilerepo.Repository,
	userRepo userrepo.Repository,
	postRepo postrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{
		repo:        repo,
		userRepo:    userRepo,
		postRepo:    postRepo,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type UpsertInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         []string
	Bio            string
	GithubUsername string
	Social         domain.Social
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Description  string
}

func (s *ProfileService) Me(ctx context.Context, callerID string) (domain.Profile, error) {
	return s.load(ctx, callerID)
}

func (s *ProfileService) Upsert(ctx context.Context, callerID string, input UpsertInput) (domain.Profile, error) {
	existing, err := s.repo.FindByUser(ctx, callerID)
	if err != nil && !errors.Is(err, profilerepo.ErrProfileNotFound) {
		return domain.Profile{}, commonerrors.ErrStorage.WithCause(err)
	}

	profile := domain.Profile{
		User:           callerID,
		Company:        input.Company,
		Website:        input.Website,
		Location:       input.Location,
		Status:         input.Status,
		Skills:         input.Skills,
		Bio:            input.Bio,
		GithubUsername: input.GithubUsername,
		Social:         input.Social,
		Experience:     existing.Experience,
		Education:      existing.Education,
		Date:           s.clock.Now(),
	}
	if err == nil {
		profile.Date = existing.Date
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return domain.Profile{}, commonerrors.ErrStorage.WithCause(err)
	}

	metrics.ProfileMutationsTotal.WithLabelValues("upsert").Inc()
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, commonerrors.ErrStorage.WithCause(err)
	}
	return profiles, nil
}

func (s *ProfileService) GetByUser(ctx context.Context, userID string) (domain.Profile, error) {
	return s.load(ctx, userID)
}

// DeleteAccount removes the caller's posts, profile, and user record, in that
// order, mirroring the cascade the frontend expects.
func (s *ProfileService) DeleteAccount(ctx context.Context, callerID string) error {
	if err := s.postRepo.DeleteByUser(ctx, callerID); err != nil {
		return commonerrors.ErrStorage.WithCause(err)
	}

	if err := s.repo.DeleteByUser(ctx, callerID); err != nil {
		return commonerrors.ErrStorage.WithCause(err)
	}

	if err := s.userRepo.Delete(ctx, userdomain.ID(callerID)); err != nil {
		return commonerrors.ErrStorage.WithCause(err)
	}

	metrics.ProfileMutationsTotal.WithLabelValues("delete_account").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": callerID,
		"action":  "account_deleted",
	}).Info("account deleted")

	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, callerID string, input ExperienceInput) (domain.Profile, error) {
	profile, err := s.load(ctx, callerID)
	if err != nil {
		return domain.Profile{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Profile{}, commonerrors.ErrInternal.WithCause(err)
	}

	profile.AddExperience(domain.Experience{
		ID:          id,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	})

	if err := s.save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("add_experience").Inc()
	return profile, nil
}

func (s *ProfileService) DeleteExperience(ctx context.Context, callerID string, entryID string) (domain.Profile, error) {
	profile, err := s.load(ctx, callerID)
	if err != nil {
		return domain.Profile{}, err
	}

	if !profile.RemoveExperience(entryID) {
		return domain.Profile{}, ErrExperienceNotFound
	}

	if err := s.save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("delete_experience").Inc()
	return profile, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, callerID string, input EducationInput) (domain.Profile, error) {
	profile, err := s.load(ctx, callerID)
	if err != nil {
		return domain.Profile{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Profile{}, commonerrors.ErrInternal.WithCause(err)
	}

	profile.AddEducation(domain.Education{
		ID:           id,
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Description:  input.Description,
	})

	if err := s.save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("add_education").Inc()
	return profile, nil
}

func (s *ProfileService) DeleteEducation(ctx context.Context, callerID string, entryID string) (domain.Profile, error) {
	profile, err := s.load(ctx, callerID)
	if err != nil {
		return domain.Profile{}, err
	}

	if !profile.RemoveEducation(entryID) {
		return domain.Profile{}, ErrEducationNotFound
	}

	if err := s.save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("delete_education").Inc()
	return profile, nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, profilerepo.ErrProfileNotFound) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, commonerrors.ErrStorage.WithCause(err)
	}
	return profile, nil
}

func (s *ProfileService) save(ctx context.Context, profile domain.Profile) error {
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return commonerrors.ErrStorage.WithCause(err)
	}
	return nil
}
