package service

import (
	"context"
	"errors"

	"github.com/devlink/devlink/backend/internal/common/clock"
	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/observability/metrics"
	"github.com/devlink/devlink/backend/internal/post/domain"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

// PostService applies the load-mutate-save cycle to the post aggregate.
// Consistency relies on the storage layer's per-document atomicity; two
// concurrent mutations of the same post can race and the later Save wins.
type PostService struct {
	repo        postrepo.Repository
	userRepo    userrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewPostService(
	repo postrepo.Repository,
	userRepo userrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *PostService {
	return &PostService{
		repo:        repo,
		userRepo:    userRepo,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

func (s *PostService) Create(ctx context.Context, callerID string, text string) (domain.Post, error) {
	user, err := s.userRepo.FindByID(ctx, userdomain.ID(callerID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return domain.Post{}, commonerrors.ErrUserNotFound
		}
		return domain.Post{}, commonerrors.ErrStorage.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}

	post := domain.Post{
		ID:     id,
		User:   callerID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   s.clock.Now(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return domain.Post{}, commonerrors.ErrStorage.WithCause(err)
	}

	metrics.PostMutationsTotal.WithLabelValues("create").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"post_id": post.ID,
		"user_id": callerID,
		"action":  "post_created",
	}).Info("post created")

	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, commonerrors.ErrStorage.WithCause(err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (domain.Post, error) {
	return s.load(ctx, postID)
}

// Delete removes a whole post. Only the owning user may delete it.
func (s *PostService) Delete(ctx context.Context, callerID string, postID string) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}

	if post.User != callerID {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": postID,
			"user_id": callerID,
			"action":  "post_delete_forbidden",
		}).Warn("post delete rejected: caller is not the owner")
		return commonerrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return commonerrors.ErrStorage.WithCause(err)
	}

	metrics.PostMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// Like prepends the caller to the like list. A second like by the same user
// fails with ErrAlreadyLiked and performs no mutation.
func (s *PostService) Like(ctx context.Context, callerID string, postID string) ([]domain.Like, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.AddLike(callerID) {
		return nil, ErrAlreadyLiked
	}

	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	metrics.PostMutationsTotal.WithLabelValues("like").Inc()
	return post.Likes, nil
}

// Unlike fails with ErrNotLiked when the caller never liked the post, the
// symmetric guard to the duplicate-like check.
func (s *PostService) Unlike(ctx context.Context, callerID string, postID string) ([]domain.Like, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.RemoveLike(callerID) {
		return nil, ErrNotLiked
	}

	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	metrics.PostMutationsTotal.WithLabelValues("unlike").Inc()
	return post.Likes, nil
}

// AddComment builds a lightweight comment value attributed to the caller and
// prepends it, so the newest comment is always at index 0.
func (s *PostService) AddComment(ctx context.Context, callerID string, postID string, text string) ([]domain.Comment, error) {
	user, err := s.userRepo.FindByID(ctx, userdomain.ID(callerID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, commonerrors.ErrUserNotFound
		}
		return nil, commonerrors.ErrStorage.WithCause(err)
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}

	post.AddComment(domain.Comment{
		ID:     id,
		User:   callerID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   s.clock.Now(),
	})

	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	metrics.PostMutationsTotal.WithLabelValues("add_comment").Inc()
	return post.Comments, nil
}

// DeleteComment is scoped to the comment's author, not the post's owner.
func (s *PostService) DeleteComment(ctx context.Context, callerID string, postID string, commentID string) ([]domain.Comment, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, ErrCommentNotFound
	}

	if comment.User != callerID {
		s.log.WithFields(ctx, logger.Fields{
			"post_id":    postID,
			"comment_id": commentID,
			"user_id":    callerID,
			"action":     "comment_delete_forbidden",
		}).Warn("comment delete rejected: caller is not the author")
		return nil, commonerrors.ErrForbidden
	}

	post.RemoveComment(commentID)

	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	metrics.PostMutationsTotal.WithLabelValues("delete_comment").Inc()
	return post.Comments, nil
}

func (s *PostService) load(ctx context.Context, postID string) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, commonerrors.ErrStorage.WithCause(err)
	}
	return post, nil
}

func (s *PostService) save(ctx context.Context, post domain.Post) error {
	if err := s.repo.Save(ctx, post); err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return commonerrors.ErrStorage.WithCause(err)
	}
	return nil
}
