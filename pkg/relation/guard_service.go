package relation

import (
	"context"

	"foodgram-backend/domain"

	"github.com/google/uuid"
)

type (
	// GuardService is the single entry point for creating and removing
	// favorite, shopping cart and subscription rows. It enforces the two
	// universal constraints: no self-reference, no duplicate relation.
	GuardService interface {
		Add(ctx context.Context, kind Kind, actorID, targetID string) error
		Remove(ctx context.Context, kind Kind, actorID, targetID string) error
		Exists(ctx context.Context, kind Kind, actorID, targetID string) (bool, error)
	}

	guardService struct {
		relationRepository RelationRepository
	}
)

func NewGuardService(relationRepository RelationRepository) GuardService {
	return &guardService{relationRepository: relationRepository}
}

func (s *guardService) Add(ctx context.Context, kind Kind, actorID, targetID string) error {
	actor, target, err := parsePair(actorID, targetID)
	if err != nil {
		return err
	}

	if err := s.checkSelfReference(ctx, kind, actor, target); err != nil {
		return err
	}

	// Pre-check for a friendly conflict error. The unique index behind
	// Create still catches racing duplicates.
	exists, err := s.relationRepository.Exists(ctx, kind, actor, target)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	return s.relationRepository.Create(ctx, kind, actor, target)
}

func (s *guardService) Remove(ctx context.Context, kind Kind, actorID, targetID string) error {
	actor, target, err := parsePair(actorID, targetID)
	if err != nil {
		return err
	}
	return s.relationRepository.Delete(ctx, kind, actor, target)
}

func (s *guardService) Exists(ctx context.Context, kind Kind, actorID, targetID string) (bool, error) {
	actor, target, err := parsePair(actorID, targetID)
	if err != nil {
		return false, err
	}
	return s.relationRepository.Exists(ctx, kind, actor, target)
}

// checkSelfReference rejects favoriting your own recipe and subscribing to
// yourself. Adding your own recipe to your cart stays allowed: shopping for
// a recipe you wrote is legitimate.
func (s *guardService) checkSelfReference(ctx context.Context, kind Kind, actor, target uuid.UUID) error {
	switch kind {
	case KindSubscription:
		if actor == target {
			return domain.ErrSelfReference
		}
		exists, err := s.relationRepository.UserExists(ctx, target)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}
	case KindFavorite:
		author, err := s.relationRepository.RecipeAuthor(ctx, target)
		if err != nil {
			return err
		}
		if author == actor {
			return domain.ErrSelfReference
		}
	case KindShoppingCart:
		if _, err := s.relationRepository.RecipeAuthor(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

func parsePair(actorID, targetID string) (uuid.UUID, uuid.UUID, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	target, err := uuid.Parse(targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	return actor, target, nil
}
