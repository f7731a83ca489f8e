package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// subscriptionRecipePreview caps how many recipes ride along with each
// author in a subscriptions listing.
const subscriptionRecipePreview = 3

type (
	UserService interface {
		Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id, requesterID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, requesterID string) ([]domain.UserResponse, int64, error)
		Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, req domain.SubscribeRequest, userID string) error
		GetSubscriptions(ctx context.Context, page, limit int, userID string) ([]domain.SubscriptionResponse, int64, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		guard            relation.GuardService
		jwtService       jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, recipeRepository recipe.RecipeRepository, guard relation.GuardService, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		guard:            guard,
		jwtService:       jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserResponse{}, err
	}
	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	now := time.Now()
	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
		Timestamp: entities.Timestamp{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.UserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.UserResponse{}, err
	}

	// Welcome mail is best effort, registration never fails on SMTP.
	go func() {
		body := fmt.Sprintf("<p>Hi %s, welcome to Foodgram!</p>", user.FirstName)
		if err := mailing.SendMail(user.Email, "Welcome to Foodgram", body); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", user.Email, err)
		}
	}()

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatch
		}
		return domain.UserLoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatch
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.UserLoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id, requesterID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	isSubscribed := false
	if requesterID != "" && requesterID != id {
		isSubscribed, err = s.guard.Exists(ctx, relation.KindSubscription, requesterID, id)
		if err != nil {
			return domain.UserResponse{}, err
		}
	}
	return toUserResponse(user, isSubscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, requesterID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		isSubscribed := false
		if requesterID != "" && requesterID != user.ID.String() {
			isSubscribed, err = s.guard.Exists(ctx, relation.KindSubscription, requesterID, user.ID.String())
			if err != nil {
				return nil, 0, err
			}
		}
		responses = append(responses, toUserResponse(user, isSubscribed))
	}
	return responses, count, nil
}

func (s *userService) Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscriptionResponse, error) {
	if err := s.guard.Add(ctx, relation.KindSubscription, userID, req.AuthorID); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	author, err := s.userRepository.GetUserByID(ctx, req.AuthorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return s.toSubscriptionResponse(ctx, author)
}

func (s *userService) Unsubscribe(ctx context.Context, req domain.SubscribeRequest, userID string) error {
	return s.guard.Remove(ctx, relation.KindSubscription, userID, req.AuthorID)
}

func (s *userService) GetSubscriptions(ctx context.Context, page, limit int, userID string) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		res, err := s.toSubscriptionResponse(ctx, author)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, res)
	}
	return responses, count, nil
}

func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User) (domain.SubscriptionResponse, error) {
	recipes, count, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), subscriptionRecipePreview)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	preview := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, item := range recipes {
		preview = append(preview, domain.RecipeShortResponse{
			ID:          item.ID.String(),
			Name:        item.Name,
			ImageURL:    item.ImageURL,
			CookingTime: item.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      preview,
		RecipesCount: count,
	}, nil
}

func toUserResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
