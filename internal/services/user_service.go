package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// IUserService defines the interface for user lookups. Account management is
// not this backend's job; login and ownership checks only need reads.
type IUserService interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

const usersCollection = "users"

// userService implements IUserService.
type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(database *mongo.Database) IUserService {
	return &userService{db: database}
}

// FindUserByEmail finds a non-deleted user by email.
func (s *userService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"email": email, "deleted": false}).
		Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}
