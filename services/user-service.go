package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"proxima/backend/projects-service/models"
	"proxima/backend/projects-service/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user with email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService struct {
	UsersCollection *mongo.Collection
	StoreBreaker    *gobreaker.CircuitBreaker
}

func NewUserService(usersCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *UserService {
	return &UserService{
		UsersCollection: usersCollection,
		StoreBreaker:    storeBreaker,
	}
}

// ValidatePassword enforces the signup password policy: at least 8
// characters with one uppercase letter and one digit.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasUppercase := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
			break
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	hasDigit := false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// RegisterUser stores a new user with a bcrypt-hashed password.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var existingUser models.User
		err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existingUser)
		if err != nil {
			return nil, err
		}
		return &existingUser, nil
	})
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      html.EscapeString(name),
		Email:     html.EscapeString(email),
		Password:  string(hashedPassword),
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.UsersCollection.InsertOne(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %v", err)
	}

	user.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	return user, nil
}

// LoginUser checks the credentials and mints an access token on success.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var user models.User
		err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %v", err)
	}

	user := result.(*models.User)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %v", err)
	}

	return token, user, nil
}
