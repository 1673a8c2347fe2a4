package services

import (
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/services/repositories"
	"github.com/startinfo/academy_api/shared"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers and logs in users and issues access tokens.
type AuthService struct {
	context.DefaultService

	db       DatabaseService
	users    *repositories.UserRepository
	jwtSvc   *JWTService
	hashCost int
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	svc.hashCost = bcrypt.DefaultCost
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	db, err := resolveDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
	if err != nil {
		return err
	}
	svc.wire(db, svc.Service(JWT_SVC).(*JWTService))
	return nil
}

func (svc *AuthService) wire(db DatabaseService, jwtSvc *JWTService) {
	svc.db = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.jwtSvc = jwtSvc
	if svc.hashCost == 0 {
		svc.hashCost = bcrypt.DefaultCost
	}
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), svc.hashCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to register user")
	}

	user, err := svc.users.CreateUser(&model.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     req.Name,
		Password: string(hash),
		Role:     shared.RoleStudent,
	})
	if err != nil {
		if IsDuplicateKey(err) {
			return nil, shared.NewConflictError(err, "Email is already registered")
		}
		return nil, svc.db.HandleError(err)
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	resp := mapUserToResponse(user)
	return &resp, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.users.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewUnauthorizedError(err, "Invalid email or password")
		}
		return nil, svc.db.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(errors.New("password mismatch"), "Invalid email or password")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	now := time.Now()
	if err := svc.users.TouchLastLogin(user.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLogin = &now
	}

	return &dto.LoginResponse{
		TokenPair: *tokens,
		User:      mapUserToResponse(user),
	}, nil
}

func (svc *AuthService) Me(userID string) (*dto.UserResponse, error) {
	user, err := svc.users.GetUser(userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, svc.db.HandleError(err)
	}
	resp := mapUserToResponse(user)
	return &resp, nil
}

func mapUserToResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Verified:  user.Verified,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}
