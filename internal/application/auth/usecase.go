package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
	"github.com/jhoicas/devis-factures-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de usuarios y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// CreateUser hashea el password con bcrypt y persiste el usuario. ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, domain.Invalid("email et mot de passe (8 caractères minimum) requis")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.Error{Kind: domain.ErrDuplicate, Message: "un utilisateur existe déjà avec cet email"}
	}
	role := in.Role
	if role == "" {
		role = entity.RoleReader
	}
	if role != entity.RoleAdmin && role != entity.RoleReader {
		return nil, domain.Invalid("rôle inconnu : %s", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
