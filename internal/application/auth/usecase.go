package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de identidad.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser alta pública: el usuario queda siempre como Employee y el campo role se ignora.
// Los roles superiores se otorgan con UpdateRole (Admin) o con ProvisionUser.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.createUser(ctx, in, entity.RoleEmployee)
}

// ProvisionUser alta administrativa (cmd/seed) que respeta in.Role; vacío equivale a Employee.
func (uc *AuthUseCase) ProvisionUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	role := entity.RoleEmployee
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, domain.Invalid("role", "must be one of Employee, Manager, Admin")
		}
		role = r
	}
	return uc.createUser(ctx, in, role)
}

// createUser hashea el password con bcrypt y persiste. ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) createUser(ctx context.Context, in dto.RegisterRequest, role entity.Role) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("email", "must be a valid email")
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("password", "must have at least 8 characters")
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		FullName:     name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
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
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// Identify resuelve el usuario vigente detrás de un token ya validado.
// El rol se toma del store, no del token, para reflejar cambios de rol.
func (uc *AuthUseCase) Identify(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Role.Valid() {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// ToUserResponse convierte la entidad a su representación pública (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
