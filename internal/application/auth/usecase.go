package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// codeTTL vigencia del código de verificación enviado por email.
const codeTTL = 15 * time.Minute

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CodeStore almacena códigos de verificación con vencimiento.
type CodeStore interface {
	Put(email, code string, ttl time.Duration)
	// Consume valida y consume el código; un código usado no vale dos veces.
	Consume(email, code string) bool
}

// CodeSender envía el código de verificación al usuario registrado.
type CodeSender interface {
	VerificationCode(toEmail, fullName, code string) error
}

// AuthUseCase registro con verificación por email y login con JWT.
type AuthUseCase struct {
	userRepo repository.UserRepository
	codes    CodeStore
	sender   CodeSender
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, codes CodeStore, sender CodeSender, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, codes: codes, sender: sender, jwtCfg: jwtCfg, log: log}
}

// Register crea un usuario con password hasheado y le envía un código de
// verificación. Una farmacia debe aportar número de licencia; el rol ADMIN
// no se acepta por registro público.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.IsValidRole(role) || role == entity.RoleAdmin {
		return nil, domain.ErrInvalidInput
	}
	if role == entity.RolePharmacy && strings.TrimSpace(in.LicenseNumber) == "" {
		return nil, fmt.Errorf("%w: una farmacia requiere número de licencia", domain.ErrInvalidInput)
	}

	existing, err := uc.userRepo.FindByEmail(email)
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
	now := time.Now()
	user := &entity.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		FullName:      in.FullName,
		Phone:         in.Phone,
		Role:          role,
		LicenseNumber: in.LicenseNumber,
		Verified:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	uc.codes.Put(email, code, codeTTL)
	if err := uc.sender.VerificationCode(email, user.FullName, code); err != nil {
		// El registro ya quedó persistido; el usuario puede pedir reenvío.
		uc.log.Error().Err(err).Str("email", email).Msg("no se pudo enviar el código de verificación")
	}
	return toUserResponse(user), nil
}

// VerifyEmail consume el código y marca al usuario como verificado.
func (uc *AuthUseCase) VerifyEmail(in dto.VerifyEmailRequest) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Verified {
		return nil
	}
	if !uc.codes.Consume(email, strings.TrimSpace(in.Code)) {
		return domain.ErrUnauthorized
	}
	return uc.userRepo.SetVerified(user.ID)
}

// ResendCode genera y envía un código nuevo para un usuario sin verificar.
func (uc *AuthUseCase) ResendCode(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Verified {
		return domain.ErrInvalidInput
	}
	code, err := generateCode()
	if err != nil {
		return err
	}
	uc.codes.Put(email, code, codeTTL)
	return uc.sender.VerificationCode(email, user.FullName, code)
}

// Login verifica credenciales y genera un JWT con el rol del usuario.
// Un usuario sin verificar no puede iniciar sesión.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Verified {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// generateCode produce un código numérico de 6 dígitos.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Role:          u.Role,
		LicenseNumber: u.LicenseNumber,
		Verified:      u.Verified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
