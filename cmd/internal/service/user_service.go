package service

import (
	"clinic/cmd/internal/domain"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils"
	"clinic/cmd/internal/utils/apierror"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	FindAll() ([]*entity.User, error)
	FindByRole(role entity.Role) ([]*entity.User, error)
	Create(user *entity.User) error
	Delete(id int) error
}

// PasswordHasher is the opaque digest capability used for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	Issue(user *entity.User) (string, error)
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,nospaces,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72" sanitize:"-"`
	Role      string `json:"role" validate:"max=32"`
	Specialty string `json:"spec" validate:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,nospaces,email"`
	Password string `json:"password" validate:"required,max=72" sanitize:"-"`
}

type UserResponse struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	Specialty *string     `json:"spec"`
	CreatedAt string      `json:"created_at"`
}

type LoginResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Hasher   PasswordHasher
	Tokens   TokenIssuer
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, hasher PasswordHasher, tokens TokenIssuer) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Hasher: hasher, Tokens: tokens}
}

func (u *DefaultUserService) GetUsers() ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.StorageUnavailableError
	}
	return toUserResponses(users), nil
}

func (u *DefaultUserService) GetDoctors() ([]*UserResponse, apierror.ErrorResponse) {
	doctors, err := u.UserRepo.FindByRole(entity.RoleDoctor)
	if err != nil {
		log.Errorf("failed to fetch doctors: %v", err)
		return nil, apierror.StorageUnavailableError
	}
	return toUserResponses(doctors), nil
}

// GetUser resolves rawId to a user. "@me" stands for the caller.
func (u *DefaultUserService) GetUser(rawId string, caller Caller) (*UserResponse, apierror.ErrorResponse) {
	id := caller.ID
	if rawId != "@me" {
		var err error
		if id, err = strconv.Atoi(rawId); err != nil {
			return nil, apierror.NewInvalidParamTypeError("id", "int32")
		}
	}

	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find user (%d) by id: %v", id, err)
		return nil, apierror.StorageUnavailableError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// Register creates an account. Unknown roles fall back to patient, and a
// specialty is only kept for doctors.
func (u *DefaultUserService) Register(req *RegisterRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.StorageUnavailableError
	}
	if found {
		return nil, apierror.DuplicateEmailError
	}

	digest, err := u.Hasher.Hash(req.Password)
	if err != nil {
		log.Errorf("failed to hash password for %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	role := entity.NormalizeRole(req.Role)
	if req.Role != "" && !strings.EqualFold(string(role), req.Role) {
		log.Warnf("unrecognized role %q for %s, registering as %s", req.Role, req.Email, role)
	}

	now := utils.NowUTC()
	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == entity.RoleDoctor && req.Specialty != "" {
		spec := req.Specialty
		user.Specialty = &spec
	}

	err = u.UserRepo.Create(user)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return nil, apierror.DuplicateEmailError
	}
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.StorageUnavailableError
	}

	log.Infof("registered user %d as %s", user.ID, user.Role)
	return toUserResponse(user), nil
}

func (u *DefaultUserService) Login(req *LoginRequest) (*LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.StorageUnavailableError
	}

	// Unknown email and wrong password look the same to the caller.
	if user == nil || !u.Hasher.Verify(req.Password, user.PasswordHash) {
		return nil, apierror.InvalidCredentialsError
	}

	token, err := u.Tokens.Issue(user)
	if err != nil {
		log.Errorf("failed to issue token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &LoginResponse{User: toUserResponse(user), AccessToken: token}, nil
}

// DeleteUser removes the user and every appointment they take part in.
// Unknown ids succeed.
func (u *DefaultUserService) DeleteUser(rawId string) apierror.ErrorResponse {
	id, err := strconv.Atoi(rawId)
	if err != nil {
		return apierror.NewInvalidParamTypeError("id", "int32")
	}

	if err := u.UserRepo.Delete(id); err != nil {
		log.Errorf("failed to delete user %d: %v", id, err)
		return apierror.StorageUnavailableError
	}
	log.Infof("deleted user %d and their appointments", id)
	return nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is taken.
// An existing non-admin account with that email is left alone and reported.
func (u *DefaultUserService) EnsureAdmin(name, email, password string) error {
	existing, err := u.UserRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			log.Warnf("bootstrap admin not created: %s already belongs to user %d with role %s",
				existing.Email, existing.ID, existing.Role)
		}
		return nil
	}

	digest, err := u.Hasher.Hash(password)
	if err != nil {
		return err
	}

	now := utils.NowUTC()
	admin := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.UserRepo.Create(admin); err != nil && !errors.Is(err, domain.ErrDuplicateEmail) {
		return err
	}
	log.Infof("bootstrap admin %s is ready", admin.Email)
	return nil
}

func toUserResponses(users []*entity.User) []*UserResponse {
	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Specialty: user.Specialty,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
