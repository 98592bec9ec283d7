package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"auth_service/internal/mailer"
	"auth_service/internal/model"
	"auth_service/internal/repository"
	"auth_service/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrPasswordMismatch   = errors.New("password and passwordConfirm do not match")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("no user found with that email")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrWrongPassword      = errors.New("current password is wrong")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or has expired")
	ErrEmailSendFailed    = errors.New("failed to send reset email, try again later")
)

// Reset tokens are usable for 10 minutes after generation.
const resetTokenTTL = 10 * time.Minute

// SignupInput carries the fields accepted at signup
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Role            string
}

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*model.User, string, error)
	UpdatePassword(ctx context.Context, userID int, currentPassword, password, passwordConfirm string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	mailer   mailer.Mailer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, m mailer.Mailer) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		mailer:   m,
	}
}

// Signup creates a new user account and logs it in
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.Password != in.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser // Default role
	}
	if !model.ValidRole(role) {
		return nil, "", ErrInvalidRole
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %d) created, but failed to generate token: %v", user.Email, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token. Unknown email and
// wrong password collapse into the same error so callers cannot probe
// which accounts exist.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ForgotPassword generates a reset token for the account, stores its hash
// and mails the plaintext to the user. If the email cannot be sent the
// stored token is cleared again so no half-armed reset state remains.
func (s *authService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	plainToken, hashedToken, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hashedToken, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/%s", resetURLBase, plainToken)
	body := fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password and passwordConfirm to %s\nIf you didn't forget your password, please ignore this email.", resetURL)

	if err := s.mailer.Send(user.Email, "Your password reset token (valid for 10 minutes)", body); err != nil {
		log.Printf("ERROR: failed to send reset email to %s: %v", user.Email, err)
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Printf("ERROR: failed to clear reset token for user %d: %v", user.ID, clearErr)
		}
		return ErrEmailSendFailed
	}

	return nil
}

// ResetPassword consumes a plaintext reset token and sets a new password
func (s *authService) ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*model.User, string, error) {
	hashedToken := utils.HashResetToken(plainToken)

	user, err := s.userRepo.FindByResetToken(ctx, hashedToken)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by reset token: %w", err)
	}
	if user == nil {
		return nil, "", ErrResetTokenInvalid
	}

	if password != passwordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// Clears the reset fields and bumps password_changed_at as well.
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one
func (s *authService) UpdatePassword(ctx context.Context, userID int, currentPassword, password, passwordConfirm string) (*model.User, string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return nil, "", ErrWrongPassword
	}

	if password != passwordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
