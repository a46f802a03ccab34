package account

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
	"github.com/dmitrymomot/abpadmin/pkg/validator"
)

// Endpoint paths.
const (
	FindTenantByNamePath      = "/api/abp/multi-tenancy/tenants/by-name"
	RegisterPath              = "/api/account/register"
	SendPasswordResetCodePath = "/api/account/send-password-reset-code"
	ResetPasswordPath         = "/api/account/reset-password"
	ChangePasswordPath        = "/api/identity/my-profile/change-password"
	MyProfilePath             = "/api/identity/my-profile"
	ProfilePicturePath        = "/api/account/profile-picture"
	TwoFactorEnabledPath      = "/api/account/two-factor-enabled"
)

// DefaultAppName is sent as appName when the input leaves it empty.
const DefaultAppName = "abpadmin"

// Requester is the part of *restclient.Client the service uses.
type Requester interface {
	Get(ctx context.Context, path string, out any, opts ...restclient.RequestOption) error
	Post(ctx context.Context, path string, in, out any, opts ...restclient.RequestOption) error
	Put(ctx context.Context, path string, in, out any, opts ...restclient.RequestOption) error
}

// Service calls the account endpoints. Register, SendPasswordResetCode,
// ResetPassword and ChangePassword bypass the client's error hook so the
// caller decides how to report their errors.
type Service struct {
	client Requester
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger. A nil logger is ignored.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over client.
func NewService(client Requester, opts ...ServiceOption) *Service {
	s := &Service{client: client, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindTenantByName looks a tenant up by name. Name must be non-empty and not a dot segment.
func (s *Service) FindTenantByName(ctx context.Context, name string) (FindTenantResult, error) {
	if err := validator.Apply(
		validator.Required("name", name),
		validator.PathSegment("name", name),
	); err != nil {
		return FindTenantResult{}, err
	}
	var out FindTenantResult
	if err := s.client.Get(ctx, FindTenantByNamePath+"/"+url.PathEscape(name), &out); err != nil {
		return FindTenantResult{}, err
	}
	return out, nil
}

// Register creates a user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (IdentityUser, error) {
	if err := in.Validate(); err != nil {
		return IdentityUser{}, err
	}
	if in.AppName == "" {
		in.AppName = DefaultAppName
	}
	var out IdentityUser
	if err := s.client.Post(ctx, RegisterPath, in, &out, restclient.SkipErrorHandling()); err != nil {
		return IdentityUser{}, err
	}
	s.logger.InfoContext(ctx, "user registered", logger.Component("account"), logger.UserID(out.ID))
	return out, nil
}

// SendPasswordResetCode mails a reset link to the user.
func (s *Service) SendPasswordResetCode(ctx context.Context, in SendPasswordResetCodeInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.AppName == "" {
		in.AppName = DefaultAppName
	}
	return s.client.Post(ctx, SendPasswordResetCodePath, in, nil, restclient.SkipErrorHandling())
}

// ResetPassword sets a new password using a reset token.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return s.client.Post(ctx, ResetPasswordPath, in, nil, restclient.SkipErrorHandling())
}

// ChangePassword changes the signed-in user's password.
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return s.client.Post(ctx, ChangePasswordPath, in, nil, restclient.SkipErrorHandling())
}

// Profile returns the signed-in user's profile.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	var out Profile
	if err := s.client.Get(ctx, MyProfilePath, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// UpdateProfile updates the signed-in user's profile.
func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (Profile, error) {
	if err := in.Validate(); err != nil {
		return Profile{}, err
	}
	var out Profile
	if err := s.client.Put(ctx, MyProfilePath, in, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// ProfilePicture returns the signed-in user's picture.
func (s *Service) ProfilePicture(ctx context.Context) (ProfilePicture, error) {
	var out ProfilePicture
	if err := s.client.Get(ctx, ProfilePicturePath, &out); err != nil {
		return ProfilePicture{}, err
	}
	return out, nil
}

// SetProfilePicture uploads in as multipart form data with fields type and imageContent.
func (s *Service) SetProfilePicture(ctx context.Context, in ProfilePictureInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	body := restclient.Multipart{Fields: map[string]string{"type": strconv.Itoa(int(in.Type))}}
	if in.Type == ProfilePictureImage {
		name := in.ImageName
		if name == "" {
			name = "profile-picture"
		}
		body.Files = []restclient.File{{Field: "imageContent", Name: name, Content: in.ImageContent}}
	}
	return s.client.Post(ctx, ProfilePicturePath, body, nil)
}

// ProfilePictureByUser returns another user's picture.
func (s *Service) ProfilePictureByUser(ctx context.Context, userID uuid.UUID) (ProfilePicture, error) {
	var out ProfilePicture
	if err := s.client.Get(ctx, ProfilePicturePath+"/"+userID.String(), &out); err != nil {
		return ProfilePicture{}, err
	}
	return out, nil
}

// TwoFactorEnabled reports whether the signed-in user has two-factor on.
func (s *Service) TwoFactorEnabled(ctx context.Context) (bool, error) {
	var out bool
	if err := s.client.Get(ctx, TwoFactorEnabledPath, &out); err != nil {
		return false, err
	}
	return out, nil
}

// SetTwoFactorEnabled turns two-factor on or off for the signed-in user.
func (s *Service) SetTwoFactorEnabled(ctx context.Context, enabled bool) error {
	return s.client.Post(ctx, TwoFactorEnabledPath, twoFactorEnabledInput{Enabled: enabled}, nil)
}
