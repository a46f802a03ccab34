package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/validator"
)

// Field limits from ABP Identity.
const (
	MaxUserNameLength    = 256
	MaxEmailLength       = 256
	MaxNameLength        = 64
	MaxPhoneNumberLength = 16
)

// FindTenantResult is the response of a tenant lookup by name.
type FindTenantResult struct {
	Success  bool       `json:"success" yaml:"success"`
	TenantID *uuid.UUID `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	IsActive bool       `json:"isActive" yaml:"isActive"`
}

// IdentityUser is the user returned by registration.
type IdentityUser struct {
	ID                   uuid.UUID      `json:"id" yaml:"id"`
	TenantID             *uuid.UUID     `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	UserName             string         `json:"userName" yaml:"userName"`
	Email                string         `json:"email" yaml:"email"`
	Name                 string         `json:"name,omitempty" yaml:"name,omitempty"`
	Surname              string         `json:"surname,omitempty" yaml:"surname,omitempty"`
	EmailConfirmed       bool           `json:"emailConfirmed" yaml:"emailConfirmed"`
	PhoneNumber          string         `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	PhoneNumberConfirmed bool           `json:"phoneNumberConfirmed" yaml:"phoneNumberConfirmed"`
	IsActive             bool           `json:"isActive" yaml:"isActive"`
	CreationTime         time.Time      `json:"creationTime" yaml:"creationTime"`
	ConcurrencyStamp     string         `json:"concurrencyStamp,omitempty" yaml:"concurrencyStamp,omitempty"`
	ExtraProperties      map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// RegisterInput is a self-registration request.
type RegisterInput struct {
	UserName        string `json:"userName" yaml:"userName"`
	EmailAddress    string `json:"emailAddress" yaml:"emailAddress"`
	Password        string `json:"password" yaml:"password"`
	AppName         string `json:"appName" yaml:"appName"`
	CaptchaResponse string `json:"captchaResponse,omitempty" yaml:"captchaResponse,omitempty"`
}

// Validate checks the user name, email and password policy.
func (in RegisterInput) Validate() error {
	return validator.Apply(
		validator.Required("userName", in.UserName),
		validator.MaxLen("userName", in.UserName, MaxUserNameLength),
		validator.Required("emailAddress", in.EmailAddress),
		validator.Email("emailAddress", in.EmailAddress),
		validator.MaxLen("emailAddress", in.EmailAddress, MaxEmailLength),
		validator.Password("password", in.Password, validator.DefaultPasswordPolicy()),
	)
}

// SendPasswordResetCodeInput requests a password reset mail.
type SendPasswordResetCodeInput struct {
	Email           string `json:"email" yaml:"email"`
	AppName         string `json:"appName" yaml:"appName"`
	ReturnURL       string `json:"returnUrl,omitempty" yaml:"returnUrl,omitempty"`
	ReturnURLHash   string `json:"returnUrlHash,omitempty" yaml:"returnUrlHash,omitempty"`
	CaptchaResponse string `json:"captchaResponse,omitempty" yaml:"captchaResponse,omitempty"`
}

// Validate requires a well-formed email.
func (in SendPasswordResetCodeInput) Validate() error {
	return validator.Apply(
		validator.Required("email", in.Email),
		validator.Email("email", in.Email),
	)
}

// ResetPasswordInput completes a password reset.
type ResetPasswordInput struct {
	UserID          uuid.UUID `json:"userId" yaml:"userId"`
	ResetToken      string    `json:"resetToken" yaml:"resetToken"`
	Password        string    `json:"password" yaml:"password"`
	ConfirmPassword string    `json:"-" yaml:"confirmPassword"`
}

// Validate requires the user, the token and a confirmed password.
func (in ResetPasswordInput) Validate() error {
	return validator.Apply(
		validator.NonNilUUID("userId", in.UserID),
		validator.Required("resetToken", in.ResetToken),
		validator.Password("password", in.Password, validator.DefaultPasswordPolicy()),
		validator.Matches("confirmPassword", in.ConfirmPassword, "password", in.Password),
	)
}

// ChangePasswordInput changes the current user's password. CurrentPassword
// may be empty for external users that have never set one.
type ChangePasswordInput struct {
	CurrentPassword    string `json:"currentPassword,omitempty" yaml:"currentPassword,omitempty"`
	NewPassword        string `json:"newPassword" yaml:"newPassword"`
	NewPasswordConfirm string `json:"-" yaml:"newPasswordConfirm"`
}

// Validate checks the new password and its confirmation.
func (in ChangePasswordInput) Validate() error {
	return validator.Apply(
		validator.Password("newPassword", in.NewPassword, validator.DefaultPasswordPolicy()),
		validator.Matches("newPasswordConfirm", in.NewPasswordConfirm, "newPassword", in.NewPassword),
		validator.When(in.CurrentPassword != "", validator.Differs("newPassword", in.NewPassword, "currentPassword", in.CurrentPassword)),
	)
}

// Profile is the current user's profile.
type Profile struct {
	UserName             string         `json:"userName" yaml:"userName"`
	Email                string         `json:"email" yaml:"email"`
	Name                 string         `json:"name,omitempty" yaml:"name,omitempty"`
	Surname              string         `json:"surname,omitempty" yaml:"surname,omitempty"`
	PhoneNumber          string         `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	IsExternal           bool           `json:"isExternal" yaml:"isExternal"`
	HasPassword          bool           `json:"hasPassword" yaml:"hasPassword"`
	EmailConfirmed       bool           `json:"emailConfirmed" yaml:"emailConfirmed"`
	PhoneNumberConfirmed bool           `json:"phoneNumberConfirmed" yaml:"phoneNumberConfirmed"`
	ConcurrencyStamp     string         `json:"concurrencyStamp,omitempty" yaml:"concurrencyStamp,omitempty"`
	ExtraProperties      map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// UpdateProfileInput is the editable part of a Profile.
type UpdateProfileInput struct {
	UserName         string         `json:"userName" yaml:"userName"`
	Email            string         `json:"email" yaml:"email"`
	Name             string         `json:"name,omitempty" yaml:"name,omitempty"`
	Surname          string         `json:"surname,omitempty" yaml:"surname,omitempty"`
	PhoneNumber      string         `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	ConcurrencyStamp string         `json:"concurrencyStamp,omitempty" yaml:"concurrencyStamp,omitempty"`
	ExtraProperties  map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// Validate checks the required fields and the email format.
func (in UpdateProfileInput) Validate() error {
	return validator.Apply(
		validator.Required("userName", in.UserName),
		validator.MaxLen("userName", in.UserName, MaxUserNameLength),
		validator.Required("email", in.Email),
		validator.Email("email", in.Email),
		validator.MaxLen("name", in.Name, MaxNameLength),
		validator.MaxLen("surname", in.Surname, MaxNameLength),
		validator.MaxLen("phoneNumber", in.PhoneNumber, MaxPhoneNumberLength),
	)
}

// ToUpdate returns an update input carrying the profile's current values.
func (p Profile) ToUpdate() UpdateProfileInput {
	return UpdateProfileInput{
		UserName:         p.UserName,
		Email:            p.Email,
		Name:             p.Name,
		Surname:          p.Surname,
		PhoneNumber:      p.PhoneNumber,
		ConcurrencyStamp: p.ConcurrencyStamp,
		ExtraProperties:  p.ExtraProperties,
	}
}

// ProfilePictureType is where a profile picture comes from.
type ProfilePictureType int

const (
	ProfilePictureNone ProfilePictureType = iota
	ProfilePictureGravatar
	ProfilePictureImage
)

// String returns the lower-case type name.
func (t ProfilePictureType) String() string {
	switch t {
	case ProfilePictureNone:
		return "none"
	case ProfilePictureGravatar:
		return "gravatar"
	case ProfilePictureImage:
		return "image"
	default:
		return "unknown"
	}
}

// ProfilePicture is the picture source. FileContent holds the image bytes
// for ProfilePictureImage; JSON carries it base64 encoded.
type ProfilePicture struct {
	Type        ProfilePictureType `json:"type" yaml:"type"`
	Source      string             `json:"source,omitempty" yaml:"source,omitempty"`
	FileContent []byte             `json:"fileContent,omitempty" yaml:"-"`
}

// ProfilePictureInput sets the current user's picture. ImageContent is
// required for ProfilePictureImage and ignored otherwise.
type ProfilePictureInput struct {
	Type         ProfilePictureType
	ImageName    string
	ImageContent []byte
}

// MaxProfilePictureSize is the largest accepted image.
const MaxProfilePictureSize = 1 << 20

// Validate requires image content for image pictures and bounds its size.
func (in ProfilePictureInput) Validate() error {
	isImage := in.Type == ProfilePictureImage
	return validator.Apply(
		validator.OneOf("type", in.Type, ProfilePictureNone, ProfilePictureGravatar, ProfilePictureImage),
		validator.When(isImage, validator.Rule{
			Check: func() bool { return len(in.ImageContent) > 0 },
			Error: validator.ValidationError{
				Field:          "imageContent",
				Message:        "field is required",
				TranslationKey: "validation.required",
				TranslationValues: map[string]any{
					"field": "imageContent",
				},
			},
		}),
		validator.When(isImage, validator.Between("imageContent", len(in.ImageContent), 0, MaxProfilePictureSize)),
	)
}

type twoFactorEnabledInput struct {
	Enabled bool `json:"enabled"`
}
