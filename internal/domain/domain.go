// Package domain holds the console's entities and their validation rules.
package domain

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lookup and uniqueness errors returned by stores.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email is already registered")
	ErrKeyTaken   = errors.New("property key is already in use")
)

// Validation errors
var (
	ErrInvalidEmail      = errors.New("email address is not valid")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidColor      = errors.New("color must be a hex value like #1890ff")
	ErrMessageRequired   = errors.New("feedback message is required")
	ErrTitleRequired     = errors.New("feature title is required")
	ErrInvalidKind       = errors.New("integration kind must be slack or webhook")
	ErrInvalidTargetURL  = errors.New("integration target must be an https URL")
	ErrPropertyNotOwned  = errors.New("property does not belong to the current account")
	ErrWrongPassword     = errors.New("password does not match")
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")
)

// Password length bounds, in bytes. bcrypt reads at most 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User is an account holder of the console.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Property is a tenant site the widget is installed on.
type Property struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Domain    string
	Key       string
	CreatedAt time.Time
}

// WidgetSettings configures how the widget looks on a property.
type WidgetSettings struct {
	PropertyID   uuid.UUID
	AppName      string
	PrimaryColor string
	Enabled      bool
	UpdatedAt    time.Time
}

// Feedback is a message left by a visitor through the widget.
type Feedback struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Message    string
	Email      string
	Page       string
	CreatedAt  time.Time
}

// Feature is an item visitors can vote for.
type Feature struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	Title       string
	Description string
	Votes       int
	CreatedAt   time.Time
}

// IntegrationKind names a notification target.
type IntegrationKind string

const (
	IntegrationSlack   IntegrationKind = "slack"
	IntegrationWebhook IntegrationKind = "webhook"
)

// Integration forwards widget events to an external service.
// Target is the plaintext URL; the stores only see TargetCipher and TargetNonce.
type Integration struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	Kind         IntegrationKind
	Target       string
	TargetCipher []byte
	TargetNonce  []byte
	Enabled      bool
	CreatedAt    time.Time
}

var colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultWidgetSettings returns the settings used before a property is configured.
func DefaultWidgetSettings(propertyID uuid.UUID) WidgetSettings {
	return WidgetSettings{
		PropertyID:   propertyID,
		AppName:      "Moufette",
		PrimaryColor: "#1890ff",
		Enabled:      true,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// Validate checks widget settings before they are saved.
func (s WidgetSettings) Validate() error {
	if strings.TrimSpace(s.AppName) == "" {
		return ErrNameRequired
	}
	if !colorRegex.MatchString(s.PrimaryColor) {
		return ErrInvalidColor
	}
	return nil
}

// ParseIntegrationKind maps form input to a known kind.
func ParseIntegrationKind(s string) (IntegrationKind, error) {
	switch IntegrationKind(strings.ToLower(strings.TrimSpace(s))) {
	case IntegrationSlack:
		return IntegrationSlack, nil
	case IntegrationWebhook:
		return IntegrationWebhook, nil
	}
	return "", ErrInvalidKind
}

// ValidateTarget requires an https URL.
func ValidateTarget(target string) error {
	if !strings.HasPrefix(target, "https://") || len(target) <= len("https://") {
		return ErrInvalidTargetURL
	}
	return nil
}

// MaskTarget hides all but the scheme, host and last four characters of a target URL.
func MaskTarget(target string) string {
	rest := strings.TrimPrefix(target, "https://")
	host, _, _ := strings.Cut(rest, "/")
	if len(target) <= 4 {
		return "****"
	}
	return "https://" + host + "/…" + target[len(target)-4:]
}
