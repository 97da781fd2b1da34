package pages

// Codes carried in the error and notice query parameters of form redirects.
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInvalidEmail       = "invalid_email"
	ErrCodePasswordTooShort   = "password_too_short"
	ErrCodePasswordTooLong    = "password_too_long"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeNameRequired       = "name_required"
	ErrCodeInvalidColor       = "invalid_color"
	ErrCodeTitleRequired      = "title_required"
	ErrCodeInvalidKind        = "invalid_kind"
	ErrCodeInvalidTarget      = "invalid_target"
	ErrCodeWrongPassword      = "wrong_password"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeNoProperty         = "no_property"
	ErrCodeDatabase           = "database"

	NoticeSaved         = "saved"
	NoticeResetSent     = "reset_sent"
	NoticePasswordReset = "password_reset"
	NoticeCreated       = "created"
	NoticeDeleted       = "deleted"
)

var messages = map[string]string{
	ErrCodeInvalidCredentials: "Email or password is incorrect.",
	ErrCodeInvalidEmail:       "Enter a valid email address.",
	ErrCodePasswordTooShort:   "Passwords need at least 8 characters.",
	ErrCodePasswordTooLong:    "Passwords can be at most 72 bytes long.",
	ErrCodeEmailTaken:         "An account already uses this email.",
	ErrCodeNameRequired:       "A name is required.",
	ErrCodeInvalidColor:       "Colors are written as #rrggbb.",
	ErrCodeTitleRequired:      "A title is required.",
	ErrCodeInvalidKind:        "Pick Slack or webhook.",
	ErrCodeInvalidTarget:      "Targets must be https URLs.",
	ErrCodeWrongPassword:      "The current password is wrong.",
	ErrCodeInvalidToken:       "This reset link is invalid or has expired.",
	ErrCodeNoProperty:         "Create a property first.",
	ErrCodeDatabase:           "Something went wrong. Try again.",

	NoticeSaved:         "Saved.",
	NoticeResetSent:     "If an account exists for this email, a reset link is on its way.",
	NoticePasswordReset: "Your password was changed. Log in with the new one.",
	NoticeCreated:       "Created.",
	NoticeDeleted:       "Deleted.",
}

// Message returns the text for an error or notice code. Unknown codes
// get a generic message so arbitrary query values are never echoed.
func Message(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ErrCodeDatabase]
}

// Flash is the pair of messages read from a redirect.
type Flash struct {
	Error  string
	Notice string
}
