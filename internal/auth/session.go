package auth

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/moufette/console/internal/domain"
)

func init() {
	gob.Register(uuid.UUID{})
	gob.Register(SessionData{})
}

// SessionCookieName is the name of the console session cookie.
const SessionCookieName = "moufette_session"

// SessionData is the signed and encrypted payload of the session cookie.
// It only identifies the user; the user record is loaded per request.
type SessionData struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionStore reads and writes the session cookie.
type SessionStore struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionStore creates a session store.
// The secret must be at least 64 bytes: first 32 for hash key, next 32 for block key.
func NewSessionStore(secret string, maxAge time.Duration, secure bool) *SessionStore {
	codec := securecookie.New([]byte(secret)[:32], []byte(secret)[32:64])
	// securecookie enforces its own expiry on top of ExpiresAt; keep them equal
	codec.MaxAge(int(maxAge.Seconds()))

	return &SessionStore{
		codec:  codec,
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// Read decodes the session cookie. A missing, tampered or expired cookie is
// reported as no session; none of those are errors for the caller.
func (s *SessionStore) Read(r *http.Request) (*SessionData, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	var data SessionData
	if err := s.codec.Decode(SessionCookieName, cookie.Value, &data); err != nil {
		return nil, false
	}
	if !s.now().Before(data.ExpiresAt) || data.UserID == uuid.Nil {
		return nil, false
	}

	return &data, true
}

// Issue writes a fresh session cookie for u.
func (s *SessionStore) Issue(w http.ResponseWriter, u *domain.User) error {
	now := s.now()
	data := SessionData{
		UserID:    u.ID,
		Email:     u.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.maxAge),
	}

	encoded, err := s.codec.Encode(SessionCookieName, data)
	if err != nil {
		return err
	}

	http.SetCookie(w, s.cookie(encoded, int(s.maxAge.Seconds())))
	return nil
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *SessionStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
