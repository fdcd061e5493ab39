// Package session implements the server-side session: a mongo-backed
// record addressed by a signed HTTP-only cookie, carrying the
// authenticated user and one-shot flash notifications.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/model"
)

// CookieName is the session cookie, holding a signed token whose subject
// is the session record's id.
const CookieName = "session"

const (
	absoluteTTL = 7 * 24 * time.Hour
	rollingTTL  = 7 * time.Hour
)

const (
	sessionKey = "session"
	userKey    = "currentUser"
)

// Store is the session persistence the manager needs.
type Store interface {
	Insert(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Touch(ctx context.Context, id primitive.ObjectID, deadline, touchedAt time.Time) error
	PushFlash(ctx context.Context, id primitive.ObjectID, kind, message string) error
	PopFlash(ctx context.Context, id primitive.ObjectID) (map[string][]string, error)
}

// UserFinder resolves the session's user reference.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Manager issues, loads, and destroys sessions.
type Manager struct {
	store  Store
	users  UserFinder
	secret []byte
}

func NewManager(store Store, users UserFinder, secret string) *Manager {
	return &Manager{store: store, users: users, secret: []byte(secret)}
}

// Load resolves the request's session, creating an anonymous one when the
// cookie is missing, invalid, or expired, and exposes the current user to
// downstream stages. Expired records are deleted on sight.
func (m *Manager) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		s := m.resolve(c, now)
		if s == nil {
			var err error
			s, err = m.Issue(c, primitive.NilObjectID)
			if err != nil {
				c.Error(err)
				c.Abort()
				return
			}
		} else {
			m.roll(c, s, now)
		}

		c.Set(sessionKey, s)
		if s.Authenticated() {
			user, err := m.users.FindByID(c.Request.Context(), s.User)
			if err != nil {
				// Degrade to anonymous, but leave a trace.
				slog.Warn("failed to load session user", "user", s.User.Hex(), "error", err)
			} else {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

func (m *Manager) resolve(c *gin.Context, now time.Time) *model.Session {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	id, err := m.verify(token)
	if err != nil {
		return nil
	}
	s, err := m.store.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	if s.Expired(now) {
		if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return nil
	}
	return s
}

// roll re-issues the cookie with a fresh 7-hour max-age and persists the
// pushed-out deadline once more than half the rolling window has elapsed,
// keeping idle sessions from being rewritten on every request.
func (m *Manager) roll(c *gin.Context, s *model.Session, now time.Time) {
	m.setCookie(c, s)
	if now.Sub(s.TouchedAt) < rollingTTL/2 {
		return
	}
	s.Deadline = now.Add(rollingTTL)
	s.TouchedAt = now
	if err := m.store.Touch(c.Request.Context(), s.ID, s.Deadline, s.TouchedAt); err != nil {
		slog.Warn("failed to touch session", "error", err)
	}
}

// Issue creates a new session record (anonymous when userID is zero) and
// sets its cookie on the response.
func (m *Manager) Issue(c *gin.Context, userID primitive.ObjectID) (*model.Session, error) {
	now := time.Now()
	s := &model.Session{
		User:      userID,
		CreatedAt: now,
		ExpiresAt: now.Add(absoluteTTL),
		Deadline:  now.Add(rollingTTL),
		TouchedAt: now,
	}
	if err := m.store.Insert(c.Request.Context(), s); err != nil {
		return nil, err
	}
	m.setCookie(c, s)
	return s, nil
}

// Login rotates the current session into an authenticated one.
func (m *Manager) Login(c *gin.Context, userID primitive.ObjectID) error {
	if old := FromContext(c); old != nil {
		if err := m.store.Delete(c.Request.Context(), old.ID); err != nil {
			slog.Warn("failed to delete pre-login session", "error", err)
		}
	}
	s, err := m.Issue(c, userID)
	if err != nil {
		return err
	}
	c.Set(sessionKey, s)
	user, err := m.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	c.Set(userKey, user)
	return nil
}

// Logout destroys the current session and replaces it with an anonymous
// one, so a farewell flash still has somewhere to live.
func (m *Manager) Logout(c *gin.Context) error {
	if old := FromContext(c); old != nil {
		if err := m.store.Delete(c.Request.Context(), old.ID); err != nil {
			return err
		}
	}
	s, err := m.Issue(c, primitive.NilObjectID)
	if err != nil {
		return err
	}
	c.Set(sessionKey, s)
	c.Set(userKey, (*model.User)(nil))
	return nil
}

// Success attaches a one-shot success notification to the session.
func (m *Manager) Success(c *gin.Context, message string) {
	m.flash(c, model.FlashSuccess, message)
}

// Error attaches a one-shot error notification to the session.
func (m *Manager) Error(c *gin.Context, message string) {
	m.flash(c, model.FlashError, message)
}

func (m *Manager) flash(c *gin.Context, kind, message string) {
	s := FromContext(c)
	if s == nil {
		return
	}
	if err := m.store.PushFlash(c.Request.Context(), s.ID, kind, message); err != nil {
		slog.Warn("failed to push flash", "error", err)
	}
}

// PopFlash reads and clears the session's notifications. Called exactly
// once per rendered page.
func (m *Manager) PopFlash(c *gin.Context) map[string][]string {
	s := FromContext(c)
	if s == nil {
		return map[string][]string{}
	}
	flash, err := m.store.PopFlash(c.Request.Context(), s.ID)
	if err != nil {
		slog.Warn("failed to pop flash", "error", err)
		return map[string][]string{}
	}
	return flash
}

func (m *Manager) setCookie(c *gin.Context, s *model.Session) {
	token, err := m.sign(s)
	if err != nil {
		slog.Error("failed to sign session token", "error", err)
		return
	}
	c.SetCookie(CookieName, token, int(rollingTTL.Seconds()), "/", "", false, true)
}

func (m *Manager) sign(s *model.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.ID.Hex(),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) verify(token string) (primitive.ObjectID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid session token: %w", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(sub)
}

// FromContext returns the request's session, or nil outside Load.
func FromContext(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*model.Session)
	return s
}

// CurrentUser returns the authenticated user, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
