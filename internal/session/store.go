package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"coursecompare/internal/domain"
	"coursecompare/internal/nav"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// TokenIssuer intercambia credenciales por un par de tokens (POST /token/).
type TokenIssuer interface {
	ObtainToken(ctx context.Context, username, password string) (domain.TokenPair, error)
}

// Snapshot es una copia inmutable del estado de sesión.
type Snapshot struct {
	Token           string       `json:"-"`
	RefreshToken    string       `json:"-"`
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Store es el único dueño del estado de sesión del proceso. Token, usuario
// y flag de autenticación cambian siempre juntos bajo el mismo lock.
type Store struct {
	mu      sync.RWMutex
	token   string
	refresh string
	user    *domain.User

	storage Storage
	issuer  TokenIssuer
	logger  *zap.Logger
	now     func() time.Time
}

func NewStore(storage Storage, issuer TokenIssuer, logger *zap.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: storage,
		issuer:  issuer,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Token:           s.token,
		RefreshToken:    s.refresh,
		IsAuthenticated: s.token != "",
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Hydrate reconstruye la sesión desde el storage al arrancar. Sólo queda
// autenticada si existen token y usuario; un JWT vencido limpia lo persistido.
func (s *Store) Hydrate(ctx context.Context) error {
	rec, err := s.storage.Load(ctx)
	if err != nil {
		s.set("", "", nil)
		return fmt.Errorf("load session: %w", err)
	}
	if rec.Token == "" || rec.User == "" {
		s.set("", "", nil)
		return nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rec.User), &user); err != nil {
		s.logger.Warn("discarding unreadable persisted user", zap.Error(err))
		s.set("", "", nil)
		return s.clearStorage(ctx)
	}
	if Expired(rec.Token, s.now()) {
		s.logger.Info("persisted token expired, clearing session")
		s.set("", "", nil)
		return s.clearStorage(ctx)
	}

	s.set(rec.Token, rec.RefreshToken, &user)
	s.logger.Debug("session hydrated", zap.String("username", user.Username))
	return nil
}

// Login envía credenciales al backend. Ante cualquier fallo devuelve
// ErrInvalidCredentials y no escribe nada.
func (s *Store) Login(ctx context.Context, username, password string) error {
	if s.issuer == nil {
		return errors.New("session store has no token issuer")
	}
	pair, err := s.issuer.ObtainToken(ctx, username, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if strings.TrimSpace(pair.Access) == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidCredentials)
	}

	user := domain.User{Username: username}
	if pair.User != nil {
		user = *pair.User
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Save(ctx, Record{Token: pair.Access, RefreshToken: pair.Refresh, User: string(rawUser)}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.set(pair.Access, pair.Refresh, &user)
	s.logger.Info("logged in", zap.String("username", user.Username))
	nav.Navigate(ctx, nav.Home)
	return nil
}

// Logout limpia todo y vuelve a la home. Nunca falla localmente.
func (s *Store) Logout(ctx context.Context) {
	s.Invalidate(ctx)
	nav.Navigate(ctx, nav.Home)
}

// Invalidate limpia la sesión sin navegar. Se usa ante un 401 o un token vencido.
func (s *Store) Invalidate(ctx context.Context) {
	s.set("", "", nil)
	if err := s.clearStorage(ctx); err != nil {
		s.logger.Warn("clear persisted session failed", zap.Error(err))
	}
}

// UpdateUser reemplaza el snapshot del usuario; el token no cambia.
func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ErrNotAuthenticated
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Save(ctx, Record{Token: s.token, RefreshToken: s.refresh, User: string(rawUser)}); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = &user
	return nil
}

// CheckExpiry invalida la sesión si el token es un JWT vencido. Devuelve true si la invalidó.
func (s *Store) CheckExpiry(ctx context.Context) bool {
	snap := s.Snapshot()
	if !snap.IsAuthenticated || !Expired(snap.Token, s.now()) {
		return false
	}
	s.logger.Info("access token expired", zap.String("username", usernameOf(snap.User)))
	s.Invalidate(ctx)
	return true
}

func (s *Store) set(token, refresh string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		s.token, s.refresh, s.user = "", "", nil
		return
	}
	s.token, s.refresh, s.user = token, refresh, user
}

func (s *Store) clearStorage(ctx context.Context) error {
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func usernameOf(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
