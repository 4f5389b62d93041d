package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
)

type clientAuthService struct {
	sessions store.SessionStore
	gateway  adapter.AuthGateway
	logger   *logger.Logger
	now      func() time.Time

	mu        sync.RWMutex
	session   models.Session
	signedIn  bool
	listeners map[int]func(models.Session, bool)
	nextID    int

	prompts chan struct{}
}

func NewClientAuthService(sessions store.SessionStore, gateway adapter.AuthGateway, log *logger.Logger) ClientAuthService {
	return &clientAuthService{
		sessions:  sessions,
		gateway:   gateway,
		logger:    log,
		now:       time.Now,
		listeners: make(map[int]func(models.Session, bool)),
		prompts:   make(chan struct{}, 1),
	}
}

func (a *clientAuthService) Session() (models.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.signedIn || !a.session.Valid(a.now()) {
		return models.Session{}, false
	}
	return a.session, true
}

// RequestAuth never blocks; pending requests collapse into one.
func (a *clientAuthService) RequestAuth() {
	select {
	case a.prompts <- struct{}{}:
	default:
	}
}

func (a *clientAuthService) AuthRequests() <-chan struct{} {
	return a.prompts
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) (models.Session, error) {
	user.Login = strings.TrimSpace(user.Login)
	if user.Login == "" || user.Password == "" {
		return models.Session{}, ErrInvalidDataProvided
	}

	session, err := a.gateway.Register(ctx, user)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}

	a.signIn(ctx, session)
	return session, nil
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) (models.Session, error) {
	user.Login = strings.TrimSpace(user.Login)
	if user.Login == "" || user.Password == "" {
		return models.Session{}, ErrInvalidDataProvided
	}

	session, err := a.gateway.Login(ctx, user)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}

	a.signIn(ctx, session)
	return session, nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	a.gateway.SetToken("")
	a.setSession(models.Session{}, false)

	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Err(err).Str("func", "*clientAuthService.Logout").Msg("error clearing stored session")
		return fmt.Errorf("error clearing stored session: %w", err)
	}
	return nil
}

func (a *clientAuthService) Restore(ctx context.Context) (models.Session, bool, error) {
	session, err := a.sessions.Load(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("error loading stored session: %w", err)
	}

	if !session.Valid(a.now()) {
		a.logger.Info().Str("login", session.Login).Msg("stored session expired")
		if err = a.sessions.Clear(ctx); err != nil {
			a.logger.Err(err).Str("func", "*clientAuthService.Restore").Msg("error clearing expired session")
		}
		return models.Session{}, false, nil
	}

	a.gateway.SetToken(session.Token)
	a.setSession(session, true)
	return session, true, nil
}

func (a *clientAuthService) OnAuthStateChange(fn func(models.Session, bool)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// signIn keeps the session even when persisting it fails; the user is
// signed in for this run either way.
func (a *clientAuthService) signIn(ctx context.Context, session models.Session) {
	if err := a.sessions.Save(ctx, session); err != nil {
		a.logger.Err(err).Str("func", "*clientAuthService.signIn").Msg("error persisting session")
	}
	a.setSession(session, true)
}

func (a *clientAuthService) setSession(session models.Session, signedIn bool) {
	a.mu.Lock()
	a.session, a.signedIn = session, signedIn
	listeners := make([]func(models.Session, bool), 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(session, signedIn)
	}
}
