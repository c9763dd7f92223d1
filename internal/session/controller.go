// Package session mantiene el estado de autenticacion del dashboard.
//
// Un unico Controller se construye al arrancar el proceso y se inyecta en
// el App Shell. Bootstrap lee el token store una sola vez; Login y Logout
// persisten y actualizan el estado en memoria antes de devolver el control,
// de modo que el siguiente Snapshot ya refleja el resultado.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"leadsfynder/internal/authapi"
	"leadsfynder/internal/domain"
)

var ErrLoginSuperseded = errors.New("login superseded by logout")

const persistFailureMessage = "Login succeeded but the session could not be saved"

// CredentialStore es el subconjunto del token store que usa el controller.
type CredentialStore interface {
	Read(ctx context.Context) (*domain.Credential, error)
	Write(ctx context.Context, cred domain.Credential) error
	Clear(ctx context.Context) error
}

type Option func(*Controller)

// WithLogoutTimeout limita la espera de la notificacion remota de logout.
func WithLogoutTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.logoutTimeout = d
		}
	}
}

// WithExpiryCheck activa el descarte de JWT vencidos en Bootstrap.
func WithExpiryCheck(enabled bool) Option {
	return func(c *Controller) {
		c.expiryCheck = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type Controller struct {
	logger        *zap.Logger
	store         CredentialStore
	auth          authapi.Client
	logoutTimeout time.Duration
	expiryCheck   bool
	now           func() time.Time

	bootOnce sync.Once

	// commitMu serializa persistencia + cambio de estado.
	commitMu    sync.Mutex
	logoutEpoch uint64
	commitSeq   uint64

	// notifyMu serializa entregas; notifiedSeq descarta snapshots viejos.
	notifyMu    sync.Mutex
	notifiedSeq uint64

	mu            sync.RWMutex
	user          *domain.UserProfile
	token         string
	authenticated bool
	loading       bool

	subMu   sync.Mutex
	subs    map[int]func(domain.Snapshot)
	nextSub int
}

func NewController(logger *zap.Logger, store CredentialStore, auth authapi.Client, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		logger:        logger,
		store:         store,
		auth:          auth,
		logoutTimeout: 5 * time.Second,
		expiryCheck:   true,
		now:           time.Now,
		loading:       true,
		subs:          make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bootstrap deriva el estado inicial del token store. Solo la primera
// llamada tiene efecto; isLoading pasa a false exactamente una vez.
func (c *Controller) Bootstrap(ctx context.Context) domain.Snapshot {
	c.bootOnce.Do(func() {
		cred := c.loadCredential(ctx)

		c.commitMu.Lock()
		c.mu.Lock()
		c.setCredentialLocked(cred)
		c.loading = false
		snap := c.snapshotLocked()
		c.mu.Unlock()
		seq := c.nextSeqLocked()
		c.commitMu.Unlock()

		c.logger.Info("session bootstrapped", zap.Bool("authenticated", snap.IsAuthenticated))
		c.notify(seq, snap)
	})
	return c.Snapshot()
}

func (c *Controller) loadCredential(ctx context.Context) (cred *domain.Credential) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("bootstrap recovered from panic", zap.Any("panic", r))
			cred = nil
		}
	}()

	stored, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Warn("read stored session failed", zap.Error(err))
		return nil
	}
	if stored == nil {
		return nil
	}
	if c.expiryCheck && tokenExpired(stored.Token, c.now()) {
		c.logger.Info("stored token expired, clearing")
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn("clear expired session failed", zap.Error(err))
		}
		return nil
	}
	return stored
}

// Login autentica contra el backend. Con exito, el token store y el estado
// en memoria quedan actualizados antes de devolver el resultado.
func (c *Controller) Login(ctx context.Context, email, password string) domain.AuthResult {
	c.Bootstrap(ctx)

	c.commitMu.Lock()
	epoch := c.logoutEpoch
	c.commitMu.Unlock()

	result := c.auth.Login(ctx, email, password)
	if !result.Success {
		c.logger.Info("login failed", zap.String("message", result.Message))
		return result
	}
	if result.Data == nil || !result.Data.Valid() {
		c.logger.Warn("login response without complete credential")
		return domain.Failure(authapi.ErrIncompleteCredential.Error())
	}
	cred := *result.Data

	c.commitMu.Lock()
	if c.logoutEpoch != epoch {
		c.commitMu.Unlock()
		c.logger.Info("discarding login completed after logout")
		return domain.Failure(ErrLoginSuperseded.Error())
	}
	if err := c.store.Write(ctx, cred); err != nil {
		c.logger.Error("persist session failed", zap.Error(err))
		// Un Write fallido puede haber borrado el par anterior: el estado en
		// memoria pasa a ser lo que quede en el store.
		snap, seq := c.resyncLocked(context.WithoutCancel(ctx))
		c.commitMu.Unlock()
		c.notify(seq, snap)
		return domain.Failure(persistFailureMessage)
	}
	c.mu.Lock()
	c.setCredentialLocked(&cred)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	seq := c.nextSeqLocked()
	c.commitMu.Unlock()

	c.logger.Info("login succeeded", zap.String("user_id", cred.User.ID))
	c.notify(seq, snap)
	return result
}

// Logout notifica al backend (best effort) y siempre limpia la sesion local.
func (c *Controller) Logout(ctx context.Context) domain.Snapshot {
	c.Bootstrap(ctx)

	token := c.Token()
	remoteCtx, cancel := context.WithTimeout(ctx, c.logoutTimeout)
	if err := c.auth.Logout(remoteCtx, token); err != nil {
		c.logger.Warn("remote logout failed", zap.Error(err))
	}
	cancel()

	c.commitMu.Lock()
	c.logoutEpoch++
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("clear session failed", zap.Error(err))
	}
	c.mu.Lock()
	c.setCredentialLocked(nil)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	seq := c.nextSeqLocked()
	c.commitMu.Unlock()

	c.logger.Info("logged out")
	c.notify(seq, snap)
	return snap
}

// Register delega en el backend; no modifica la sesion.
func (c *Controller) Register(ctx context.Context, input domain.RegisterInput) domain.AuthResult {
	result := c.auth.Register(ctx, input)
	if !result.Success {
		c.logger.Info("register failed", zap.String("message", result.Message))
	}
	return result
}

func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Token devuelve el bearer token actual o "" sin sesion.
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Subscribe registra un observador que recibe los snapshots confirmados en
// orden de commit. Se llama de forma sincrona: no debe invocar Login ni
// Logout del mismo controller.
func (c *Controller) Subscribe(fn func(domain.Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// notify entrega snap si es mas nuevo que el ultimo entregado. Un commit que
// llega tarde a notificar se descarta; el estado final siempre se entrega.
func (c *Controller) notify(seq uint64, snap domain.Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.notifiedSeq {
		return
	}
	c.notifiedSeq = seq

	c.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// nextSeqLocked requiere commitMu.
func (c *Controller) nextSeqLocked() uint64 {
	c.commitSeq++
	return c.commitSeq
}

// resyncLocked alinea el estado en memoria con el store. Requiere commitMu.
// Si el store no se puede leer, la sesion queda cerrada.
func (c *Controller) resyncLocked(ctx context.Context) (domain.Snapshot, uint64) {
	cred, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Warn("re-read stored session failed", zap.Error(err))
		cred = nil
	}
	c.mu.Lock()
	c.setCredentialLocked(cred)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	return snap, c.nextSeqLocked()
}

func (c *Controller) setCredentialLocked(cred *domain.Credential) {
	if cred == nil {
		c.user = nil
		c.token = ""
		c.authenticated = false
		return
	}
	user := cred.User
	c.user = &user
	c.token = cred.Token
	c.authenticated = true
}

func (c *Controller) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		IsAuthenticated: c.authenticated,
		IsLoading:       c.loading,
	}
	if c.user != nil {
		user := *c.user
		snap.User = &user
	}
	return snap
}
