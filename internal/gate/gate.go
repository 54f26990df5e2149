package gate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/auth"
	"github.com/reliefops/duty-management/internal/core/events"
	"github.com/reliefops/duty-management/internal/personnel"
)

// State of the session gate. The gate starts uninitialized, moves to loading
// while the current session and profile are being resolved, and settles in
// either unauthenticated or authenticated. It never reports authenticated
// with a missing or inactive profile; those identities are signed out during
// resolution instead.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Identity is the authenticated account behind a session, before any
// personnel profile has been attached to it.
type Identity struct {
	ID    string
	Email string
}

// AuthProvider is the slice of the auth service the gate drives: reading the
// current session and tearing it down when the profile check denies it.
type AuthProvider interface {
	CurrentSession() (*Identity, error)
	SignOut() error
}

// Route describes what a destination demands from the caller. Public routes
// (the login screen) admit anonymous callers and bounce authenticated ones.
type Route struct {
	Path      string
	Public    bool
	AdminOnly bool
}

// Decision is the gate's verdict for a route.
type Decision string

const (
	// DecisionWait: resolution is still in flight; render nothing yet.
	DecisionWait Decision = "wait"
	// DecisionLogin: no admissible identity; go to the login route.
	DecisionLogin Decision = "login"
	// DecisionHome: admissible but wrong destination; go to the default route.
	DecisionHome Decision = "home"
	DecisionAdmit Decision = "admit"
)

// Snapshot is an immutable view of the gate handed to subscribers.
type Snapshot struct {
	State    State
	Identity *Identity
	Profile  *personnel.Personnel
}

// Gate is the session/authorization state machine guarding a client session.
// It resolves the auth provider's session into a personnel profile, tracks
// auth state changes through the event bus, and answers admission questions
// for routes. All methods are safe for concurrent use.
type Gate struct {
	provider AuthProvider
	resolver *Resolver
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	identity *Identity
	profile  *personnel.Personnel
	// generation invalidates in-flight resolutions: only the resolution that
	// still holds the latest generation may publish its outcome, so a slow
	// lookup can never overwrite the result of a newer auth change.
	generation uint64

	subs       map[int]func(Snapshot)
	nextSubID  int
	unsubs     []func()
}

func NewGate(provider AuthProvider, profiles ProfileStore, bus *events.EventBus, logger *slog.Logger) *Gate {
	g := &Gate{
		provider: provider,
		resolver: NewResolver(profiles),
		logger:   logger,
		state:    StateUninitialized,
		subs:     make(map[int]func(Snapshot)),
	}

	if bus != nil {
		g.unsubs = append(g.unsubs,
			bus.Subscribe(auth.EventSignedIn, g.onSignedIn),
			bus.Subscribe(auth.EventSignedOut, g.onSignedOut),
		)
	}
	return g
}

// Start performs the initial session resolution. Call once after wiring.
func (g *Gate) Start() {
	g.resolve(g.begin())
}

// Close detaches the gate from the event bus.
func (g *Gate) Close() {
	for _, unsub := range g.unsubs {
		unsub()
	}
}

// Subscribe registers an observer called on every state transition, and
// returns a function that removes it.
func (g *Gate) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextSubID++
	id := g.nextSubID
	g.subs[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// Snapshot returns the current state.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{State: g.state, Identity: g.identity, Profile: g.profile}
}

// Decide answers whether the current session may enter the route. While
// resolution is in flight the answer is always wait; nothing is admitted or
// bounced off a half-built state.
func (g *Gate) Decide(route Route) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateUninitialized, StateLoading:
		return DecisionWait
	case StateUnauthenticated:
		if route.Public {
			return DecisionAdmit
		}
		return DecisionLogin
	}

	// authenticated
	if route.Public {
		return DecisionHome
	}
	if route.AdminOnly && (g.profile == nil || g.profile.Role != personnel.RoleAdmin) {
		return DecisionHome
	}
	return DecisionAdmit
}

// begin moves the gate into loading and claims a new resolution generation.
func (g *Gate) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.setLocked(StateLoading, g.identity, g.profile)
	return g.generation
}

// resolve runs one full session-to-profile resolution for the generation it
// was started under. A stale generation's outcome is discarded wholesale,
// including its forced sign-out.
func (g *Gate) resolve(gen uint64) {
	identity, err := g.provider.CurrentSession()
	if err != nil {
		if appErr, ok := internal.IsAppError(err); !ok || appErr != internal.ErrNotConfigured {
			g.logger.Error("session lookup failed", "error", err)
		}
		g.apply(gen, StateUnauthenticated, nil, nil)
		return
	}
	if identity == nil {
		g.apply(gen, StateUnauthenticated, nil, nil)
		return
	}

	profile, err := g.resolver.Resolve(identity.ID, identity.Email)
	if err != nil {
		switch {
		case err == internal.ErrProfileMissing, err == internal.ErrProfileInactive:
			g.denyAndSignOut(gen, identity, err)
		default:
			g.logger.Error("profile resolution failed", "error", err, "user_id", identity.ID)
			g.apply(gen, StateUnauthenticated, nil, nil)
		}
		return
	}

	g.apply(gen, StateAuthenticated, identity, profile)
}

// denyAndSignOut tears the session down after a profile denial. The
// generation check makes the sign-out happen at most once per denial even
// when resolutions race.
func (g *Gate) denyAndSignOut(gen uint64, identity *Identity, cause error) {
	g.mu.Lock()
	if gen != g.generation {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	g.logger.Warn("denying session with unusable profile",
		"user_id", identity.ID,
		"email", identity.Email,
		"cause", cause)

	if err := g.provider.SignOut(); err != nil {
		g.logger.Error("forced sign-out failed", "error", err, "user_id", identity.ID)
	}
	g.apply(gen, StateUnauthenticated, nil, nil)
}

func (g *Gate) apply(gen uint64, state State, identity *Identity, profile *personnel.Personnel) {
	g.mu.Lock()
	if gen != g.generation {
		g.mu.Unlock()
		g.logger.Debug("discarding stale resolution", "generation", gen)
		return
	}
	g.setLocked(state, identity, profile)
	g.mu.Unlock()
}

// setLocked updates state and notifies subscribers. Caller holds g.mu, so
// subscriber callbacks must not call back into the gate.
func (g *Gate) setLocked(state State, identity *Identity, profile *personnel.Personnel) {
	g.state = state
	g.identity = identity
	g.profile = profile

	snap := Snapshot{State: state, Identity: identity, Profile: profile}
	for _, fn := range g.subs {
		fn(snap)
	}
}

func (g *Gate) onSignedIn(ctx context.Context, event events.Event) error {
	g.resolve(g.begin())
	return nil
}

// onSignedOut does not re-resolve: a sign-out is authoritative, the gate
// drops straight to unauthenticated and bumps the generation so any slower
// in-flight resolution is discarded.
func (g *Gate) onSignedOut(ctx context.Context, event events.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.setLocked(StateUnauthenticated, nil, nil)
	return nil
}
