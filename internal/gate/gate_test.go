package gate_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/auth"
	"github.com/reliefops/duty-management/internal/core/events"
	"github.com/reliefops/duty-management/internal/gate"
	"github.com/reliefops/duty-management/internal/personnel"
)

func TestGate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gate Suite")
}

// fakeProvider is a controllable stand-in for the auth service.
type fakeProvider struct {
	mu       sync.Mutex
	identity *gate.Identity
	signOuts int
	// when set, CurrentSession blocks until the channel closes, which lets a
	// spec hold a resolution in flight while newer auth events land
	block chan struct{}
	bus   *events.EventBus
}

func (p *fakeProvider) CurrentSession() (*gate.Identity, error) {
	p.mu.Lock()
	block := p.block
	p.mu.Unlock()
	if block != nil {
		<-block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity == nil {
		return nil, nil
	}
	copied := *p.identity
	return &copied, nil
}

func (p *fakeProvider) SignOut() error {
	p.mu.Lock()
	p.signOuts++
	identity := p.identity
	p.identity = nil
	bus := p.bus
	p.mu.Unlock()

	if bus != nil && identity != nil {
		_ = bus.PublishSync(context.Background(), auth.NewAuthEvent(auth.EventSignedOut, identity.ID, identity.Email))
	}
	return nil
}

func (p *fakeProvider) signOutCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signOuts
}

// fakeProfiles is an in-memory gate.ProfileStore.
type fakeProfiles struct {
	mu   sync.Mutex
	byID map[string]*personnel.Personnel
}

func (f *fakeProfiles) GetByID(id string) (*personnel.Personnel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, personnel.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) GetByEmail(email string) (*personnel.Personnel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Email != nil && *p.Email == email {
			return p, nil
		}
	}
	return nil, personnel.ErrNotFound
}

func (f *fakeProfiles) put(p *personnel.Personnel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID] = p
}

var _ = Describe("Gate", func() {
	var (
		provider *fakeProvider
		profiles *fakeProfiles
		bus      *events.EventBus
		g        *gate.Gate
		logger   *slog.Logger
	)

	protected := gate.Route{Path: "/dashboard"}
	adminOnly := gate.Route{Path: "/personnel", AdminOnly: true}
	login := gate.Route{Path: "/login", Public: true}

	activeProfile := func(id, email string, role personnel.Role) *personnel.Personnel {
		return &personnel.Personnel{ID: id, Name: "someone", Email: &email, Role: role, IsActive: true}
	}

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		bus = events.NewEventBus(logger)
		provider = &fakeProvider{bus: bus}
		profiles = &fakeProfiles{byID: make(map[string]*personnel.Personnel)}
		g = gate.NewGate(provider, profiles, bus, logger)
	})

	AfterEach(func() {
		g.Close()
	})

	Describe("before resolution finishes", func() {
		It("starts uninitialized and admits nothing", func() {
			Expect(g.Snapshot().State).To(Equal(gate.StateUninitialized))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionWait))
			Expect(g.Decide(login)).To(Equal(gate.DecisionWait))
		})

		It("answers wait while a resolution is in flight", func() {
			provider.block = make(chan struct{})
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}

			done := make(chan struct{})
			go func() {
				defer close(done)
				g.Start()
			}()

			Eventually(func() gate.State { return g.Snapshot().State }).Should(Equal(gate.StateLoading))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionWait))

			close(provider.block)
			<-done
		})
	})

	Describe("with no session", func() {
		BeforeEach(func() {
			g.Start()
		})

		It("settles unauthenticated", func() {
			Expect(g.Snapshot().State).To(Equal(gate.StateUnauthenticated))
		})

		It("sends protected routes to login and admits public ones", func() {
			Expect(g.Decide(protected)).To(Equal(gate.DecisionLogin))
			Expect(g.Decide(adminOnly)).To(Equal(gate.DecisionLogin))
			Expect(g.Decide(login)).To(Equal(gate.DecisionAdmit))
		})
	})

	Describe("with a session and an active profile", func() {
		BeforeEach(func() {
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			profiles.put(activeProfile("u1", "u1@mail.com", personnel.RoleVolunteer))
			g.Start()
		})

		It("settles authenticated with the profile attached", func() {
			snap := g.Snapshot()
			Expect(snap.State).To(Equal(gate.StateAuthenticated))
			Expect(snap.Profile).NotTo(BeNil())
			Expect(snap.Profile.ID).To(Equal("u1"))
		})

		It("admits protected routes and bounces public ones home", func() {
			Expect(g.Decide(protected)).To(Equal(gate.DecisionAdmit))
			Expect(g.Decide(login)).To(Equal(gate.DecisionHome))
		})

		It("bounces non-admins off admin routes", func() {
			Expect(g.Decide(adminOnly)).To(Equal(gate.DecisionHome))
		})

		It("drops to unauthenticated on a signed-out event", func() {
			_ = bus.PublishSync(context.Background(), auth.NewAuthEvent(auth.EventSignedOut, "u1", "u1@mail.com"))
			Expect(g.Snapshot().State).To(Equal(gate.StateUnauthenticated))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionLogin))
		})
	})

	Describe("with an admin profile", func() {
		It("admits admin routes", func() {
			provider.identity = &gate.Identity{ID: "a1", Email: "a1@mail.com"}
			profiles.put(activeProfile("a1", "a1@mail.com", personnel.RoleAdmin))
			g.Start()

			Expect(g.Decide(adminOnly)).To(Equal(gate.DecisionAdmit))
		})
	})

	Describe("profile resolution", func() {
		It("falls back to an email match when the id has no profile", func() {
			provider.identity = &gate.Identity{ID: "account-1", Email: "pre@mail.com"}
			profiles.put(activeProfile("profile-1", "pre@mail.com", personnel.RoleStaff))
			g.Start()

			snap := g.Snapshot()
			Expect(snap.State).To(Equal(gate.StateAuthenticated))
			Expect(snap.Profile.ID).To(Equal("profile-1"))
		})
	})

	Describe("denied identities", func() {
		It("signs out an identity without any profile, exactly once", func() {
			provider.identity = &gate.Identity{ID: "ghost", Email: "ghost@mail.com"}
			g.Start()

			Expect(g.Snapshot().State).To(Equal(gate.StateUnauthenticated))
			Expect(provider.signOutCount()).To(Equal(1))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionLogin))
		})

		It("signs out an identity whose profile was deactivated", func() {
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			profile := activeProfile("u1", "u1@mail.com", personnel.RoleStaff)
			profiles.put(profile)
			g.Start()
			Expect(g.Snapshot().State).To(Equal(gate.StateAuthenticated))

			// admin flips the switch; the next resolution denies the session
			profile.IsActive = false
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			g.Start()

			Expect(g.Snapshot().State).To(Equal(gate.StateUnauthenticated))
			Expect(provider.signOutCount()).To(Equal(1))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionLogin))
		})
	})

	Describe("racing resolutions", func() {
		It("discards a stale resolution that loses to a newer sign-out", func() {
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			profiles.put(activeProfile("u1", "u1@mail.com", personnel.RoleStaff))
			provider.block = make(chan struct{})

			done := make(chan struct{})
			go func() {
				defer close(done)
				g.Start()
			}()
			Eventually(func() gate.State { return g.Snapshot().State }).Should(Equal(gate.StateLoading))

			// the user signs out while the first resolution is still in flight
			_ = bus.PublishSync(context.Background(), auth.NewAuthEvent(auth.EventSignedOut, "u1", "u1@mail.com"))
			Expect(g.Snapshot().State).To(Equal(gate.StateUnauthenticated))

			// the slow resolution finishes with a stale generation and must not
			// resurrect the session
			close(provider.block)
			<-done
			Consistently(func() gate.State { return g.Snapshot().State }).Should(Equal(gate.StateUnauthenticated))
		})
	})

	Describe("subscribers", func() {
		It("observes every transition and can detach", func() {
			var mu sync.Mutex
			var states []gate.State
			unsub := g.Subscribe(func(snap gate.Snapshot) {
				mu.Lock()
				states = append(states, snap.State)
				mu.Unlock()
			})

			g.Start()

			mu.Lock()
			Expect(states).To(Equal([]gate.State{gate.StateLoading, gate.StateUnauthenticated}))
			mu.Unlock()

			unsub()
			_ = bus.PublishSync(context.Background(), auth.NewAuthEvent(auth.EventSignedOut, "", ""))

			mu.Lock()
			Expect(states).To(HaveLen(2))
			mu.Unlock()
		})
	})

	Describe("signed-in events", func() {
		It("re-resolves and admits the fresh session", func() {
			Expect(g.Decide(protected)).To(Equal(gate.DecisionWait))

			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			profiles.put(activeProfile("u1", "u1@mail.com", personnel.RoleStaff))
			_ = bus.PublishSync(context.Background(), auth.NewAuthEvent(auth.EventSignedIn, "u1", "u1@mail.com"))

			Expect(g.Snapshot().State).To(Equal(gate.StateAuthenticated))
			Expect(g.Decide(protected)).To(Equal(gate.DecisionAdmit))
		})
	})

	Describe("unconfigured profile store", func() {
		It("settles unauthenticated instead of failing", func() {
			provider.identity = &gate.Identity{ID: "u1", Email: "u1@mail.com"}
			unconfigured := &notConfiguredProfiles{}
			g2 := gate.NewGate(provider, unconfigured, bus, logger)
			defer g2.Close()

			g2.Start()
			Expect(g2.Snapshot().State).To(Equal(gate.StateUnauthenticated))
		})
	})
})

type notConfiguredProfiles struct{}

func (notConfiguredProfiles) GetByID(string) (*personnel.Personnel, error) {
	return nil, internal.ErrNotConfigured
}

func (notConfiguredProfiles) GetByEmail(string) (*personnel.Personnel, error) {
	return nil, internal.ErrNotConfigured
}
