package gate

import "github.com/reliefops/duty-management/internal/auth"

// TokenSource supplies the access token of the session this gate guards.
// Embedding clients typically back this with their credential storage.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed token, mostly useful in tests and
// one-shot tooling.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// ServiceProvider adapts the auth service to the gate's AuthProvider
// contract.
type ServiceProvider struct {
	Auth   *auth.Service
	Tokens TokenSource
}

func (p *ServiceProvider) CurrentSession() (*Identity, error) {
	session, err := p.Auth.GetSession(p.Tokens.Token())
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return &Identity{ID: session.UserID, Email: session.Email}, nil
}

func (p *ServiceProvider) SignOut() error {
	return p.Auth.SignOut(p.Tokens.Token())
}
