package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

// errInvalidCredentials is the single failure Login exposes for every
// credential problem, so a caller cannot tell which check failed.
var errInvalidCredentials = staffdir.NewError(staffdir.ErrorTypeInvalidCredentials,
	"invalid credentials")

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User    *entity.User
	Token   string
	Session *Session
}

// Gate authenticates staff against the user repository. An account
// signs in with either its email address or its serial number; the
// lookup folds case on both.
type Gate struct {
	users    staffdir.Repository[entity.User]
	hasher   *Hasher
	tokens   *TokenIssuer
	sessions *SessionStore
	log      *zap.Logger
}

// NewGate creates the authentication gate. sessions may be nil, in which
// case logins are stateless and carry only the signed token.
func NewGate(users staffdir.Repository[entity.User], hasher *Hasher, tokens *TokenIssuer, sessions *SessionStore) *Gate {
	return &Gate{users: users, hasher: hasher, tokens: tokens, sessions: sessions, log: zap.NewNop()}
}

// WithLogger attaches a logger for login audit events and returns the gate.
func (g *Gate) WithLogger(log *zap.Logger) *Gate {
	if log != nil {
		g.log = log
	}
	return g
}

// Login authenticates the identifier/password pair. Unknown account,
// deactivated account, soft-deleted account, and wrong password all fail
// identically with invalid credentials. A storage fault is reported as
// such, never disguised as a credential failure.
func (g *Gate) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, errInvalidCredentials
	}

	condition, err := staffdir.NewPredicate[entity.User]().
		EqualsFold("Email", identifier).
		EqualsFold("SerialNumber", identifier).
		BuildOr()
	if err != nil {
		return nil, err
	}

	// The collection read excludes soft-deleted rows, so a deleted
	// account falls through to the same credential failure.
	users, err := g.users.GetWhere(ctx, condition, staffdir.Preload("Role", "Department"))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		g.log.Warn("login rejected", zap.String("identifier", identifier), zap.String("reason", "unknown account"))
		return nil, errInvalidCredentials
	}

	user := users[0]
	if !user.IsActive {
		g.log.Warn("login rejected", zap.String("identifier", identifier), zap.String("reason", "account deactivated"))
		return nil, errInvalidCredentials
	}
	if !g.hasher.VerifyPassword(user.PasswordHash, password) {
		g.log.Warn("login rejected", zap.String("identifier", identifier), zap.String("reason", "password mismatch"))
		return nil, errInvalidCredentials
	}

	if err := g.stampLastLogin(ctx, user); err != nil {
		return nil, err
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	token, err := g.tokens.Issue(user.ID, user.Email, roleName)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{User: user, Token: token}
	if g.sessions != nil {
		session, err := g.sessions.Create(ctx, user.ID, user.Email, roleName)
		if err != nil {
			return nil, err
		}
		result.Session = session
	}
	g.log.Info("login succeeded", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return result, nil
}

// Logout revokes the session. With no session store it is a no-op.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	if g.sessions == nil {
		return nil
	}
	return g.sessions.Revoke(ctx, sessionID)
}

// Verify validates an access token and returns its claims.
func (g *Gate) Verify(tokenString string) (*Claims, error) {
	return g.tokens.Parse(tokenString)
}

// stampLastLogin records the successful login on the account itself. The
// user is the actor of their own login.
func (g *Gate) stampLastLogin(ctx context.Context, user *entity.User) error {
	now := timeNow()
	user.LastLoginAt = &now
	if err := g.users.Update(ctx, user.Email, user); err != nil {
		return err
	}
	return g.users.SaveChanges(ctx)
}
