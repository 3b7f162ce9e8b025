package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is a minimal in-memory identity provider for dev/test mode.
// Hashing mirrors the real provider's rules: passwordHash depends only on the
// password itself. Confirmation/reset codes are fixed ("000000") so local
// signup flows can complete without email delivery.
type MemoryProvider struct {
	mu sync.RWMutex
	// email -> account
	accounts map[string]*memoryAccount
	// accessToken -> email
	sessions map[string]string
	// refreshToken -> email
	refresh map[string]string
}

type memoryAccount struct {
	subjectID    string
	email        string
	passwordHash string
	attributes   map[string]string
	confirmed    bool
}

const memoryConfirmCode = "000000"

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: map[string]*memoryAccount{},
		sessions: map[string]string{},
		refresh:  map[string]string{},
	}
}

var _ Provider = (*MemoryProvider)(nil)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (p *MemoryProvider) SignUp(_ context.Context, email, password string, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := p.accounts[key]; ok {
		return "", ErrInvalidCredentials
	}
	acc := &memoryAccount{
		subjectID:    uuid.NewString(),
		email:        key,
		passwordHash: sha256Hex(password),
		attributes:   attrs,
		confirmed:    false,
	}
	p.accounts[key] = acc
	return acc.subjectID, nil
}

func (p *MemoryProvider) Confirm(_ context.Context, email, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[normalizeEmail(email)]
	if !ok || code != memoryConfirmCode {
		return ErrInvalidCredentials
	}
	acc.confirmed = true
	return nil
}

func (p *MemoryProvider) Login(_ context.Context, email, password string) (*TokenPair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := normalizeEmail(email)
	acc, ok := p.accounts[key]
	if !ok || !acc.confirmed || acc.passwordHash != sha256Hex(password) {
		return nil, ErrInvalidCredentials
	}

	access := uuid.NewString()
	refreshTok := uuid.NewString()
	p.sessions[access] = key
	p.refresh[refreshTok] = key
	return &TokenPair{AccessToken: access, RefreshToken: refreshTok, ExpiresIn: 3600}, nil
}

func (p *MemoryProvider) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, ok := p.refresh[refreshToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	access := uuid.NewString()
	p.sessions[access] = key
	return &TokenPair{AccessToken: access, ExpiresIn: 3600}, nil
}

func (p *MemoryProvider) ForgotPassword(_ context.Context, email string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Real provider never reveals whether the account exists; neither do we.
	return nil
}

func (p *MemoryProvider) ResetPassword(_ context.Context, email, code, newPassword string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[normalizeEmail(email)]
	if !ok || code != memoryConfirmCode {
		return ErrInvalidCredentials
	}
	acc.passwordHash = sha256Hex(newPassword)
	return nil
}

func (p *MemoryProvider) GetUserByToken(_ context.Context, accessToken string) (*Subject, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	key, ok := p.sessions[accessToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	acc := p.accounts[key]
	return &Subject{
		SubjectID:  acc.subjectID,
		Email:      acc.email,
		Attributes: acc.attributes,
	}, nil
}

func (p *MemoryProvider) Logout(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.sessions, accessToken)
	return nil
}

// ConfirmAll marks every account confirmed (test helper for seeded users).
func (p *MemoryProvider) ConfirmAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, acc := range p.accounts {
		acc.confirmed = true
	}
}
