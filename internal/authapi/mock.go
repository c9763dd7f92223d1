package authapi

import (
	"context"
	"sync"

	"leadsfynder/internal/domain"
)

// MockClient permite tests sin backend real.
type MockClient struct {
	LoginResult    domain.AuthResult
	RegisterResult domain.AuthResult
	LogoutErr      error

	// Si estan definidas, reemplazan los valores fijos.
	LoginFunc  func(ctx context.Context, email, password string) domain.AuthResult
	LogoutFunc func(ctx context.Context, token string) error

	mu           sync.Mutex
	loginCalls   int
	logoutCalls  int
	lastToken    string
	lastRegister domain.RegisterInput
}

func (m *MockClient) Login(ctx context.Context, email, password string) domain.AuthResult {
	m.mu.Lock()
	m.loginCalls++
	fn := m.LoginFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, email, password)
	}
	return m.LoginResult
}

func (m *MockClient) Register(_ context.Context, input domain.RegisterInput) domain.AuthResult {
	m.mu.Lock()
	m.lastRegister = input
	m.mu.Unlock()
	return m.RegisterResult
}

func (m *MockClient) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	m.logoutCalls++
	m.lastToken = token
	fn := m.LogoutFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, token)
	}
	return m.LogoutErr
}

func (m *MockClient) LoginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCalls
}

func (m *MockClient) LogoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCalls
}

func (m *MockClient) LastLogoutToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastToken
}

func (m *MockClient) LastRegister() domain.RegisterInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRegister
}
