package auth

import (
	"errors"
	"sync"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/repository"
)

// ErrInvalidCredentials is the single rejection outcome for both auth
// strategies. It deliberately does not distinguish an unknown account from a
// wrong password or code, so failures cannot be used to enumerate users.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SharedCode is the fixed verification code accepted by the telegram flow.
// It is a stand-in for a real per-user code delivery channel and must be
// replaced with one before any production use.
const SharedCode = "123456"

// Service implements the supported authentication strategies against the
// user repository and produces sessions on success.
type Service struct {
	users   repository.UserRepository
	session repository.SessionRepository
}

// NewService creates an auth service
func NewService(users repository.UserRepository, session repository.SessionRepository) *Service {
	return &Service{users: users, session: session}
}

// Credentials authenticates by email and password and sets the session on
// success. The password comparison is verbatim against the stored value.
func (s *Service) Credentials(email, password string) (*models.User, error) {
	user := s.users.GetByEmail(email)
	if user == nil || user.Password != password {
		return nil, ErrInvalidCredentials
	}
	if err := s.session.SetCurrent(*user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login sets the session for an already-verified user (registration).
func (s *Service) Login(user models.User) error {
	return s.session.SetCurrent(user)
}

// Logout clears the session
func (s *Service) Logout() error {
	return s.session.Clear()
}

// Step identifies where a telegram flow currently is.
type Step int

const (
	StepHandle Step = iota + 1 // waiting for the telegram handle
	StepCode                   // waiting for the verification code
)

// TelegramFlow is the two-step code strategy: collect a handle, then verify
// a code against SharedCode and look the handle up. The repository is not
// consulted until the code matches.
type TelegramFlow struct {
	mu     sync.Mutex
	svc    *Service
	step   Step
	handle string
}

// NewTelegramFlow starts a flow at the handle step
func (s *Service) NewTelegramFlow() *TelegramFlow {
	return &TelegramFlow{svc: s, step: StepHandle}
}

// Step reports the current step
func (f *TelegramFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Start records the handle and advances to the code step. No lookup
// happens here; an unknown handle fails later, at Verify, with the same
// generic outcome as a wrong code.
func (f *TelegramFlow) Start(handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle = handle
	f.step = StepCode
}

// ChangeHandle returns to the handle step, discarding the entered handle.
func (f *TelegramFlow) ChangeHandle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle = ""
	f.step = StepHandle
}

// Verify checks the code, resolves the handle and sets the session. On any
// mismatch the flow stays at the code step so the user can retry.
func (f *TelegramFlow) Verify(code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepCode {
		return nil, ErrInvalidCredentials
	}
	if code != SharedCode {
		return nil, ErrInvalidCredentials
	}
	user := f.svc.users.GetByHandle(f.handle)
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := f.svc.session.SetCurrent(*user); err != nil {
		return nil, err
	}
	f.handle = ""
	f.step = StepHandle
	return user, nil
}
