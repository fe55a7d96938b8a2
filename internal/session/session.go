// package session tracks the client's login identity with the movie service
//
// The service associates logins with a session cookie, so the Session owns a
// cookie jar shared by every API request. Stores subscribe to identity
// transitions and re-fetch their data once per anonymous/authenticated flip.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/martishin/movie-search-service/internal/shared"
)

// Identity represents the current login state as reported by the service.
//
// The zero value is the anonymous identity.
type Identity struct {
	Authenticated bool   `json:"-"`
	UserID        int    `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	PictureURL    string `json:"picture_url,omitempty"`
}

// DisplayName returns a printable name for the identity.
func (i Identity) DisplayName() string {
	if !i.Authenticated {
		return "anonymous"
	}
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// Session holds the current identity, the cookie jar that carries it, and an
// epoch counter that increments on every identity transition. In-flight
// catalogue loads are tagged with the epoch they were issued under; a load
// whose epoch no longer matches at resolution time is stale and its result
// must be discarded.
type Session struct {
	baseURL string
	client  *http.Client

	mu          sync.Mutex
	identity    Identity
	epoch       uint64
	subscribers map[int]func(Identity)
	nextSubID   int
}

// New creates a Session for the service at baseURL. When client is nil a
// cookie-jar-backed [http.Client] is created; when a client is supplied it
// must carry a cookie jar of its own.
func New(baseURL string, client *http.Client) (*Session, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing service base URL", shared.ErrInvalidConfig)
	}

	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar}
	}

	return &Session{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      client,
		subscribers: make(map[int]func(Identity)),
	}, nil
}

// Client returns the HTTP client whose cookie jar carries the session.
// The services package issues all catalogue requests through it.
func (s *Session) Client() *http.Client {
	return s.client
}

// BaseURL returns the service base URL the session was created for.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Current returns the identity as of the last refresh.
func (s *Session) Current() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// IsAuthenticated reports whether the session is currently logged in.
func (s *Session) IsAuthenticated() bool {
	return s.Current().Authenticated
}

// Epoch returns the current identity epoch. The epoch increments exactly
// once per identity transition, never otherwise.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers a callback invoked once per identity transition.
// The returned function unsubscribes.
func (s *Session) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Refresh asks the service who the session currently belongs to and updates
// the identity. A non-2xx response means anonymous, not an error; only
// transport failures are returned.
func (s *Session) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/users/me", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.setIdentity(Identity{})
		return nil
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	identity.Authenticated = true

	s.setIdentity(identity)
	return nil
}

// Login authenticates with email and password, then refreshes the identity.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	payload := map[string]string{"email": email, "password": password}
	if err := s.postJSON(ctx, "/auth/login", payload); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// SignUp registers a new account, then refreshes the identity. The service
// opens a session for the new user on success.
func (s *Session) SignUp(ctx context.Context, firstName, lastName, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	payload := map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
	}
	if err := s.postJSON(ctx, "/auth/signup", payload); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// Logout ends the server-side session and resets the identity to anonymous.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.postJSON(ctx, "/auth/logout", nil); err != nil {
		return err
	}

	s.setIdentity(Identity{})
	return nil
}

// ImportCookies installs cookies copied from a logged-in browser session
// into the jar, then refreshes the identity. The cookie header is the raw
// "name=value; name2=value2" form produced by browser devtools.
func (s *Session) ImportCookies(ctx context.Context, cookieHeader string) error {
	if s.client.Jar == nil {
		return fmt.Errorf("%w: session client has no cookie jar", shared.ErrInvalidConfig)
	}

	target, err := url.Parse(s.baseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	var cookies []*http.Cookie
	for _, pair := range strings.Split(cookieHeader, ";") {
		pair = strings.TrimSpace(pair)
		if name, value, ok := strings.Cut(pair, "="); ok && name != "" {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value})
		}
	}

	if len(cookies) == 0 {
		return fmt.Errorf("%w: no cookies found", shared.ErrInvalidInput)
	}

	s.client.Jar.SetCookies(target, cookies)
	return s.Refresh(ctx)
}

// ForwardAuthCode forwards an OAuth authorization code to the service's
// callback endpoint. The service exchanges the code with the provider and
// sets the session cookie in our jar; the client never sees tokens.
func (s *Session) ForwardAuthCode(ctx context.Context, code, state string) error {
	callback := fmt.Sprintf("%s/auth/callback?code=%s&state=%s", s.baseURL, url.QueryEscape(code), url.QueryEscape(state))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callback, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("%w: callback returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	return s.Refresh(ctx)
}

// setIdentity stores the identity, bumping the epoch and notifying
// subscribers when it amounts to a transition.
func (s *Session) setIdentity(identity Identity) {
	s.mu.Lock()

	transition := s.identity.Authenticated != identity.Authenticated ||
		s.identity.UserID != identity.UserID
	s.identity = identity

	var fns []func(Identity)
	if transition {
		s.epoch++
		for _, fn := range s.subscribers {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	// Callbacks run outside the lock so they can call back into the session.
	for _, fn := range fns {
		fn(identity)
	}
}

// postJSON sends a POST with an optional JSON payload and checks for 2xx.
func (s *Session) postJSON(ctx context.Context, path string, payload any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	return nil
}
