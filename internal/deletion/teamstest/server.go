// Package teamstest runs an in-process stand-in for the Stack Overflow for
// Teams web endpoints the deletion tool talks to.
package teamstest

import (
	"encoding/json"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie the fake site uses to recognise a login.
const SessionCookieName = "acct"

// LoginPath is where the fake site sends visitors without a session.
const LoginPath = "/users/login"

// Response is one scripted answer of the bulk delete endpoint. Location is
// sent as the redirect target when set.
type Response struct {
	Status   int
	Body     string
	Location string
}

// DeleteCall records one bulk delete request as received.
type DeleteCall struct {
	Fkey       string
	AccountIDs []string
}

type Server struct {
	*httptest.Server
	Echo *echo.Echo

	mu            sync.Mutex
	admin         bool
	token         string
	sessionCookie string
	homeStatus    int
	loginRedirect bool
	responses     []Response
	deletes       []DeleteCall
	requests      []string
}

// NewServer starts a fake site where the caller is a logged-in admin and
// every bulk delete succeeds until responses are queued.
func NewServer() *Server {
	s := &Server{
		admin:      true,
		token:      "fkey-0123456789abcdef",
		homeStatus: 200,
	}
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	RegisterRoutes(s.Echo, &Handler{server: s})
	s.Server = httptest.NewServer(s.Echo)
	return s
}

func (s *Server) SetAdmin(admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = admin
}

func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Server) SetHomeStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homeStatus = status
}

// RequireSession makes every authenticated page demand the acct cookie with value.
func (s *Server) RequireSession(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionCookie = value
}

// RedirectToLogin makes the admin page and the bulk delete endpoint answer
// 302 to LoginPath, the way the site reacts once a session has expired.
func (s *Server) RedirectToLogin(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginRedirect = on
}

// QueueDeleteResponses scripts the next bulk delete answers, in order.
// Once the queue is drained every call answers 200.
func (s *Server) QueueDeleteResponses(responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

func (s *Server) DeleteCalls() []DeleteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DeleteCall, len(s.deletes))
	copy(out, s.deletes)
	return out
}

// Requests lists "METHOD path" for every request served.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// LoginRedirect builds a 302 answer pointing at the login page.
func LoginRedirect() Response {
	return Response{Status: 302, Location: LoginPath}
}

// PartialFailure builds the 500 answer the site gives when some accounts of a batch could not be deleted.
func PartialFailure(errorMessage string) Response {
	b, _ := json.Marshal(map[string]string{"ErrorMessage": errorMessage})
	return Response{Status: 500, Body: string(b)}
}
