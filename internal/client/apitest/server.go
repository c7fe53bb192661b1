package apitest

import (
	"net/http/httptest"
	"testing"
)

// Server is an API listening on a local httptest server.
type Server struct {
	*API
	srv *httptest.Server
}

// NewServer starts a fake API that is shut down when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	api := NewAPI()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return &Server{API: api, srv: srv}
}

// URL is the server root.
func (s *Server) URL() string { return s.srv.URL }

// AuthURL is the base URL of the auth API.
func (s *Server) AuthURL() string { return s.srv.URL + AuthPrefix }

// UsersURL is the base URL of the users API.
func (s *Server) UsersURL() string { return s.srv.URL + UsersPrefix }

// Close stops the server early, making every later call a transport failure.
func (s *Server) Close() { s.srv.Close() }
