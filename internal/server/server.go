package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Data Action = "data"
	Api  Action = "api"

	GET  Method = "GET"
	POST Method = "POST"
)

// Handler processes a request and returns the response payload and status code.
// A non-nil error is reported with the returned code, or 500 if the code is not an error code.
type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action Action
	Path   string
	Method Method
	Exec   Handler
}

// DefaultMaxBody is the largest request payload accepted by default.
const DefaultMaxBody int64 = 32 << 20

type Server struct {
	name    string
	port    int
	debug   bool
	maxBody int64
	routes  []Route
	mounts  map[string]http.Handler
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:    name,
		port:    port,
		maxBody: DefaultMaxBody,
		routes:  make([]Route, 0),
		mounts:  make(map[string]http.Handler),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// MaxBody limits the size of the request payloads in bytes.
func (s *Server) MaxBody(n int64) *Server {
	s.maxBody = n
	return s
}

// AddRoute adds a route for the given method and path
func (s *Server) AddRoute(method Method, action Action, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Action: action,
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Mount serves a plain http handler under the given pattern.
func (s *Server) Mount(pattern string, handler http.Handler) *Server {
	s.mounts[pattern] = handler
	return s
}

// Handler builds the router for all registered routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		if route.Path != "" {
			mux.HandleFunc(fmt.Sprintf("/%s/%s", route.Action, route.Path), s.handle(route.Method, route.Exec))
		} else {
			mux.HandleFunc(fmt.Sprintf("/%s", route.Action), s.handle(route.Method, route.Exec))
		}
	}
	for pattern, handler := range s.mounts {
		mux.Handle(pattern, handler)
	}
	return mux
}

func (s *Server) handle(method Method, handler Handler) func(w http.ResponseWriter, r *http.Request) {
	name := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			level := log.Debug()
			if s.debug {
				level = log.Info()
			}
			level.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("handler", name).
				Float64("duration", time.Since(start).Seconds()).
				Msg("completed request")
		}()
		if Method(r.Method) != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}
		b, code, err := handler(r)
		switch {
		case err != nil:
			s.error(w, code, err)
		case code != http.StatusOK && code != 0:
			s.code(w, b, code)
		default:
			s.respond(w, b)
		}
	}
}

// Run starts the server
func (s *Server) Run() error {
	log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler()); err != nil {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, code int, err error) {
	if code < http.StatusBadRequest {
		code = http.StatusInternalServerError
	}
	log.Error().Err(err).Int("code", code).Msg("error for http request")
	b, _ := json.Marshal(ErrorResponse{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	s.code(w, b, code)
}

// ErrorResponse is the payload of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Live() Route {
	return Route{
		Action: Data,
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte{}, http.StatusOK, nil
		},
	}
}

// ErrEmptyBody is returned when a request carries no payload.
var ErrEmptyBody = errors.New("empty request body")

// JsonRead decodes the request body into v.
// Bodies over the server limit fail with *http.MaxBytesError.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if debug {
		log.Info().
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("remote-address", r.RemoteAddr).
			Str("method", r.Method).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}

// readStatus is the status code for a request body that could not be read.
func readStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
