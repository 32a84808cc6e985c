package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = defaultReadTimeout
	defaultShutdownTimeout = 30 * time.Second

	gracefulEnvKey     = "WEBBLOG_GRACEFUL"
	gracefulEnvValue   = gracefulEnvKey + "=1"
	gracefulListenerFD = 3
)

// GraceOption customizes a graceful server.
type GraceOption func(*Server)

// OnShutdown registers fn to run after the HTTP server stopped accepting requests.
func OnShutdown(fn func()) GraceOption {
	return func(s *Server) { s.onShutdown = append(s.onShutdown, fn) }
}

// Server is an http.Server that shuts down on SIGTERM/SIGINT and hands its listener to a
// fresh copy of the binary on SIGUSR2.
type Server struct {
	*http.Server

	listener   net.Listener
	inherited  bool
	signals    chan os.Signal
	done       chan struct{}
	onShutdown []func()
}

func NewServer(addr string, handler http.Handler, opts ...GraceOption) *Server {
	s := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       defaultReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      defaultWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := s.listen(addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.handleSignals()
	err = s.Serve(ln)
	<-s.done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) listen(addr string) (net.Listener, error) {
	if s.inherited {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (s *Server) handleSignals() {
	signal.Notify(s.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	for sig := range s.signals {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			Sugar.Infof("received %s, shutting down", sig)
			s.shutdown()
			return
		case syscall.SIGUSR2:
			pid, err := s.fork()
			if err != nil {
				Sugar.Errorf("restart failed, still serving: %v", err)
				continue
			}
			Sugar.Infof("restarted as pid %d, draining old process", pid)
			s.shutdown()
			return
		}
	}
}

func (s *Server) shutdown() {
	signal.Stop(s.signals)
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		Sugar.Errorf("http shutdown: %v", err)
	}
	for _, fn := range s.onShutdown {
		fn()
	}
	close(s.done)
}

// fork starts a copy of the current binary that inherits the listening socket as fd 3.
func (s *Server) fork() (int, error) {
	tcpLn, ok := s.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	return syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
}

// GraceServer serves handler on addr until a termination signal arrives.
func GraceServer(addr string, handler http.Handler, opts ...GraceOption) error {
	return NewServer(addr, handler, opts...).ListenAndServe()
}
