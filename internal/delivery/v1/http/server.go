package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/supply-registry/internal/cfg"
)

// maxHeaderBytes запросы реестра короткие, заголовков больше 64 KiB не ждём.
const maxHeaderBytes = 64 << 10

// Server HTTP-сервер реестра.
type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// Run слушает порт из конфигурации. Штатная остановка через Stop не считается ошибкой.
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(lis)
}

// Serve обслуживает запросы на готовом listener до вызова Stop.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop дожидается активных запросов, пока не истечёт ctx, затем рвёт соединения.
// Сигнатура подходит для closer.Func.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(err, s.httpServer.Close())
	}

	return err
}
