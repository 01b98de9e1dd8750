package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autocontract/internal/handlers"
	"autocontract/internal/transport/auth"
)

type Server struct {
	httpServer *http.Server
}

// Routes registers the API. With tokens set every route except /health
// requires an API token.
func Routes(h *handlers.Handlers, tokens auth.TokenRepo) http.Handler {
	mux := http.NewServeMux()

	if h != nil {
		mux.HandleFunc("/health", h.Health)
		mux.HandleFunc("/clients", h.SaveClient)
		mux.HandleFunc("/clients/find", h.FindClient)
		mux.HandleFunc("/clients/edit", h.EditClient)
		mux.HandleFunc("/contracts", h.GenerateContract)
		mux.HandleFunc("/contracts/exists", h.ContractExists)
		mux.HandleFunc("/contracts/next", h.NextContract)
		mux.HandleFunc("/invoices", h.GenerateInvoice)
		mux.HandleFunc("/journal", h.ListJournal)
		mux.HandleFunc("/templates", h.UploadTemplate)
	}

	if tokens == nil {
		return mux
	}
	return auth.TokenMiddleware(tokens, "/health")(mux)
}

func NewServer(port string, h *handlers.Handlers, tokens auth.TokenRepo) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      Routes(h, tokens),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
