package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/config"
)

func TestRunReturnsNilAfterGracefulShutdown(t *testing.T) {
	a := &App{
		server: &http.Server{Addr: "127.0.0.1:0"},
		logger: zerolog.Nop(),
		config: &config.Config{},
	}

	done := make(chan error, 1)
	go func() {
		done <- a.Run()
	}()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after graceful shutdown = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}
