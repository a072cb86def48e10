package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/testutil"
)

func startServer(t *testing.T, srv *Server) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-errChan:
		cancel()
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not bind in time")
	}
	return cancel, errChan
}

func baseURL(srv *Server) string {
	return fmt.Sprintf("http://127.0.0.1:%d", srv.Addr().(*net.TCPAddr).Port)
}

func TestServerStartAndShutdown(t *testing.T) {
	log := &testutil.MockLogger{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewServer(Config{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}, handler, log)

	cancel, errChan := startServer(t, srv)

	resp, err := http.Get(baseURL(srv) + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("status = %d body = %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("shutdown failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timed out")
	}

	if _, ok := log.Find("server shutdown complete"); !ok {
		t.Fatal("expected shutdown to be logged")
	}
}

func TestServerShutdown_WaitsForInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, "done")
	})
	srv := NewServer(Config{}, handler, &testutil.MockLogger{})
	cancel, errChan := startServer(t, srv)

	bodyChan := make(chan string, 1)
	go func() {
		resp, err := http.Get(baseURL(srv) + "/slow")
		if err != nil {
			bodyChan <- "error: " + err.Error()
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		bodyChan <- string(b)
	}()

	<-started
	cancel()

	if got := <-bodyChan; got != "done" {
		t.Fatalf("in-flight request was cut off: %q", got)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestServerStartError(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	srv := NewServer(Config{Port: port}, http.NotFoundHandler(), &testutil.MockLogger{})

	err = srv.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "server failed to start") {
		t.Fatalf("expected bind error, got %v", err)
	}
}

func TestServerShutdown_BeforeStart(t *testing.T) {
	srv := NewServer(Config{}, http.NotFoundHandler(), &testutil.MockLogger{})
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected no-op shutdown, got %v", err)
	}
	if srv.Addr() != nil {
		t.Fatal("expected no address before Start")
	}
}
