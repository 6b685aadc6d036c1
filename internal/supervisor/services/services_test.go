// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer simulates *http.Server lifecycle for the wrapper tests.
type fakeServer struct {
	listenErr  error
	closed     chan struct{}
	shutdowns  atomic.Int32
	shutdownFn func(ctx context.Context) error
}

func newFakeServer() *fakeServer {
	return &fakeServer{closed: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.closed
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	close(f.closed)
	if f.shutdownFn != nil {
		return f.shutdownFn(ctx)
	}
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled after graceful shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop on cancellation")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("expected exactly one Shutdown call, got %d", server.shutdowns.Load())
	}
}

func TestHTTPServiceReportsListenFailure(t *testing.T) {
	server := newFakeServer()
	server.listenErr = errors.New("listen tcp: address already in use")
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.listenErr) {
		t.Errorf("expected wrapped listen error, got %v", err)
	}
}

func TestHTTPServiceShutdownFailure(t *testing.T) {
	server := newFakeServer()
	server.shutdownFn = func(context.Context) error { return errors.New("drain timeout") }
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil || errors.Is(err, context.Canceled) {
			t.Errorf("shutdown failure must surface, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
}

type fakeHub struct{ served atomic.Bool }

func (f *fakeHub) RunWithContext(ctx context.Context) error {
	f.served.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func TestHubServiceDelegates(t *testing.T) {
	hub := &fakeHub{}
	svc := NewWebSocketHubService(hub)
	if svc.String() != "websocket-hub" {
		t.Errorf("unexpected service name %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub service did not stop")
	}
	if !hub.served.Load() {
		t.Error("hub was never run")
	}
}

type fakeRefresher struct{ calls atomic.Int32 }

func (f *fakeRefresher) Refresh(context.Context) { f.calls.Add(1) }

func TestRefreshServiceTicks(t *testing.T) {
	refresher := &fakeRefresher{}
	svc := NewRefreshService(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for refresher.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if refresher.calls.Load() < 2 {
		t.Errorf("expected at least 2 refreshes, got %d", refresher.calls.Load())
	}
}

func TestRefreshServiceDefaultInterval(t *testing.T) {
	svc := NewRefreshService(&fakeRefresher{}, 0)
	if svc.interval != 5*time.Minute {
		t.Errorf("zero interval must fall back to the default, got %v", svc.interval)
	}
}
