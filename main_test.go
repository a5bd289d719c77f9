package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitServingReturnsServeError(t *testing.T) {
	errc := make(chan error, 1)
	errc <- errors.New("accept tcp: use of closed network connection")
	done := make(chan error, 1)
	go func() {
		done <- waitServing(context.Background(), "127.0.0.1:1235", errc)
	}()
	select {
	case err := <-done:
		assert.EqualError(t, err, "accept tcp: use of closed network connection")
	case <-time.After(5 * time.Second):
		t.Fatal("waitServing kept blocking after the server failed")
	}
}

func TestWaitServingServerClosed(t *testing.T) {
	errc := make(chan error, 1)
	errc <- http.ErrServerClosed
	err := waitServing(context.Background(), "127.0.0.1:1235", errc)
	assert.EqualError(t, err, "stats server on 127.0.0.1:1235 stopped")
}

func TestWaitServingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, waitServing(ctx, "127.0.0.1:1235", make(chan error)))
}
