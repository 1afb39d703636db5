// client_integration_test.go
//go:build integration
// +build integration

package client

import (
	"context"
	"net/http"
	"os"
	"testing"
)

func addr() string {
	if a := os.Getenv("BOLLYWOOD_ADDR"); a != "" {
		return a
	}

	return "http://localhost:5000"
}

var c = Client{
	Addr:   addr(),
	Client: http.Client{},
}

func TestPing(t *testing.T) {
	if s, err := c.Ping(); err != nil || s != "pong" {
		t.Fail()
	}
}

func TestListReachable(t *testing.T) {
	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
}
