package aliasdir

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return New(server.URL, 2*time.Second), server
}

func TestLookupKnownAlias(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/aliases/fest24" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"share-token-A-0123456789abcdef","metadata":{"channel":"qr"}}`))
	})
	defer server.Close()

	result, err := client.Lookup(context.Background(), "fest24")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if result.Token != "share-token-A-0123456789abcdef" {
		t.Errorf("Token = %q", result.Token)
	}
	if result.Metadata["channel"] != "qr" {
		t.Errorf("Metadata = %v", result.Metadata)
	}
}

func TestLookupUnknownAlias(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.Lookup(context.Background(), "nope")
	if !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("err = %v, want ErrAliasNotFound", err)
	}
}

func TestLookupServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.Lookup(context.Background(), "fest24")
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("err = %v, want ErrUnexpectedResponse", err)
	}
}

func TestLookupMalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":`))
	})
	defer server.Close()

	_, err := client.Lookup(context.Background(), "fest24")
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("err = %v, want ErrUnexpectedResponse", err)
	}
}

func TestLookupEmptyToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":""}`))
	})
	defer server.Close()

	_, err := client.Lookup(context.Background(), "fest24")
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("err = %v, want ErrUnexpectedResponse", err)
	}
}

func TestLookupUnreachableDirectory(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Lookup(context.Background(), "fest24")
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if errors.Is(err, ErrAliasNotFound) || errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("transport failure misclassified: %v", err)
	}
}

func TestLookupEscapesAlias(t *testing.T) {
	var gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	client.Lookup(context.Background(), "a/b")
	if gotPath != "/api/aliases/a%2Fb" {
		t.Errorf("path = %q, want escaped alias", gotPath)
	}
}
