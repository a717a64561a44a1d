package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hh727w/portfolio-api/pkg/contactform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSend_Success(t *testing.T) {
	var got contactform.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	out, err := execute(t, "send",
		"--endpoint", srv.URL,
		"--name", "Ada Lovelace",
		"--email", "ada@example.com",
		"--message", "Hello, I'd like to collaborate!")

	require.NoError(t, err)
	assert.Equal(t, "Message sent.\n", out)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "", got.Company)
}

func TestSend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to send email. Please try again later."}`))
	}))
	defer srv.Close()

	out, err := execute(t, "send",
		"--endpoint", srv.URL,
		"--name", "Ada Lovelace",
		"--email", "ada@example.com",
		"--message", "Hello, I'd like to collaborate!")

	require.Error(t, err)
	assert.Equal(t, "Failed to send email. Please try again later.", err.Error())
	assert.Empty(t, out)
}

func TestSend_LocalValidation(t *testing.T) {
	out, err := execute(t, "send", "--endpoint", "http://127.0.0.1:1/api/contact",
		"--name", "Ada", "--email", "not-an-email", "--message", "Hello there friend")

	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email.", err.Error())
	assert.Empty(t, out)
}

func TestSend_EnvFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("CONTACT_CLI_ENDPOINT", srv.URL)
	t.Setenv("CONTACT_CLI_NAME", "Ada Lovelace")
	t.Setenv("CONTACT_CLI_EMAIL", "ada@example.com")
	t.Setenv("CONTACT_CLI_MESSAGE", "Hello, I'd like to collaborate!")

	out, err := execute(t, "send")
	require.NoError(t, err)
	assert.Equal(t, "Message sent.\n", out)
}
