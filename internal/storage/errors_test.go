package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStatusErrorUnwrapsToKind(t *testing.T) {
	err := NewStatusError(ErrFetchFailed, 500, "Backend Error")
	if !errors.Is(err, ErrFetchFailed) {
		t.Error("StatusError does not unwrap to its kind")
	}
	if want := "remote fetch failed: status 500: Backend Error"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStatusErrorWithoutMessage(t *testing.T) {
	err := NewStatusError(ErrWriteFailed, 503, "")
	if want := "remote write failed: status 503"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsAuthStatus(t *testing.T) {
	for _, status := range []int{401, 403} {
		if !IsAuthStatus(status) {
			t.Errorf("IsAuthStatus(%d) = false", status)
		}
	}
	for _, status := range []int{200, 404, 429, 500} {
		if IsAuthStatus(status) {
			t.Errorf("IsAuthStatus(%d) = true", status)
		}
	}
}

func TestIsTransportError(t *testing.T) {
	transport := []error{
		errors.New("dial tcp 10.0.0.1:443: connection refused"),
		errors.New("read tcp: connection reset by peer"),
		errors.New("lookup blob.core.windows.net: no such host"),
		errors.New("net/http: TLS handshake timeout"),
		fmt.Errorf("request failed: %w", errors.New("context deadline exceeded")),
	}
	for _, err := range transport {
		if !IsTransportError(err) {
			t.Errorf("IsTransportError(%v) = false", err)
		}
	}

	if IsTransportError(nil) {
		t.Error("IsTransportError(nil) = true")
	}
	if IsTransportError(errors.New("status 500: Backend Error")) {
		t.Error("remote rejection misread as transport failure")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string // substring
	}{
		{nil, ""},
		{ErrTransportBlocked, "CORS"},
		{fmt.Errorf("%w: upload", ErrTransportBlocked), "no response received"},
		{NewStatusError(ErrAuthExpired, 401, "Invalid Credentials"), "re-authenticate"},
		{ErrAuthRequired, "authenticate first"},
		{fmt.Errorf("%w: mybox", ErrContainerNotFound), "create it and retry"},
		{NewStatusError(ErrFetchFailed, 500, "Backend Error"), "Backend Error"},
	}

	for _, tt := range tests {
		got := Describe(tt.err)
		if tt.want == "" {
			if got != "" {
				t.Errorf("Describe(nil) = %q, want empty", got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Describe(%v) = %q, want substring %q", tt.err, got, tt.want)
		}
	}
}
