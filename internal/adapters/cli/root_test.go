package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ask", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"domain":"billing","answer":"pay online","handler":"billing","fallback_used":false,"state":"completed"}`))
	})
	mux.HandleFunc("/v1/domains", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"domains":["by-laws","general"]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAskCommandPrintsAnswer(t *testing.T) {
	server := newFakeAPI(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--api", server.URL, "ask", "how", "do", "I", "pay?"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "pay online") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "domain=billing") {
		t.Fatalf("missing routing note: %q", out.String())
	}
}

func TestAskCommandFailsOnAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ask", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"the assistant is temporarily unable to answer, please try again"}`, http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--api", server.URL, "ask", "anything"})

	if err := root.Execute(); err == nil {
		t.Fatalf("expected non-nil error for failed routing")
	}
}

func TestShellQuitExitsCleanly(t *testing.T) {
	server := newFakeAPI(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("domains\nquit\n"))
	root.SetArgs([]string{"--api", server.URL})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "by-laws, general") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestSplitVerb(t *testing.T) {
	verb, rest := splitVerb("ASK when is rates day?")
	if verb != "ask" || rest != "when is rates day?" {
		t.Fatalf("verb = %q rest = %q", verb, rest)
	}
	verb, rest = splitVerb("quit")
	if verb != "quit" || rest != "" {
		t.Fatalf("verb = %q rest = %q", verb, rest)
	}
}
