package util

import (
	"net/http"
	"testing"
)

func mustRequest(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

func TestProxyFunc_SchemeSelection(t *testing.T) {
	fn := ProxyFunc("http://proxy.internal:3128", "http://secure.internal:3128", "")

	u, err := fn(mustRequest(t, "http://www.example.com/terms"))
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	if u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("http scheme proxy = %v, want proxy.internal:3128", u)
	}

	u, err = fn(mustRequest(t, "https://www.example.com/terms"))
	if err != nil {
		t.Fatalf("https request: %v", err)
	}
	if u == nil || u.Host != "secure.internal:3128" {
		t.Errorf("https scheme proxy = %v, want secure.internal:3128", u)
	}
}

func TestProxyFunc_NoProxyHostsBypass(t *testing.T) {
	fn := ProxyFunc("http://proxy.internal:3128", "http://secure.internal:3128", "docs.example.com")

	for _, rawURL := range []string{
		"http://docs.example.com/sla",
		"https://docs.example.com/sla",
	} {
		u, err := fn(mustRequest(t, rawURL))
		if err != nil {
			t.Fatalf("%s: %v", rawURL, err)
		}
		if u != nil {
			t.Errorf("%s: expected direct connection, got proxy %v", rawURL, u)
		}
	}

	u, err := fn(mustRequest(t, "http://www.example.com/sla"))
	if err != nil {
		t.Fatalf("non-listed host: %v", err)
	}
	if u == nil {
		t.Error("non-listed host should still be proxied")
	}
}

func TestProxyFunc_OnlyNoProxyDisablesProxying(t *testing.T) {
	fn := ProxyFunc("", "", "example.com")

	u, err := fn(mustRequest(t, "http://www.example.com/"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if u != nil {
		t.Errorf("no proxy configured, got %v", u)
	}
}

func TestProxyFunc_EmptyConfigFallsBackToEnvironment(t *testing.T) {
	if fn := ProxyFunc("", "", ""); fn == nil {
		t.Fatal("expected environment proxy function")
	}
}
