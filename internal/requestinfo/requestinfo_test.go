package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name string
		hdr  map[string]string
		want string
	}{
		{"xff", map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-Ip": "198.51.100.2"}, "198.51.100.2"},
		{"remote", nil, "192.0.2.1"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil) // RemoteAddr 192.0.2.1:1234
		for k, v := range tc.hdr {
			r.Header.Set(k, v)
		}
		if got := ClientIP(r); got.String() != tc.want {
			t.Errorf("%s: ClientIP = %v, want %s", tc.name, got, tc.want)
		}
	}
}

func TestPrimaryLang(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"pt-BR,pt;q=0.9,en;q=0.8": "pt-br",
		"en;q=0.5":                "en",
	}
	for in, want := range cases {
		if got := primaryLang(in); got != want {
			t.Errorf("primaryLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnrichAttachesInfo(t *testing.T) {
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/v1/pins", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	r.Header.Set("Accept-Language", "pt-BR")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil {
		t.Fatal("no RequestInfo in context")
	}
	if !got.UA.IsBot || got.PrimaryLang != "pt-br" || got.Geo.IP.String() != "192.0.2.1" {
		t.Fatalf("info = %+v", got)
	}
	if FromContext(r.Context()) != nil {
		t.Fatal("original request mutated")
	}
}

func TestInitGeoOptional(t *testing.T) {
	if err := InitGeo(""); err != nil {
		t.Fatalf("InitGeo(\"\"): %v", err)
	}
	if err := InitGeo("/does/not/exist.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}
