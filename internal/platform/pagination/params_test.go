package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	params, err := FromRequest(r)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if params.Skip != 0 || params.Limit != 50 {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestFromRequestExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?skip=20&limit=10", nil)
	params, err := FromRequest(r)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if params.Skip != 20 || params.Limit != 10 {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestFromRequestCapsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?limit=5000", nil)
	params, err := FromRequest(r)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if params.Limit != 200 {
		t.Fatalf("expected capped limit got %d", params.Limit)
	}
}

func TestFromRequestRejectsInvalid(t *testing.T) {
	for _, target := range []string{
		"/products?skip=-1",
		"/products?skip=abc",
		"/products?limit=0",
		"/products?limit=-5",
	} {
		r := httptest.NewRequest("GET", target, nil)
		if _, err := FromRequest(r); err == nil {
			t.Fatalf("expected error for %s", target)
		}
	}
}
