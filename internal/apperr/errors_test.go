package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("Missing required fields"), http.StatusBadRequest},
		{"not found", NotFound("Order not found"), http.StatusNotFound},
		{"forbidden", Forbidden("You can only delete your own orders"), http.StatusForbidden},
		{"store", Store("orders.insert", errors.New("connection reset")), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("User not found")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesStoreCause(t *testing.T) {
	err := Store("users.find", errors.New("auth failed for user root"))
	if got := PublicMessage(err, "Failed to fetch user data"); got != "Failed to fetch user data" {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(NotFound("User not found"), "fallback"); got != "User not found" {
		t.Fatalf("PublicMessage() = %q", got)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Store("orders.update", cause)
	if !errors.Is(err, cause) {
		t.Fatal("StoreError doit exposer sa cause via errors.Is")
	}
	if IsNotFound(err) {
		t.Fatal("une erreur store n'est pas un NotFound")
	}
}
