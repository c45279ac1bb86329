package guard

import (
	"errors"
	"testing"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

func TestBelongsTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		owner  contractx.Identity
		caller contractx.Identity
		want   bool
	}{
		{name: "same advisor", owner: 7, caller: 7, want: true},
		{name: "different advisor", owner: 7, caller: 9, want: false},
		{name: "zero owner never matches", owner: 0, caller: 0, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := BelongsTo(tc.owner, tc.caller); got != tc.want {
				t.Fatalf("BelongsTo(%d, %d) = %v, want %v", tc.owner, tc.caller, got, tc.want)
			}
		})
	}
}

func TestRequireFailsClosed(t *testing.T) {
	t.Parallel()

	if err := Require("client", 7, 7); err != nil {
		t.Fatalf("unexpected error for owner: %v", err)
	}

	err := Require("client", 7, 9)
	if err == nil {
		t.Fatal("expected error for cross-tenant access")
	}
	if !errors.Is(err, contractx.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
