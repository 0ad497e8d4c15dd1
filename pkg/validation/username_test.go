package validation

import (
	"strings"
	"testing"
)

func TestValidateUsernameAccepts(t *testing.T) {
	valid := []string{
		"cool_guy",
		"abc",
		"a1b",
		"user-name",
		"X9_z-7",
		"ABCdef123",
		strings.Repeat("a", 30),
	}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}
}

func TestValidateUsernameRejects(t *testing.T) {
	cases := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"too short", "ab"},
		{"too long", strings.Repeat("a", 31)},
		{"bad charset", "cool.guy"},
		{"space", "cool guy"},
		{"leading underscore", "_coolguy"},
		{"trailing hyphen", "coolguy-"},
		{"double underscore", "cool__guy"},
		{"double hyphen", "cool--guy"},
		{"mixed separators", "cool_-guy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateUsername(tc.username); err == nil {
				t.Errorf("ValidateUsername(%q) = nil, want error", tc.username)
			}
		})
	}
}

func TestValidateUsernameReserved(t *testing.T) {
	for _, u := range []string{"admin", "Admin", "ADMIN", "lumalink", "api", "login", "null"} {
		if err := ValidateUsername(u); err != ErrUsernameReserved {
			t.Errorf("ValidateUsername(%q) = %v, want ErrUsernameReserved", u, err)
		}
	}
}
