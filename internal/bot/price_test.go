package bot

import (
	"errors"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"20", 20},
		{"12,50", 13},
		{"12.50", 13},
		{"12,49", 12},
		{"0", 0},
		{" 7 ", 7},
		{"/remove", 0},
		{"  /remove  ", 0},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePriceInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "12,50,00", "NaN", "Inf", "/removeall"} {
		if _, err := ParsePrice(in); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("ParsePrice(%q): want ErrInvalidPrice, got %v", in, err)
		}
	}
}
