package callbacks

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Vars{
		{"id": "42"},
		{"id": "42", "query": "gtx 1080"},
		{"a": "1", "b": "2", "c": "3"},
		{},
	}
	for _, vars := range cases {
		got := Decode(Encode(vars))
		want := Vars{}
		for k, v := range vars {
			if v != "" {
				want[k] = v
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Decode(Encode(%v)) = %v, want %v", vars, got, want)
		}
	}
}

func TestEncodeDeterministicOrder(t *testing.T) {
	vars := Vars{"query": "ssd", "id": "7"}
	if got, want := Encode(vars), "id=7!query=ssd"; got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeDropsEmptyValues(t *testing.T) {
	if got := Encode(Vars{"id": ""}); got != "" {
		t.Fatalf("Encode with empty value = %q, want empty", got)
	}
}

func TestDecodeAbsentVariable(t *testing.T) {
	vars := Decode("id=42")
	if got := vars.Get("query"); got != "" {
		t.Fatalf("absent variable = %q, want empty", got)
	}
	if _, ok := vars.GetInt64("query"); ok {
		t.Fatal("absent variable parsed as int64")
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	// Tokens from other actions must not error, only report absence.
	for _, payload := range []string{"plain", "!!", "=5", "x=", "a=1!broken"} {
		vars := Decode(payload)
		if got := vars.Get("id"); got != "" {
			t.Errorf("Decode(%q).Get(id) = %q, want empty", payload, got)
		}
	}
	if got := Decode("a=1!broken").Get("a"); got != "1" {
		t.Errorf("valid pair next to malformed fragment lost: %q", got)
	}
}

func TestVarsGetInt64(t *testing.T) {
	vars := Decode("id=42!query=abc")
	n, ok := vars.GetInt64("id")
	if !ok || n != 42 {
		t.Fatalf("GetInt64(id) = %d, %v", n, ok)
	}
	if _, ok := vars.GetInt64("query"); ok {
		t.Fatal("non-numeric variable parsed as int64")
	}
}

func TestSafeValueStripsDelimiters(t *testing.T) {
	if got, want := SafeValue("gtx=1080!ti", 32), "gtx1080ti"; got != want {
		t.Fatalf("SafeValue = %q, want %q", got, want)
	}
}

func TestSafeValueForFitsBudget(t *testing.T) {
	long := "a very long search query that would never fit a callback button"
	val := SafeValueFor("ntf_add_confirm", "query", long)
	data := "\f" + "ntf_add_confirm" + "|" + Encode(Vars{"query": val})
	if len(data) > MaxCallbackData {
		t.Fatalf("callback data %d bytes, limit %d", len(data), MaxCallbackData)
	}
	if val == "" {
		t.Fatal("expected truncated value, got empty")
	}
}
