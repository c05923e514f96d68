package validators

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" 55-12 34 5678 ", "5512345678"},
		{"5512345678", "5512345678"},
		{"+52 55 1234 5678", "+525512345678"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once := NormalizePhone(" 55-12 34 5678 ")
	if twice := NormalizePhone(once); twice != once {
		t.Fatalf("normalization not idempotent: %q -> %q", once, twice)
	}
}

func TestToE164MX(t *testing.T) {
	if got, ok := ToE164MX("5512345678"); !ok || got != "+525512345678" {
		t.Fatalf("bare 10-digit MX number: got %q ok=%v", got, ok)
	}
	if got, ok := ToE164MX("525512345678"); !ok || got != "+525512345678" {
		t.Fatalf("52-prefixed number: got %q ok=%v", got, ok)
	}
	if got, ok := ToE164MX("+15550001111"); !ok || got != "+15550001111" {
		t.Fatalf("already E.164 number must pass through: got %q ok=%v", got, ok)
	}
	if _, ok := ToE164MX("12345"); ok {
		t.Fatalf("short number must be rejected")
	}
	if _, ok := ToE164MX("abc"); ok {
		t.Fatalf("non-numeric input must be rejected")
	}
	if _, ok := ToE164MX(""); ok {
		t.Fatalf("empty input must be rejected")
	}
}
