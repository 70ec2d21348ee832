package middleware

import (
	"strings"
	"testing"
)

func TestRedact_Email(t *testing.T) {
	in := "email=jane.doe@example.com&x=1"
	out := Redact(in)
	if strings.Contains(out, "jane.doe@example.com") {
		t.Fatalf("email leaked: %q", out)
	}
	if !strings.Contains(out, "[REDACTED:email]") {
		t.Fatalf("email not tagged: %q", out)
	}
}

func TestRedact_Phone(t *testing.T) {
	for _, in := range []string{
		"phone=+44 20 7946 0958",
		"phone=020-7946-0958",
		"call 0791 123 4567 now",
	} {
		out := Redact(in)
		if !strings.Contains(out, "[REDACTED:phone]") {
			t.Errorf("phone not masked in %q: %q", in, out)
		}
	}
}

func TestRedact_UUIDBeforePhone(t *testing.T) {
	id := "3f6c2b1e-9a87-4c3d-b123-0f9e8d7c6b5a"
	out := Redact("clientId=" + id)
	if strings.Contains(out, id) {
		t.Fatalf("uuid leaked: %q", out)
	}
	if !strings.Contains(out, "[REDACTED:id]") {
		t.Fatalf("uuid not tagged as id: %q", out)
	}
	if strings.Contains(out, "[REDACTED:phone]") {
		t.Fatalf("uuid digits mis-tagged as phone: %q", out)
	}
}

func TestRedact_PlainTextUntouched(t *testing.T) {
	in := "page=2&sort=createdAt"
	if out := Redact(in); out != in {
		t.Fatalf("plain query mangled: %q", out)
	}
	if out := Redact(""); out != "" {
		t.Fatalf("empty input: %q", out)
	}
}
