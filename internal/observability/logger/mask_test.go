package logger

import "testing"

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskAuthorizationBareValue(t *testing.T) {
	got := MaskAuthorization("abcdef1234")
	want := "****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"password": "hunter2",
		"api_key":  "key_12345678",
		"nested": map[string]any{
			"authorization": "Bearer abc12345",
			"billing_id":    "42",
		},
	}
	masked := MaskJSON(input)
	if masked["password"] != "****ter2" {
		t.Fatalf("expected masked password, got %v", masked["password"])
	}
	if masked["api_key"] != "****5678" {
		t.Fatalf("expected masked api_key, got %v", masked["api_key"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["authorization"] != "****2345" {
		t.Fatalf("expected masked authorization, got %v", nested["authorization"])
	}
	if nested["billing_id"] != "42" {
		t.Fatalf("expected billing_id untouched, got %v", nested["billing_id"])
	}
}
