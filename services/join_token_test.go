package services

import "testing"

func TestJoinTokenRoundTrip(t *testing.T) {
	token := EncodeJoinToken("a1b2c3")
	code, err := DecodeJoinToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if code != "a1b2c3" {
		t.Errorf("code = %q, want a1b2c3", code)
	}
}

func TestDecodeJoinTokenRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"not json", "bm90IGpzb24="},
		{"missing room code", "e30="}, // {}
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeJoinToken(tt.token); err == nil {
				t.Errorf("DecodeJoinToken(%q) accepted", tt.token)
			}
		})
	}
}
