package live

import (
	"encoding/json"
	"testing"
)

func TestEncodePatch(t *testing.T) {
	data, err := EncodePatch(Patch{Op: PatchPush, Seq: 3, Path: "/game/7", State: map[string]any{"from": "/"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if decoded["op"] != "push" || decoded["path"] != "/game/7" {
		t.Errorf("decoded %v", decoded)
	}
	if decoded["seq"].(float64) != 3 {
		t.Errorf("seq = %v", decoded["seq"])
	}
}

func TestEncodePatchOmitsEmptyFields(t *testing.T) {
	data, err := EncodePatch(Patch{Op: PatchBack, Seq: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["path"]; ok {
		t.Error("back patch should omit path")
	}
	if _, ok := decoded["state"]; ok {
		t.Error("back patch should omit state")
	}
}

func TestDecodeClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"navigate", `{"type":"navigate","path":"/lobby"}`, false},
		{"navigate with replace", `{"type":"navigate","path":"/lobby","replace":true}`, false},
		{"navigate without path", `{"type":"navigate"}`, true},
		{"popstate back", `{"type":"popstate","delta":-1}`, false},
		{"popstate without delta", `{"type":"popstate"}`, true},
		{"ping", `{"type":"ping"}`, false},
		{"unknown type", `{"type":"teleport"}`, true},
		{"malformed json", `{"type":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClientMessage([]byte(tt.input))
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeClientMessageFields(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"popstate","delta":-2,"landed":"/lobby"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Delta != -2 {
		t.Errorf("delta = %d, want -2", msg.Delta)
	}
	if msg.Landed != "/lobby" {
		t.Errorf("landed = %q", msg.Landed)
	}
}
