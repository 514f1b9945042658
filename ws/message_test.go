package ws

import (
	"errors"
	"testing"

	"github.com/catascopic/solstice/relayerrors"
)

func TestParseInbound(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"response", `{"response":"HELLO"}`, false},
		{"empty response", `{"response":""}`, false},
		{"chat", `{"chat":"HEL"}`, false},
		{"chat with newline", `{"chat":"HELLO","newline":true}`, false},
		{"chat explicit no newline", `{"chat":"HELLO","newline":false}`, false},
		{"both variants", `{"response":"X","chat":"Y"}`, true},
		{"neither variant", `{}`, true},
		{"newline without chat", `{"response":"X","newline":true}`, true},
		{"wrong type", `{"response":7}`, true},
		{"not json", `hello`, true},
		{"array body", `["response","X"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseInbound([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, relayerrors.ErrMalformedMessage) {
					t.Errorf("ParseInbound(%s): err = %v, want ErrMalformedMessage", tt.data, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInbound(%s): %v", tt.data, err)
			}
			if (msg.Response == nil) == (msg.Chat == nil) {
				t.Error("exactly one variant must be set")
			}
		})
	}
}

func TestParseInboundValues(t *testing.T) {
	msg, err := ParseInbound([]byte(`{"chat":"HELLO","newline":true}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Chat == nil || *msg.Chat != "HELLO" || !msg.Newline {
		t.Errorf("msg = %+v, want chat HELLO with newline", msg)
	}

	msg, err = ParseInbound([]byte(`{"response":"r0-3"}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Response == nil || *msg.Response != "r0-3" {
		t.Errorf("msg = %+v, want response r0-3", msg)
	}
}
