package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/rescale/mcnotify/internal/models"
)

var target = models.ServerTarget{Host: "example.com", Port: 25565}

const vanillaResponse = `{
	"version": {"name": "1.20.4", "protocol": 765},
	"players": {
		"max": 20,
		"online": 2,
		"sample": [
			{"name": "Alex", "id": "1111-2222-3333-4444"},
			{"name": "Sam", "id": "5555-6666-7777-8888"}
		]
	},
	"description": {"text": "A ", "extra": [{"text": "Minecraft", "bold": true}, {"text": " Server"}]},
	"favicon": "data:image/png;base64,iVBORw0KGgo="
}`

func TestDecode(t *testing.T) {
	snap, err := Decode([]byte(vanillaResponse))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if snap.OnlineCount != 2 || snap.MaxCount != 20 {
		t.Errorf("counts = %d/%d, want 2/20", snap.OnlineCount, snap.MaxCount)
	}
	wantSample := []models.PlayerRef{
		{ID: "1111-2222-3333-4444", Name: "Alex"},
		{ID: "5555-6666-7777-8888", Name: "Sam"},
	}
	if !reflect.DeepEqual(snap.Sample, wantSample) {
		t.Errorf("Sample = %v, want %v", snap.Sample, wantSample)
	}
	if snap.Version != "1.20.4" || snap.Protocol != 765 {
		t.Errorf("version = %q/%d", snap.Version, snap.Protocol)
	}
	if snap.Description != "A Minecraft Server" {
		t.Errorf("Description = %q, want %q", snap.Description, "A Minecraft Server")
	}
	if snap.Favicon != "data:image/png;base64,iVBORw0KGgo=" {
		t.Errorf("Favicon = %q", snap.Favicon)
	}
}

func TestDecode_SampleDisclosure(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantSample bool
		wantLen    int
	}{
		{
			name:       "absent sample",
			raw:        `{"players": {"max": 100, "online": 80}, "description": "busy"}`,
			wantSample: false,
		},
		{
			name:       "null sample",
			raw:        `{"players": {"max": 100, "online": 80, "sample": null}}`,
			wantSample: false,
		},
		{
			name:       "empty sample",
			raw:        `{"players": {"max": 20, "online": 0, "sample": []}}`,
			wantSample: true,
			wantLen:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if snap.HasSample() != tt.wantSample {
				t.Errorf("HasSample() = %v, want %v", snap.HasSample(), tt.wantSample)
			}
			if len(snap.Sample) != tt.wantLen {
				t.Errorf("len(Sample) = %d, want %d", len(snap.Sample), tt.wantLen)
			}
		})
	}
}

func TestDecode_PlainStringDescription(t *testing.T) {
	snap, err := Decode([]byte(`{"players": {"max": 5, "online": 1}, "description": "Hello"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if snap.Description != "Hello" {
		t.Errorf("Description = %q, want Hello", snap.Description)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `<html>`},
		{"truncated", `{"players": {"max": 20,`},
		{"no players", `{"version": {"name": "1.20.4"}}`},
		{"negative counts", `{"players": {"max": 20, "online": -1}}`},
		{"wrong type", `{"players": {"max": "twenty", "online": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); err == nil {
				t.Errorf("Decode(%q) should fail", tt.raw)
			}
		})
	}
}

func fakePing(raw string, err error) PingFunc {
	return func(ctx context.Context, addr string) ([]byte, time.Duration, error) {
		if err != nil {
			return nil, 0, err
		}
		return []byte(raw), 5 * time.Millisecond, nil
	}
}

func TestClient_Query(t *testing.T) {
	var gotAddr string
	client := NewClient(Options{
		Ping: func(ctx context.Context, addr string) ([]byte, time.Duration, error) {
			gotAddr = addr
			if _, ok := ctx.Deadline(); !ok {
				t.Error("query context has no deadline")
			}
			return []byte(vanillaResponse), time.Millisecond, nil
		},
	})

	snap, err := client.Query(context.Background(), target)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if gotAddr != "example.com:25565" {
		t.Errorf("dialed %q, want example.com:25565", gotAddr)
	}
	if snap.OnlineCount != 2 {
		t.Errorf("OnlineCount = %d, want 2", snap.OnlineCount)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, DefaultTimeout)
	}
}

func TestClient_QueryErrors(t *testing.T) {
	tests := []struct {
		name     string
		ping     PingFunc
		wantKind error
	}{
		{
			name:     "dial refused",
			ping:     fakePing("", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}),
			wantKind: ErrConnection,
		},
		{
			name:     "dns failure",
			ping:     fakePing("", &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}),
			wantKind: ErrConnection,
		},
		{
			name:     "untyped dial error",
			ping:     fakePing("", fmt.Errorf("bot: dial tcp: connection refused")),
			wantKind: ErrConnection,
		},
		{
			name:     "handshake garbage",
			ping:     fakePing("", errors.New("bot: recv list packet fail: packet id mismatch")),
			wantKind: ErrProtocol,
		},
		{
			name:     "malformed json",
			ping:     fakePing(`{"players":`, nil),
			wantKind: ErrProtocol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(Options{Ping: tt.ping})
			_, err := client.Query(context.Background(), target)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Query() error = %v, want kind %v", err, tt.wantKind)
			}
			var qe *QueryError
			if !errors.As(err, &qe) || qe.Target != target {
				t.Errorf("Query() error = %#v, want *QueryError for %s", err, target)
			}
		})
	}
}

func TestClient_QueryTimeout(t *testing.T) {
	client := NewClient(Options{
		Timeout: 10 * time.Millisecond,
		Ping: func(ctx context.Context, addr string) ([]byte, time.Duration, error) {
			<-ctx.Done()
			return nil, 0, errors.New("read status: use of closed connection")
		},
	})

	_, err := client.Query(context.Background(), target)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("Query() error = %v, want ErrConnection", err)
	}
}
