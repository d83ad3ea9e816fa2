package notify

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/presence"
)

var target = models.ServerTarget{Host: "example.com", Port: 25565}

func players(refs ...models.PlayerRef) *models.Snapshot {
	sample := make([]models.PlayerRef, 0, len(refs))
	sample = append(sample, refs...)
	return &models.Snapshot{OnlineCount: len(refs), MaxCount: 20, Sample: sample}
}

func summaries(reqs []Request) []string {
	var out []string
	for _, r := range reqs {
		out = append(out, r.Summary)
	}
	return out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"Broadcast", ModeBroadcast, false},
		{"unknown", ModeUnknownJoin, false},
		{"unknown-join", ModeUnknownJoin, false},
		{" watchlist ", ModeWatchList, false},
		{"watch", ModeWatchList, false},
		{"loud", ModeAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_StringRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeAuto, ModeBroadcast, ModeUnknownJoin, ModeWatchList} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v, want %v", m.String(), got, err, m)
		}
	}
	if s := Mode(9).String(); s != "mode(9)" {
		t.Errorf("Mode(9).String() = %q", s)
	}
}

func TestResolveMode(t *testing.T) {
	empty := presence.NewWatchList(nil)
	steve := presence.NewWatchList([]string{"Steve"})

	tests := []struct {
		name  string
		mode  Mode
		watch presence.WatchList
		want  Mode
	}{
		{"auto without watch list", ModeAuto, empty, ModeUnknownJoin},
		{"auto with watch list", ModeAuto, steve, ModeWatchList},
		{"explicit broadcast keeps watch list unused", ModeBroadcast, steve, ModeBroadcast},
		{"explicit watchlist", ModeWatchList, empty, ModeWatchList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMode(tt.mode, tt.watch); got != tt.want {
				t.Errorf("ResolveMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode_Tracker(t *testing.T) {
	steve := presence.NewWatchList([]string{"Steve"})

	if tr := ModeAuto.Tracker(steve); tr.Watch == nil {
		t.Error("auto mode with a watch list should use the watch-list tracker")
	}
	if tr := ModeBroadcast.Tracker(steve); tr.Watch != nil {
		t.Error("broadcast mode should track the whole sample")
	}
	if tr := ModeAuto.Tracker(presence.NewWatchList(nil)); tr.Watch != nil {
		t.Error("auto mode without a watch list should track the whole sample")
	}
}

func TestPolicy_Decide(t *testing.T) {
	steve := models.PlayerRef{ID: "9999-aaaa-bbbb-cccc", Name: "Steve"}
	alex := models.PlayerRef{ID: "1111-2222-3333-4444", Name: "Alex"}
	snap := players(alex, steve)

	joined := presence.Event{Kind: presence.PlayersJoined, Names: []string{"Alex", "Steve"}}
	unknown := presence.Event{Kind: presence.CountIncreasedUnknownIdentity}
	watched := presence.Event{Kind: presence.WatchedPlayerJoined, ID: "9999aaaabbbbcccc"}

	tests := []struct {
		name   string
		mode   Mode
		events []presence.Event
		snap   *models.Snapshot
		want   []string
	}{
		{
			name:   "players joined",
			mode:   ModeUnknownJoin,
			events: []presence.Event{{Kind: presence.PlayersJoined, Names: []string{"Steve"}}},
			snap:   snap,
			want:   []string{"Steve joined example.com:25565"},
		},
		{
			name:   "names joined with comma and space",
			mode:   ModeBroadcast,
			events: []presence.Event{joined},
			snap:   snap,
			want:   []string{"Alex, Steve joined example.com:25565"},
		},
		{
			name:   "unknown join",
			mode:   ModeUnknownJoin,
			events: []presence.Event{unknown},
			snap:   snap,
			want:   []string{"An unknown player joined example.com:25565"},
		},
		{
			name:   "broadcast drops unknown joins",
			mode:   ModeBroadcast,
			events: []presence.Event{unknown},
			snap:   snap,
			want:   nil,
		},
		{
			name:   "watched player resolved to display name",
			mode:   ModeWatchList,
			events: []presence.Event{watched},
			snap:   snap,
			want:   []string{"Steve joined example.com:25565"},
		},
		{
			name:   "watched player falls back to id",
			mode:   ModeWatchList,
			events: []presence.Event{watched},
			snap:   players(alex),
			want:   []string{"9999aaaabbbbcccc joined example.com:25565"},
		},
		{
			name:   "watch list mode ignores other kinds",
			mode:   ModeWatchList,
			events: []presence.Event{joined, unknown, watched},
			snap:   snap,
			want:   []string{"Steve joined example.com:25565"},
		},
		{
			name:   "one request per event",
			mode:   ModeUnknownJoin,
			events: []presence.Event{joined, unknown},
			snap:   snap,
			want:   []string{"Alex, Steve joined example.com:25565", "An unknown player joined example.com:25565"},
		},
		{
			name: "no events",
			mode: ModeUnknownJoin,
			snap: snap,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{Mode: tt.mode, Target: target}
			got := summaries(p.Decide(tt.events, tt.snap))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolicy_DecideBodyAndKind(t *testing.T) {
	snap := &models.Snapshot{OnlineCount: 3, MaxCount: 20, Sample: []models.PlayerRef{}}
	p := Policy{Mode: ModeUnknownJoin, Target: target}

	reqs := p.Decide([]presence.Event{{Kind: presence.CountIncreasedUnknownIdentity}}, snap)
	if len(reqs) != 1 {
		t.Fatalf("Decide() returned %d requests, want 1", len(reqs))
	}
	if reqs[0].Body != "3 / 20 online on example.com:25565" {
		t.Errorf("Body = %q", reqs[0].Body)
	}
	if reqs[0].Kind != presence.CountIncreasedUnknownIdentity {
		t.Errorf("Kind = %v", reqs[0].Kind)
	}
}

// A new player in the sample reaches the policy as one join notification.
func TestPolicy_WithTracker(t *testing.T) {
	alex := models.PlayerRef{ID: "1111-2222-3333-4444", Name: "Alex"}
	sam := models.PlayerRef{ID: "5555-6666-7777-8888", Name: "Sam"}
	steve := models.PlayerRef{ID: "9999-aaaa-bbbb-cccc", Name: "Steve"}

	state, events := presence.Update(presence.NewState(), players(alex, sam))
	if len(events) != 0 {
		t.Fatalf("baseline produced events: %v", events)
	}

	next := players(alex, sam, steve)
	_, events = presence.Update(state, next)

	p := Policy{Mode: ModeUnknownJoin, Target: target}
	got := summaries(p.Decide(events, next))
	want := []string{"Steve joined example.com:25565"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("summaries = %q, want %q", got, want)
	}
}
