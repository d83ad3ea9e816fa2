package models

import (
	"errors"
	"testing"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dashed uuid", "069a79f4-44e9-4726-a5be-fca90e38aaf5", "069a79f444e94726a5befca90e38aaf5"},
		{"plain uuid unchanged", "069a79f444e94726a5befca90e38aaf5", "069a79f444e94726a5befca90e38aaf5"},
		{"short dashed", "1111-2222-3333-4444", "1111222233334444"},
		{"mixed separators", "ab_cd:ef gh", "abcdefgh"},
		{"lowercased", "AbCd-EF", "abcdef"},
		{"upper case uuid", "069A79F4-44E9-4726-A5BE-FCA90E38AAF5", "069a79f444e94726a5befca90e38aaf5"},
		{"empty", "", ""},
		{"only separators", "--__", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.input); got != tt.expected {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeID_Idempotent(t *testing.T) {
	inputs := []string{
		"069a79f4-44e9-4726-a5be-fca90e38aaf5",
		"9999-aaaa-bbbb-cccc",
		"ABCD-Ef_01",
		"no separators here?",
		"",
	}
	for _, in := range inputs {
		once := NormalizeID(in)
		if twice := NormalizeID(once); twice != once {
			t.Errorf("NormalizeID not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeID_FormsCompareEqual(t *testing.T) {
	a := "5555-6666-7777-8888"
	b := "5555666677778888"
	c := "5555_6666_7777_8888"
	if NormalizeID(a) != NormalizeID(b) || NormalizeID(b) != NormalizeID(c) {
		t.Errorf("expected all forms to normalize equal: %q %q %q",
			NormalizeID(a), NormalizeID(b), NormalizeID(c))
	}
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget(" example.com ", 0)
	if err != nil {
		t.Fatalf("ParseTarget failed: %v", err)
	}
	if target.Host != "example.com" || target.Port != DefaultPort {
		t.Errorf("unexpected target %+v", target)
	}
	if target.String() != "example.com:25565" {
		t.Errorf("String() = %q", target.String())
	}

	v6, err := ParseTarget("::1", 25570)
	if err != nil {
		t.Fatalf("ParseTarget failed: %v", err)
	}
	if v6.Address() != "[::1]:25570" {
		t.Errorf("Address() = %q, want [::1]:25570", v6.Address())
	}

	if _, err := ParseTarget("   ", 25565); !errors.Is(err, ErrEmptyHost) {
		t.Errorf("expected ErrEmptyHost, got %v", err)
	}
}

func TestSnapshot_Helpers(t *testing.T) {
	var nilSnap *Snapshot
	if nilSnap.HasSample() {
		t.Error("nil snapshot should not have a sample")
	}

	hidden := &Snapshot{OnlineCount: 120, MaxCount: 200}
	if hidden.HasSample() {
		t.Error("snapshot without sample reported HasSample")
	}

	empty := &Snapshot{Sample: []PlayerRef{}}
	if !empty.HasSample() {
		t.Error("empty non-nil sample should count as disclosed")
	}

	snap := &Snapshot{
		OnlineCount: 2,
		MaxCount:    20,
		Sample: []PlayerRef{
			{ID: "1111-2222-3333-4444", Name: "Alex"},
			{ID: "5555-6666-7777-8888", Name: "Sam"},
		},
	}
	names := snap.PlayerNames()
	if len(names) != 2 || names[0] != "Alex" || names[1] != "Sam" {
		t.Errorf("PlayerNames() = %v", names)
	}
	p, ok := snap.FindPlayer("5555666677778888")
	if !ok || p.Name != "Sam" {
		t.Errorf("FindPlayer returned %+v, %v", p, ok)
	}
	if _, ok := snap.FindPlayer("unknown"); ok {
		t.Error("FindPlayer found a player that is not in the sample")
	}
}
