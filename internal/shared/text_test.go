package shared

import "testing"

func TestFormatTitle(t *testing.T) {
	cases := map[string]string{
		"Strobe [Extended Mix]": "strobe",
		"Titan [Club Edit]":     "titan",
		"What?":                 "what",
		"Opus (Edit)":           "opus edit",
		"Alpha × Beta":          "alpha beta",
		"One, Two":              "one two",
		"  Plain Title  ":       "plain title",
	}

	for input, want := range cases {
		if got := FormatTitle(input); got != want {
			t.Errorf("FormatTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatArtist(t *testing.T) {
	cases := map[string]string{
		"deadmau5":                   "deadmau5",
		"Main (feat. Guest)":         "main",
		"Main [ft. Guest]":           "main",
		"Main (featuring Guest)":     "main",
		"A & B":                      "a b",
		"A × B":                      "a b",
		"  Spaced   Out  ":           "spaced out",
	}

	for input, want := range cases {
		if got := FormatArtist(input); got != want {
			t.Errorf("FormatArtist(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildSearchQuery(t *testing.T) {
	got := BuildSearchQuery("strobe", []string{"deadmau5"})
	if got != "deadmau5 strobe" {
		t.Errorf("BuildSearchQuery = %q", got)
	}

	got = BuildSearchQuery("opus", []string{"Eric Prydz", "Guest (feat. Other)"})
	if got != "eric prydz guest opus" {
		t.Errorf("BuildSearchQuery with multiple artists = %q", got)
	}
}

func TestRemoveRemixer(t *testing.T) {
	artists := []string{"Original Artist", "Remixer Name"}
	got := RemoveRemixer("Some Track (Remixer Name Remix)", artists)

	if len(got) != 1 || got[0] != "Original Artist" {
		t.Errorf("RemoveRemixer = %v", got)
	}
}

func TestContainsRejectKeyword(t *testing.T) {
	keyword, ok := ContainsRejectKeyword("Some Track (Karaoke Version)")
	if !ok || keyword != "karaoke" {
		t.Errorf("ContainsRejectKeyword = %q, %v", keyword, ok)
	}

	if _, ok := ContainsRejectKeyword("Normal Track Title"); ok {
		t.Error("false positive on a normal title")
	}

	for _, title := range []string{
		"Track (Sped Up)",
		"Track - Slowed + Reverb",
		"Hits Tribute to Somebody",
		"8-Bit Renditions",
	} {
		if _, ok := ContainsRejectKeyword(title); !ok {
			t.Errorf("missed reject keyword in %q", title)
		}
	}
}

func TestNormalizeTrackKey(t *testing.T) {
	if got := NormalizeTrackKey("  Strobe ", "deadmau5"); got != "strobe|deadmau5" {
		t.Errorf("NormalizeTrackKey = %q", got)
	}

	if NormalizeTrackKey("A", "B") != NormalizeTrackKey("a", "b") {
		t.Error("key is case-sensitive")
	}
}
