package model

import "testing"

func TestSameTrackByID(t *testing.T) {
	tests := []struct {
		name string
		a, b TrackRef
		want bool
	}{
		{
			name: "equal ids with different urls",
			a:    TrackRef{ID: "42", ResourceURL: "https://a.example/x.mp3"},
			b:    TrackRef{ID: "42", ResourceURL: "https://b.example/y.mp3"},
			want: true,
		},
		{
			name: "different ids with equal urls",
			a:    TrackRef{ID: "1", ResourceURL: "https://a.example/x.mp3"},
			b:    TrackRef{ID: "2", ResourceURL: "https://a.example/x.mp3"},
			want: false,
		},
		{
			name: "id missing on one side falls through to url",
			a:    TrackRef{ID: "1", ResourceURL: "https://a.example/x.mp3"},
			b:    TrackRef{ResourceURL: "https://a.example/x.mp3"},
			want: true,
		},
		{
			name: "no identity on either side",
			a:    TrackRef{Title: "a"},
			b:    TrackRef{Title: "a"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameTrack(tt.a, tt.b); got != tt.want {
				t.Errorf("SameTrack(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameTrackByNormalizedURL(t *testing.T) {
	SetOrigin("https://host")
	defer SetOrigin(DefaultOrigin)

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"relative vs absolute same resource", "/a/b.mp3", "https://host/a/b.mp3", true},
		{"both relative equal", "/a/b.mp3", "/a/b.mp3", true},
		{"different paths", "/a/b.mp3", "/a/c.mp3", false},
		{"different hosts", "https://host/a.mp3", "https://other/a.mp3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := TrackRef{ResourceURL: tt.a}
			b := TrackRef{ResourceURL: tt.b}
			if got := SameTrack(a, b); got != tt.want {
				t.Errorf("SameTrack(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalizeResourceURL(t *testing.T) {
	SetOrigin("https://host")
	defer SetOrigin(DefaultOrigin)

	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"/media/song.mp3", "https://host/media/song.mp3"},
		{"https://cdn.example/song.mp3", "https://cdn.example/song.mp3"},
		{"media/song.mp3", "https://host/media/song.mp3"},
	}

	for _, tt := range tests {
		if got := NormalizeResourceURL(tt.raw); got != tt.want {
			t.Errorf("NormalizeResourceURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		track    TrackRef
		expected string
	}{
		{TrackRef{Title: "Song A", ResourceURL: "https://h/a.mp3"}, "Song A"},
		{TrackRef{ResourceURL: "https://h/a.mp3"}, "https://h/a.mp3"},
		{TrackRef{}, ""},
	}

	for _, tt := range tests {
		if got := tt.track.DisplayTitle(); got != tt.expected {
			t.Errorf("DisplayTitle() = %q, want %q", got, tt.expected)
		}
	}
}
