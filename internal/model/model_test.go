package model

import "testing"

func TestFormatCollectionName(t *testing.T) {
	c := &Collection{ID: 7421, Name: "  Stream Practice ", Uploader: "shockpast"}

	tests := []struct {
		format string
		want   string
	}{
		{"{collection_title}", "Stream Practice"},
		{"{collection_title} ({collection_author})", "Stream Practice (shockpast)"},
		{"#{collection_id}", "#7421"},
		{"{collection_id}/{collection_id}", "7421/7421"},
		{"static", "static"},
		{"{unknown}", "{unknown}"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := FormatCollectionName(tt.format, c); got != tt.want {
				t.Errorf("FormatCollectionName(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestBeatmapset_Checksums(t *testing.T) {
	set := &Beatmapset{
		ID: 1,
		Beatmaps: []*Beatmap{
			{Checksum: "b", Version: "Hard"},
			{Checksum: "a", Version: "Insane"},
		},
	}

	got := set.Checksums()
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Checksums() = %v, want [b a]", got)
	}
	if v := set.Versions(); len(v) != 2 || v[1] != "Insane" {
		t.Errorf("Versions() = %v", v)
	}
}

func TestBeatmapset_String(t *testing.T) {
	if got := (&Beatmapset{ID: 42}).String(); got != "beatmapset 42" {
		t.Errorf("String() = %q", got)
	}
	if got := (&Beatmapset{ID: 42, Artist: "xi", Title: "FREEDOM DiVE"}).String(); got != "xi - FREEDOM DiVE" {
		t.Errorf("String() = %q", got)
	}
}

func TestManifest_ItemCount(t *testing.T) {
	m := &Manifest{
		Beatmapsets: []*Beatmapset{
			{ID: 1, Beatmaps: []*Beatmap{{Checksum: "a"}, {Checksum: "b"}}},
			{ID: 2},
			{ID: 3, Beatmaps: []*Beatmap{{Checksum: "c"}}},
		},
	}

	if got := m.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}
}
