package mirror

// OsuDirect is the osu.direct mirror.
var OsuDirect = Variant{
	Name:        "osudirect",
	DisplayName: "osu.direct",
	BaseURL:     "https://osu.direct/api",
	PathFormat:  "/d/%d",
	ErrorKeys:   []string{"error", "message"},
}
