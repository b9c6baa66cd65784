package mirror

// Nerinyan is the nerinyan.moe mirror. The query strips hitsounds,
// storyboards and video to keep archives small.
var Nerinyan = Variant{
	Name:        "nerinyan",
	DisplayName: "nerinyan.moe",
	BaseURL:     "https://api.nerinyan.moe",
	PathFormat:  "/d/%d?nh=1&nsb=1&nv=1",
	ErrorKeys:   []string{"error", "message"},
}
