package mirror

// Beatconnect is the beatconnect.io mirror.
var Beatconnect = Variant{
	Name:        "beatconnect",
	DisplayName: "beatconnect.io",
	BaseURL:     "https://beatconnect.io",
	PathFormat:  "/b/%d",
	ErrorKeys:   []string{"error"},
}
