package mirror

// Catboy is the catboy.best mirror (formerly chimu). Large archives are
// redirected to its central storage node, which counts quota per archive.
var Catboy = Variant{
	Name:        "catboy",
	DisplayName: "catboy.best",
	BaseURL:     "https://catboy.best",
	PathFormat:  "/d/%d",
	ErrorKeys:   []string{"error"},
	BulkHosts:   []string{"central.catboy.best"},
}
