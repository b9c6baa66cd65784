package mirror

import (
	"fmt"
	"sort"
	"strings"
)

// Variant describes one download mirror.
type Variant struct {
	// Name is the configuration key, e.g. "catboy".
	Name string

	// DisplayName is shown in logs, e.g. "catboy.best".
	DisplayName string

	// BaseURL is the endpoint prefix beatmapset paths are appended to.
	BaseURL string

	// PathFormat is a fmt template taking the beatmapset id.
	PathFormat string

	// ErrorKeys are the JSON fields that carry the message of an error
	// payload, checked in order.
	ErrorKeys []string

	// BulkHosts are origins that deliver archives from bulk storage.
	BulkHosts []string
}

// URL returns the download URL of a beatmapset.
func (v Variant) URL(id int) string {
	return strings.TrimRight(v.BaseURL, "/") + fmt.Sprintf(v.PathFormat, id)
}

// Variants lists every supported mirror.
var Variants = []Variant{
	Catboy,
	OsuDirect,
	Nerinyan,
	Beatconnect,
	Sayobot,
}

// Lookup returns the Variant with the given configuration name.
func Lookup(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range Variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownMirror, name, strings.Join(Names(), ", "))
}

// Names returns the configuration names of all mirrors, sorted.
func Names() []string {
	names := make([]string, 0, len(Variants))
	for _, v := range Variants {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return names
}
