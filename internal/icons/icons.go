// Package icons holds the fixed set of icon keys a task may reference.
// Rendering is the presentation layer's concern; the server only
// validates keys and substitutes the default for unknown ones.
package icons

const Default = "pen-square"

var registry = map[string]struct{}{
	"book":          {},
	"code":          {},
	"dumbbell":      {},
	"heart":         {},
	"plane":         {},
	"pen-square":    {},
	"brain-circuit": {},
	"star":          {},
	"plus":          {},
	"settings":      {},
	"home":          {},
	"menu":          {},
}

func Valid(name string) bool {
	_, ok := registry[name]
	return ok
}

// Normalize returns name if it is a known icon key, Default otherwise.
func Normalize(name string) string {
	if Valid(name) {
		return name
	}
	return Default
}
