package domain

import "fmt"

// Aspect is one of the seven evaluated restaurant qualities.
type Aspect string

// Canonical aspects.
const (
	AspectFood          Aspect = "food"
	AspectService       Aspect = "service"
	AspectAmbience      Aspect = "ambience"
	AspectPrice         Aspect = "price"
	AspectHygiene       Aspect = "hygiene"
	AspectWaiting       Aspect = "waiting"
	AspectAccessibility Aspect = "accessibility"
)

// aspectOrder fixes iteration order for anything user-visible
// (conditioning text, tags, API responses).
var aspectOrder = []Aspect{
	AspectFood,
	AspectService,
	AspectAmbience,
	AspectPrice,
	AspectHygiene,
	AspectWaiting,
	AspectAccessibility,
}

// Aspects returns all canonical aspects in presentation order.
func Aspects() []Aspect {
	out := make([]Aspect, len(aspectOrder))
	copy(out, aspectOrder)
	return out
}

// IsValid checks if the aspect is one of the seven canonical values.
func (a Aspect) IsValid() bool {
	switch a {
	case AspectFood, AspectService, AspectAmbience, AspectPrice,
		AspectHygiene, AspectWaiting, AspectAccessibility:
		return true
	}
	return false
}

// Title returns the aspect name with the first letter upper-cased,
// as rendered in reranker conditioning text ("Food importance: 0.80").
func (a Aspect) Title() string {
	s := string(a)
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// ParseAspect converts a string to a canonical Aspect.
func ParseAspect(s string) (Aspect, error) {
	a := Aspect(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown aspect %q", s)
	}
	return a, nil
}
