package rag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seoulbites/matzip/internal/domain"
)

// noMatchAnswer is returned when retrieval yields nothing. An empty result
// set is a valid outcome, not an error.
const noMatchAnswer = "조건에 맞는 맛집을 찾지 못했어요. 검색어를 바꾸거나 조건을 조금 넓혀서 다시 시도해 보세요."

// aspectDisplay maps aspects to the phrasing used in the templated answer.
var aspectDisplay = map[domain.Aspect]string{
	domain.AspectFood:          "food quality",
	domain.AspectService:       "service",
	domain.AspectAmbience:      "atmosphere",
	domain.AspectPrice:         "price value",
	domain.AspectHygiene:       "cleanliness",
	domain.AspectWaiting:       "wait time",
	domain.AspectAccessibility: "accessibility",
}

// fallbackAnswer builds the templated answer used when the narrator is
// down. It names the user's top two weighted aspects when any carry
// weight, otherwise a generic closing line.
func fallbackAnswer(queryEN string, weights domain.AspectWeights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your search for '%s', I found some great options for you! ", queryEN)

	top := topAspects(weights, 2)
	if len(top) == 0 {
		b.WriteString("These are popular restaurants in the area with great reviews.")
		return b.String()
	}
	names := make([]string, len(top))
	for i, a := range top {
		names[i] = aspectDisplay[a]
	}
	fmt.Fprintf(&b, "These restaurants are highly rated for %s.", strings.Join(names, " and "))
	return b.String()
}

// topAspects returns up to max aspects ordered by weight descending,
// skipping zero weights. Ties keep presentation order.
func topAspects(weights domain.AspectWeights, max int) []domain.Aspect {
	var top []domain.Aspect
	for _, a := range domain.Aspects() {
		if weights[a] > 0 {
			top = append(top, a)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return weights[top[i]] > weights[top[j]]
	})
	if len(top) > max {
		top = top[:max]
	}
	return top
}
