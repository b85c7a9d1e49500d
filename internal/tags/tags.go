// Package tags generates Korean display tags from per-aspect sentiment
// averages and corpus-wide z-scores. Tag intensity follows the z-score
// (how unusual the restaurant is), gated by a minimum raw sentiment so a
// merely above-average score on a weak aspect never earns a tag.
package tags

import (
	"sort"

	"github.com/seoulbites/matzip/internal/domain"
)

const (
	// DefaultMaxTags caps the total tag count per restaurant.
	DefaultMaxTags = 5
	// maxComboTags caps how many combination tags lead the list.
	maxComboTags = 2
	// minSentiment is the raw sentiment floor for aspect tags.
	minSentiment = 0.5
	// simpleThreshold is the sentiment floor of the z-score-less fallback.
	simpleThreshold = 0.5
)

// level is the tag intensity bucket derived from a z-score.
type level int

const (
	levelNone        level = iota
	levelGood              // z > 0, above average
	levelVeryGood          // z > 0.5, roughly top 30%
	levelExcellent         // z > 1.0, roughly top 15%
	levelExceptional       // z > 1.5, roughly top 5%
)

func levelOf(z float64) level {
	switch {
	case z > 1.5:
		return levelExceptional
	case z > 1.0:
		return levelExcellent
	case z > 0.5:
		return levelVeryGood
	case z > 0:
		return levelGood
	}
	return levelNone
}

// aspectTags maps each aspect to its per-intensity tag text.
var aspectTags = map[domain.Aspect]map[level]string{
	domain.AspectFood: {
		levelExceptional: "🌟 최고의 맛",
		levelExcellent:   "⭐ 매우 맛있는",
		levelVeryGood:    "맛집 인정",
		levelGood:        "맛 좋음",
	},
	domain.AspectService: {
		levelExceptional: "🌟 최상급 서비스",
		levelExcellent:   "⭐ 친절한 서비스",
		levelVeryGood:    "서비스 훌륭",
		levelGood:        "서비스 좋음",
	},
	domain.AspectAmbience: {
		levelExceptional: "🌟 완벽한 분위기",
		levelExcellent:   "⭐ 감각적인 인테리어",
		levelVeryGood:    "분위기 멋짐",
		levelGood:        "분위기 좋음",
	},
	domain.AspectPrice: {
		levelExceptional: "🌟 가성비 끝판왕",
		levelExcellent:   "⭐ 가성비 최고",
		levelVeryGood:    "가성비 훌륭",
		levelGood:        "가성비 좋음",
	},
	domain.AspectHygiene: {
		levelExceptional: "🌟 완벽한 청결",
		levelExcellent:   "⭐ 매우 청결함",
		levelVeryGood:    "청결도 우수",
		levelGood:        "청결함",
	},
	domain.AspectWaiting: {
		levelExceptional: "🌟 대기 없음",
		levelExcellent:   "⭐ 웨이팅 짧음",
		levelVeryGood:    "회전율 빠름",
		levelGood:        "대기 괜찮음",
	},
	domain.AspectAccessibility: {
		levelExceptional: "🌟 접근성 완벽",
		levelExcellent:   "⭐ 찾아가기 쉬움",
		levelVeryGood:    "교통 편리",
		levelGood:        "접근성 좋음",
	},
}

// comboRule fires its tag when every condition aspect scores at least its
// minimum AND the best z-score among those aspects reaches zThreshold.
type comboRule struct {
	name       string
	conditions map[domain.Aspect]float64
	zThreshold float64
}

// comboRules in display priority order.
var comboRules = []comboRule{
	{
		name: "💎 완벽한 데이트 코스",
		conditions: map[domain.Aspect]float64{
			domain.AspectAmbience: 0.8,
			domain.AspectService:  0.7,
			domain.AspectFood:     0.7,
		},
		zThreshold: 0.5,
	},
	{
		name: "🎯 가성비 맛집",
		conditions: map[domain.Aspect]float64{
			domain.AspectPrice: 0.8,
			domain.AspectFood:  0.8,
		},
		zThreshold: 0.5,
	},
	{
		name: "👨‍👩‍👧‍👦 가족 외식 추천",
		conditions: map[domain.Aspect]float64{
			domain.AspectService:       0.7,
			domain.AspectAmbience:      0.6,
			domain.AspectAccessibility: 0.6,
		},
		zThreshold: 0.3,
	},
	{
		name: "⚡ 빠른 식사",
		conditions: map[domain.Aspect]float64{
			domain.AspectWaiting: 0.8,
			domain.AspectFood:    0.6,
		},
		zThreshold: 0.5,
	},
	{
		name: "🏆 모든 면에서 완벽",
		conditions: map[domain.Aspect]float64{
			domain.AspectFood:     0.9,
			domain.AspectService:  0.9,
			domain.AspectAmbience: 0.8,
		},
		zThreshold: 1.0,
	},
	{
		name: "🍽️ 특별한 날 추천",
		conditions: map[domain.Aspect]float64{
			domain.AspectAmbience: 0.9,
			domain.AspectService:  0.8,
			domain.AspectFood:     0.8,
		},
		zThreshold: 0.8,
	},
	{
		name: "🌟 미슐랭급 맛",
		conditions: map[domain.Aspect]float64{
			domain.AspectFood: 1.0,
		},
		zThreshold: 1.5,
	},
	{
		name: "💰 가심비 최고",
		conditions: map[domain.Aspect]float64{
			domain.AspectPrice:   1.0,
			domain.AspectFood:    0.7,
			domain.AspectService: 0.6,
		},
		zThreshold: 1.0,
	},
}

// simpleTags is the one-tag-per-aspect fallback vocabulary.
var simpleTags = map[domain.Aspect]string{
	domain.AspectFood:          "맛 좋음",
	domain.AspectService:       "서비스 좋음",
	domain.AspectAmbience:      "분위기 좋음",
	domain.AspectPrice:         "가성비 좋음",
	domain.AspectHygiene:       "청결함",
	domain.AspectWaiting:       "대기 짧음",
	domain.AspectAccessibility: "접근성 좋음",
}

// FromRestaurant generates up to maxTags display tags for one document.
// Non-positive maxTags means DefaultMaxTags.
func FromRestaurant(r *domain.Restaurant, maxTags int) []string {
	return Generate(r.Sentiments(), r.ZScores(), maxTags)
}

// Generate produces combination tags first, capped to two, then fills the
// remaining slots with aspect tags ranked by z-score. Documents without
// z-scores fall back to Simple.
func Generate(scores, zScores map[domain.Aspect]float64, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	if len(zScores) == 0 {
		return Simple(scores, maxTags)
	}

	tags := comboTags(scores, zScores)
	if len(tags) > maxComboTags {
		tags = tags[:maxComboTags]
	}
	if remaining := maxTags - len(tags); remaining > 0 {
		tags = append(tags, rankedAspectTags(scores, zScores, remaining)...)
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// Simple generates threshold-based tags for documents without z-scores,
// strongest sentiment first.
func Simple(scores map[domain.Aspect]float64, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	var ranked []domain.Aspect
	for _, a := range domain.Aspects() {
		if s, ok := scores[a]; ok && s > simpleThreshold {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if len(ranked) > maxTags {
		ranked = ranked[:maxTags]
	}
	tags := make([]string, 0, len(ranked))
	for _, a := range ranked {
		tags = append(tags, simpleTags[a])
	}
	return tags
}

func comboTags(scores, zScores map[domain.Aspect]float64) []string {
	var tags []string
	for _, rule := range comboRules {
		met := true
		maxZ := 0.0
		for a, floor := range rule.conditions {
			s, ok := scores[a]
			if !ok || s < floor {
				met = false
				break
			}
			if z, ok := zScores[a]; ok && z > maxZ {
				maxZ = z
			}
		}
		if met && maxZ >= rule.zThreshold {
			tags = append(tags, rule.name)
		}
	}
	return tags
}

func rankedAspectTags(scores, zScores map[domain.Aspect]float64, limit int) []string {
	type ranked struct {
		aspect domain.Aspect
		z      float64
		lvl    level
	}
	var rankings []ranked
	for _, a := range domain.Aspects() {
		z, zOK := zScores[a]
		s, sOK := scores[a]
		if !zOK || !sOK || s <= minSentiment {
			continue
		}
		if lvl := levelOf(z); lvl != levelNone {
			rankings = append(rankings, ranked{aspect: a, z: z, lvl: lvl})
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].z > rankings[j].z
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	tags := make([]string, 0, len(rankings))
	for _, r := range rankings {
		tags = append(tags, aspectTags[r.aspect][r.lvl])
	}
	return tags
}
