package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
)

const intentComponent = "intent"

const intentSystemPrompt = `You are a query understanding engine for a New York City restaurant search system.

Given a Korean user query, you must output a single JSON object with:
- "query_en": natural English search query
- "filters": {
    "borough_en": string or null,          // One of ["Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"]
    "desired_types": array of strings or null, // e.g. ["pizza_restaurant"]
    "min_rating": float or null
  }
- "aspect_weights": {
    "food": float or null,
    "service": float or null,
    "ambience": float or null,
    "price": float or null,
    "hygiene": float or null,
    "waiting": float or null,
    "accessibility": float or null
  }

-------------------------------
RULES
-------------------------------

### 1. "query_en"
- Translate the Korean query into a concise, natural English search query.
- Preserve all nuances: salty, spicy, sweet, portion size, cleanliness, ambience, budget, etc.
- Do NOT add details not clearly implied by the user.

### 2. "filters"
- Detect borough ONLY if explicitly mentioned:
  - 맨해튼 → "Manhattan"
  - 브루클린 → "Brooklyn"
  - 퀸즈 → "Queens"
  - 브롱크스 → "Bronx"
  - 스태튼 아일랜드 → "Staten Island"
- Detect main cuisine/type (피자, 파스타, 이탈리안, 한식, 라멘, 카페 등)
  → Put them into "desired_types" (soft preference)
  → NEVER treat these as hard filters.
  - "desired_types"에 넣는 값은 가능하면 다음 형태를 따라라:
  - "pizza_restaurant"
  - "italian_restaurant"
  - "japanese_restaurant"
  - "steak_house"
  - "thai_restaurant"
  - "hamburger_restaurant"
  - "cafe"
  - "bar"
  - ...
- 만약 정확한 타입이 헷갈리면 null 로 둬라.

- If the query does not specify borough or type, set them to null.
- Set "min_rating" ONLY if the user explicitly mentions rating (e.g., "4점 이상").
- Never infer rating from vague words like "좋은", "괜찮은".

### 3. "aspect_weights"
- **CRITICAL: Set null for aspects NOT mentioned in the query.**
- When mentioned, values must be between 0.0 and 1.0.
- 0.0 = explicitly stated as NOT important (e.g., "가격은 상관없어", "비싸도 괜찮아")
- 0.1~1.0 = mentioned with varying importance levels
- null = NOT mentioned at all (will use user's stored preferences)

Extract from implied meaning:
  - "조용한 분위기", "데이트하기 좋은" → ambience: 0.7~1.0
  - "가성비", "저렴한", "가격대 괜찮은" → price: 0.7~1.0
  - "가격은 상관없어", "비싸도 괜찮아", "돈은 좀 써도 돼" → price: 0.0~0.2 (LOW, not null!)
  - "맛있다", "짜다", "달다", "부드럽다", "진하다" → food: 0.7~1.0
  - "직원 친절" → service: 0.7~1.0
  - "깨끗한", "위생" → hygiene: 0.7~1.0
  - "웨이팅 짧게", "바로 들어갈" → waiting: 0.7~1.0
  - "지하철역 가까운", "접근성 좋은" → accessibility: 0.7~1.0

**Examples:**
- "맛있는 이탈리안" → food: 0.8, others: null
- "가격 비싸도 분위기 좋은 곳" → price: 0.1, ambience: 0.9, others: null
- "가성비 좋고 맛있는 피자" → price: 0.8, food: 0.8, others: null
- "아무거나 추천해줘" → all: null

-------------------------------
OUTPUT FORMAT
-------------------------------
- MUST output valid JSON only.
- NO explanation outside the JSON.`

// Analyzer extracts structured intent from Korean natural-language queries.
type Analyzer struct {
	chat *chatClient
}

// NewAnalyzer creates a chat-completion backed intent analyzer.
func NewAnalyzer(cfg *ChatConfig) *Analyzer {
	return &Analyzer{chat: newChatClient(cfg)}
}

// Analyze turns a Korean query into an English query, hard filters and
// per-aspect importance hints. Failures after retry exhaustion and
// undecodable payloads both wrap domain.ErrIntentUnavailable so the
// caller can degrade instead of aborting the search.
func (a *Analyzer) Analyze(ctx context.Context, query string) (domain.Intent, error) {
	content, err := a.chat.complete(ctx, intentComponent, 0.1, intentSystemPrompt, query)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("analyze query: %v: %w", err, domain.ErrIntentUnavailable)
	}

	intent, err := parseIntent(content)
	if err != nil {
		a.chat.logger.Warn("Undecodable intent payload", zap.Error(err))
		return domain.Intent{}, fmt.Errorf("parse intent: %v: %w", err, domain.ErrIntentUnavailable)
	}
	return intent, nil
}

type intentPayload struct {
	QueryEN       string              `json:"query_en"`
	Filters       intentFilters       `json:"filters"`
	AspectWeights map[string]*float64 `json:"aspect_weights"`
}

type intentFilters struct {
	BoroughEN *string `json:"borough_en"`
	// Models occasionally emit a bare string instead of an array here.
	DesiredTypes json.RawMessage `json:"desired_types"`
	MinRating    *float64        `json:"min_rating"`
}

// parseIntent decodes the model output and keeps only fields that survive
// validation. A field that fails validation is dropped, not an error;
// only an undecodable payload fails.
func parseIntent(content string) (domain.Intent, error) {
	var p intentPayload
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &p); err != nil {
		return domain.Intent{}, fmt.Errorf("decode intent json: %w", err)
	}

	intent := domain.Intent{QueryEN: strings.TrimSpace(p.QueryEN)}

	if p.Filters.BoroughEN != nil {
		if b, err := domain.ParseBorough(*p.Filters.BoroughEN); err == nil {
			intent.BoroughEN = b.String()
		}
	}
	intent.DesiredTypes = domain.NormalizeTypes(decodeTypes(p.Filters.DesiredTypes))
	if p.Filters.MinRating != nil {
		if v := *p.Filters.MinRating; v > 0 && v <= 5 {
			intent.MinRating = v
		}
	}

	hints := make(domain.AspectWeights)
	for name, value := range p.AspectWeights {
		if value == nil {
			continue
		}
		aspect, err := domain.ParseAspect(name)
		if err != nil {
			continue
		}
		hints[aspect] = clamp01(*value)
	}
	if len(hints) > 0 {
		intent.Hints = hints
	}

	return intent, nil
}

func decodeTypes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// stripCodeFence unwraps a ```json ... ``` block some models add around
// the payload despite the output-format instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
