package crops

import (
	"context"
	"log"
	"strings"

	"krishisahay/internal/gemini"
	"krishisahay/internal/locale"
	"krishisahay/internal/prompts"
)

// Catalog lists the crops the assistant has structured data for. The
// order is fixed; when a question mentions several crops the earliest
// catalog entry wins, keeping repeated questions deterministic.
var Catalog = []string{
	"rice", "wheat", "maize", "barley", "sorghum",
	"pearl millet", "potato", "banana", "cotton",
	"sugarcane", "groundnut", "mustard",
	"soybean", "tomato", "onion",
}

// Resolver detects which catalog crop a question is about, reaching back
// through the farmer's earlier messages when the current one names none.
type Resolver struct {
	backend gemini.Generator
	prompts *prompts.Manager
}

func NewResolver(backend gemini.Generator, pm *prompts.Manager) *Resolver {
	return &Resolver{backend: backend, prompts: pm}
}

// Resolve returns the lowercase catalog name of the crop the question
// concerns, or "" when none matches. priorUserMessages must be in
// conversation order.
func (r *Resolver) Resolve(ctx context.Context, question string, priorUserMessages []string, loc locale.Locale) string {
	combined := question
	for i := len(priorUserMessages) - 1; i >= 0; i-- {
		combined += " " + priorUserMessages[i]
	}

	if loc == locale.Hindi {
		prompt := r.prompts.Current().TranslatePrompt + "\n\nTEXT:\n" + combined + "\n"
		translated, err := r.backend.Generate(ctx, prompt)
		if err != nil {
			log.Printf("crops: translation failed, matching untranslated text: %v", err)
		} else {
			combined = translated
		}
	}

	combined = strings.ToLower(combined)
	for _, crop := range Catalog {
		if strings.Contains(combined, crop) {
			return crop
		}
	}
	return ""
}
