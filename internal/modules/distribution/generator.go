package distribution

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reconhq/recon-core/internal/modules/processing/rewrite"
	"github.com/reconhq/recon-core/internal/pkg/slug"
	"go.uber.org/zap"
)

// genericStylePrompt is used when neither a portal-specific nor a global
// prompt exists.
const genericStylePrompt = "You are an editorial assistant for a news portal. " +
	"Rewrite news content in a distinct editorial voice while keeping the meaning intact."

const rewriteTaskTemplate = `Rewrite the following news content for the portal "%s".
Each portal must receive a unique variation of the rewritten content.

Rules:
- Preserve all HTML tags, attributes, styles, images, links, lists, and formatting inside the description.
- Rewrite the textual content for: title, short_description, description, and meta_title.
- The short_description must be a concise 1-2 sentence summary of the rewritten description, under 160 characters.
- Generate a new slug as a clean, URL-safe version of the rewritten meta_title (lowercase, hyphen separated).
- Ensure wording differs from other portals, but keep meaning intact.
- Do not remove, add, or modify any HTML structure.

Return ONLY valid JSON with keys: title, short_description, description, meta_title, slug.

%s`

// Generator produces the portal-specific variant of a post's text fields.
// The rewrite client is injected at startup; a nil client degrades every
// rewrite request to passthrough.
type Generator struct {
	client rewrite.Client
	log    *zap.Logger
}

func NewGenerator(client rewrite.Client, log *zap.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Passthrough returns the canonical fields unchanged, deriving the slug
// deterministically when absent.
func (g *Generator) Passthrough(f CanonicalFields) Variant {
	metaTitle := f.MetaTitle
	if metaTitle == "" {
		metaTitle = f.Title
	}
	slugValue := f.Slug
	if slugValue == "" {
		slugValue = slug.Make(metaTitle)
	}
	return Variant{
		Title:            f.Title,
		ShortDescription: f.ShortDescription,
		Content:          f.Content,
		MetaTitle:        metaTitle,
		Slug:             slugValue,
	}
}

// Generate asks the rewrite service for a portal-specific variation.
// The response is untrusted text; any parse or transport failure falls back
// to passthrough so a broken rewrite service never blocks dispatch.
func (g *Generator) Generate(ctx context.Context, f CanonicalFields, stylePrompt, portalName string) Variant {
	fallback := g.Passthrough(f)
	if g.client == nil {
		g.log.Warn("rewrite client not configured, using default content",
			zap.String("portal", portalName))
		return fallback
	}
	if strings.TrimSpace(stylePrompt) == "" {
		stylePrompt = genericStylePrompt
	}

	g.log.Info("generating content variation",
		zap.String("portal", portalName),
		zap.String("title", f.Title))

	seed, _ := json.Marshal(map[string]string{
		"title":             f.Title,
		"short_description": f.ShortDescription,
		"description":       f.Content,
		"meta_title":        fallback.MetaTitle,
		"slug":              fallback.Slug,
	})
	userPrompt := fmt.Sprintf(rewriteTaskTemplate, portalName, string(seed))

	raw, err := g.client.Complete(ctx, stylePrompt, userPrompt)
	if err != nil {
		g.log.Warn("rewrite call failed, falling back to default content",
			zap.String("portal", portalName), zap.Error(err))
		return fallback
	}

	var out Variant
	if err := unmarshalVariantJSON(raw, &out); err != nil {
		g.log.Warn("rewrite response was not valid JSON, falling back to default content",
			zap.String("portal", portalName), zap.Error(err))
		return fallback
	}

	// Missing keys inherit the canonical value.
	if strings.TrimSpace(out.Title) == "" {
		out.Title = fallback.Title
	}
	if strings.TrimSpace(out.ShortDescription) == "" {
		out.ShortDescription = fallback.ShortDescription
	}
	if strings.TrimSpace(out.Content) == "" {
		out.Content = fallback.Content
	}
	if strings.TrimSpace(out.MetaTitle) == "" {
		out.MetaTitle = fallback.MetaTitle
	}
	if strings.TrimSpace(out.Slug) == "" {
		out.Slug = slug.Make(out.MetaTitle)
	}
	return out
}

// unmarshalVariantJSON decodes a rewrite response: strict JSON first, then
// with code fences stripped, then the first brace-delimited object substring.
func unmarshalVariantJSON(raw string, out *Variant) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no valid JSON object in rewrite response")
}
