package rules

import "github.com/pagelens/pagelens/internal/model"

// Category names used by the stock catalog. Callers enable a subset per run
// and weight them via the weight table passed to Evaluate.
const (
	CategoryContent    = "content"
	CategorySEO        = "seo"
	CategoryResources  = "resources"
	CategoryMobile     = "mobile"
	CategoryEngagement = "engagement"
)

// DefaultCategoryWeights reflect how much each category moves the overall
// audit score. They need not sum to 1; the engine normalizes.
func DefaultCategoryWeights() map[string]float64 {
	return map[string]float64{
		CategoryContent:    0.30,
		CategorySEO:        0.25,
		CategoryResources:  0.20,
		CategoryMobile:     0.15,
		CategoryEngagement: 0.10,
	}
}

// DefaultCatalog is the stock web-quality rule set. Metric keys follow the
// "<detector>.<metric>" convention produced by the pipeline's snapshot
// flattening.
func DefaultCatalog() []Rule {
	return []Rule{
		// Content quality
		MinRule("content:min-words", "Page has at least 300 words of body copy",
			CategoryContent, 0.9, "content.word_count", 300, model.ImpactHigh),
		MinRule("content:paragraphs", "Body copy is broken into at least 3 paragraphs",
			CategoryContent, 0.5, "content.paragraph_count", 3, model.ImpactLow),
		MinRule("content:text-ratio", "Visible text makes up at least 10% of the markup",
			CategoryContent, 0.6, "content.text_ratio", 0.10, model.ImpactMedium),
		PresenceRule("content:has-headings", "Body copy is structured with headings",
			CategoryContent, 0.6, "content.heading_count", model.ImpactMedium),

		// SEO
		MinRule("seo:title-length", "Title is at least 10 characters",
			CategorySEO, 0.8, "seo.title_length", 10, model.ImpactHigh),
		MaxRule("seo:title-not-overlong", "Title stays under 70 characters",
			CategorySEO, 0.4, "seo.title_length", 70, model.ImpactLow),
		PresenceRule("seo:meta-description", "Page declares a meta description",
			CategorySEO, 0.8, "seo.has_meta_description", model.ImpactHigh),
		PresenceRule("seo:canonical", "Page declares a canonical URL",
			CategorySEO, 0.5, "seo.has_canonical", model.ImpactMedium),
		Rule{
			ID:          "seo:single-h1",
			Description: "Page has exactly one h1",
			Category:    CategorySEO,
			Weight:      0.6,
			Evaluate: func(s Snapshot) (model.RuleVerdict, error) {
				one := 1.0
				v, ok := s.Get("seo.h1_count")
				if !ok {
					return model.RuleVerdict{Passed: false, Threshold: &one, Impact: model.ImpactMedium}, nil
				}
				return model.RuleVerdict{Passed: v == 1, Observed: v, Threshold: &one, Impact: model.ImpactMedium}, nil
			},
		},
		MinRule("seo:img-alt-coverage", "At least 80% of images carry alt text",
			CategorySEO, 0.5, "seo.img_alt_ratio", 0.8, model.ImpactMedium),

		// Resource budget
		MaxRule("resources:script-budget", "No more than 25 script tags",
			CategoryResources, 0.7, "resources.script_count", 25, model.ImpactMedium),
		MaxRule("resources:style-budget", "No more than 10 stylesheets",
			CategoryResources, 0.5, "resources.stylesheet_count", 10, model.ImpactLow),
		MaxRule("resources:inline-scripts", "No more than 5 inline scripts",
			CategoryResources, 0.5, "resources.inline_script_count", 5, model.ImpactMedium),
		MaxRule("resources:iframe-budget", "No more than 2 iframes",
			CategoryResources, 0.4, "resources.iframe_count", 2, model.ImpactMedium),

		// Mobile friendliness
		PresenceRule("mobile:viewport", "Page declares a responsive viewport",
			CategoryMobile, 0.9, "mobile.has_viewport", model.ImpactHigh),
		MaxRule("mobile:fixed-width", "No fixed-width layout elements",
			CategoryMobile, 0.5, "mobile.fixed_width_count", 0, model.ImpactMedium),

		// Engagement
		MinRule("engagement:internal-links", "Page links to at least 3 internal pages",
			CategoryEngagement, 0.6, "engagement.internal_link_count", 3, model.ImpactMedium),
		MaxRule("engagement:link-density", "Link text is under half the body copy",
			CategoryEngagement, 0.4, "engagement.link_density", 0.5, model.ImpactLow),
		PresenceRule("engagement:media", "Page embeds at least one image or media element",
			CategoryEngagement, 0.5, "engagement.media_count", model.ImpactLow),
	}
}
