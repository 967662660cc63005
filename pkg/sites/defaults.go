package sites

const newsPathFilter = "/news/"

// Builtin returns the pre-configured sources.
func Builtin() []Site {
	return []Site{
		{
			Name:              "cbc",
			ListingURL:        "https://www.cbc.ca/news",
			LinkSelector:      "a.card",
			LinkPathFilter:    newsPathFilter,
			LinkPrefix:        "cbc.ca",
			BodySelector:      "div.story",
			ParagraphSelector: "p",
		},
		{
			Name:              "national_post",
			ListingURL:        "https://nationalpost.com/category/news/",
			LinkSelector:      "a.article-card__link",
			LinkPathFilter:    newsPathFilter,
			LinkPrefix:        "nationalpost.com",
			BodySelector:      "section.article-content__content-group",
			ParagraphSelector: "p.section.article-content__content-group",
		},
		{
			Name:              "the_star",
			ListingURL:        "https://www.thestar.com/news/world",
			LinkSelector:      "a.c-mediacard",
			LinkPathFilter:    newsPathFilter,
			LinkPrefix:        "thestar.com",
			BodySelector:      "div.c-article-body__content",
			ParagraphSelector: "p.text-block-container",
		},
	}
}
