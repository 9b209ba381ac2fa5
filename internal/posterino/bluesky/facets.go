package bluesky

import (
	"regexp"

	"github.com/bluesky-social/indigo/api/bsky"
)

const linkFeatureType = "app.bsky.richtext.facet#link"

// urlPattern matches http(s):// followed by anything up to Unicode whitespace.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\x{85}\p{Z}]+`)

// URLFacet is a hyperlink span in a post, in UTF-8 byte offsets.
type URLFacet struct {
	Start int
	End   int
	URL   string
}

// DetectURLs returns the URLs in text from left to right. Matches are greedy
// and never overlap.
func DetectURLs(text string) []URLFacet {
	matches := urlPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	facets := make([]URLFacet, 0, len(matches))
	for _, m := range matches {
		facets = append(facets, URLFacet{Start: m[0], End: m[1], URL: text[m[0]:m[1]]})
	}
	return facets
}

func linkFacets(text string) []*bsky.RichtextFacet {
	urls := DetectURLs(text)
	if len(urls) == 0 {
		return nil
	}

	facets := make([]*bsky.RichtextFacet, 0, len(urls))
	for _, u := range urls {
		facets = append(facets, &bsky.RichtextFacet{
			Index: &bsky.RichtextFacet_ByteSlice{
				ByteStart: int64(u.Start),
				ByteEnd:   int64(u.End),
			},
			Features: []*bsky.RichtextFacet_Features_Elem{
				{
					RichtextFacet_Link: &bsky.RichtextFacet_Link{
						LexiconTypeID: linkFeatureType,
						Uri:           u.URL,
					},
				},
			},
		})
	}
	return facets
}
