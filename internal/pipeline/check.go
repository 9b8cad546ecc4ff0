package pipeline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DeadAnchors returns the sidebar targets section-0..n-1 that have no
// element with that id in the rendered fragment. A heading that missed its
// lookup leaves its sidebar entry pointing nowhere; this surfaces it.
func DeadAnchors(fragment string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}

	present := make(map[string]bool, n)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			present[id] = true
		}
	})

	var dead []string
	for i := 0; i < n; i++ {
		if id := SectionID(i); !present[id] {
			dead = append(dead, id)
		}
	}
	return dead, nil
}
