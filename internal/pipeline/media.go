package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LocalMedia returns the relative media references in a rendered fragment,
// in document order without duplicates. The site builder copies these next
// to the chapter page so relative paths keep resolving.
//
// Collected:
//   - img[src]
//   - video[src], audio[src], source[src]
//   - video[poster]
//
// Paths are returned cleaned, without query or fragment. Skipped: anything
// with a scheme (http:, data:), absolute paths, anchors, and anything
// climbing above the chapter directory.
func LocalMedia(fragment string) ([]string, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var refs []string
	add := func(v string) {
		p, ok := localPath(v)
		if !ok || seen[p] {
			return
		}
		seen[p] = true
		refs = append(refs, p)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img, atom.Audio, atom.Source:
				add(attr(n, "src"))
			case atom.Video:
				add(attr(n, "src"))
				add(attr(n, "poster"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return refs, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// localPath returns ref unescaped, cleaned and without query or fragment, if it is a
// relative path that stays within the directory it is resolved against.
func localPath(ref string) (string, bool) {
	if ref == "" ||
		strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(ref, "/") ||
		strings.HasPrefix(ref, "\\") ||
		strings.Contains(ref, ":") {
		return "", false
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	// Goldmark percent-encodes destinations; files on disk are not.
	if u, err := url.PathUnescape(ref); err == nil {
		ref = u
	}
	clean := path.Clean(ref)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
