// Package pipeline implements the lesson Markdown to HTML stages.
//
// A chapter flows through:
//   - preprocessing (line endings, authoring comment removal)
//   - section extraction (ordered level-2 heading titles)
//   - conversion via Goldmark with GFM, where level-2 headings receive
//     section-{i} anchors and fenced code in the target language becomes
//     a copy-enabled, highlighted block
//   - post-render checks (dead sidebar anchors, local media references)
//
// Page layout, sidebar and navigation are assembled by the root textbook
// package from the fragments produced here.
package pipeline
