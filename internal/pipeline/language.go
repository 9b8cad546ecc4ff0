package pipeline

import (
	"bytes"
	"regexp"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainLanguage is the language tag for fences without a usable identifier.
const PlainLanguage = "text"

var languageWord = regexp.MustCompile(`^\w+`)

// FenceLanguage splits a fence info string into the raw first word and the
// declared language. The language is the leading word-character run of that
// word; malformed or missing info yields PlainLanguage.
//
//	"python"          -> ("python", "python")
//	"c++ {linenos}"   -> ("c++", "c")
//	"{.python}"       -> ("{.python}", "text")
//	""                -> ("", "text")
func FenceLanguage(info []byte) (word, lang string) {
	fields := bytes.Fields(info)
	if len(fields) == 0 {
		return "", PlainLanguage
	}
	word = string(fields[0])
	if m := languageWord.FindString(word); m != "" {
		return word, m
	}
	return word, PlainLanguage
}

// lexerFor returns a coalescing chroma lexer for lang, or the fallback lexer.
func lexerFor(lang string) chroma.Lexer {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// KnownLanguage reports whether chroma has a lexer registered for lang.
func KnownLanguage(lang string) bool {
	return lang != PlainLanguage && lexers.Get(lang) != nil
}
