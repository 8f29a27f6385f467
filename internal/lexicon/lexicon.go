// Package lexicon implements the nlp.Tagger capability with a small
// rule-based Portuguese tokenizer: stopword lookup, plural-stripping
// lemmatization and a coarse noun-by-default part-of-speech guess. It exists
// so category extraction has a fallback signal without an external NLP model.
package lexicon

import (
	"strings"
	"unicode"

	"gastozap/internal/nlp"
)

// Tagger is stateless after construction and safe for concurrent use.
type Tagger struct {
	stopwords map[string]struct{}
	invariant map[string]struct{}
}

var _ nlp.Tagger = (*Tagger)(nil)

// New builds a tagger with the built-in Portuguese stopword list.
func New() *Tagger {
	t := &Tagger{
		stopwords: make(map[string]struct{}, len(stopwordList)),
		invariant: make(map[string]struct{}, len(invariantList)),
	}
	for _, w := range stopwordList {
		t.stopwords[w] = struct{}{}
	}
	for _, w := range invariantList {
		t.invariant[w] = struct{}{}
	}
	return t
}

// Tag splits text into word tokens and tags each one. Numbers are tagged NUM,
// stopwords keep their surface form, and everything else is treated as a noun
// candidate with a singularized lemma.
func (t *Tagger) Tag(text string) []nlp.Token {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]nlp.Token, 0, len(words))
	for _, w := range words {
		tok := nlp.Token{Text: w, Lemma: w}

		switch {
		case isNumeric(w):
			tok.Pos = "NUM"
		case t.isStopword(w):
			tok.Pos = "DET"
			tok.Stopword = true
		default:
			tok.Pos = nlp.PosNoun
			tok.Lemma = t.Lemmatize(w)
		}

		tokens = append(tokens, tok)
	}
	return tokens
}

func (t *Tagger) isStopword(w string) bool {
	_, ok := t.stopwords[w]
	return ok
}

// Lemmatize singularizes a Portuguese word with ordered suffix rules. Words in
// the invariant list and short words are returned unchanged.
func (t *Tagger) Lemmatize(w string) string {
	if len(w) <= 3 {
		return w
	}
	if _, ok := t.invariant[w]; ok {
		return w
	}

	rules := []struct{ suffix, repl string }{
		{"ções", "ção"},
		{"sões", "são"},
		{"ões", "ão"},
		{"ães", "ão"},
		{"ais", "al"},
		{"éis", "el"},
		{"óis", "ol"},
		{"ns", "m"},
		{"res", "r"},
		{"ses", "s"},
		{"zes", "z"},
		{"s", ""},
	}
	for _, r := range rules {
		if strings.HasSuffix(w, r.suffix) {
			return strings.TrimSuffix(w, r.suffix) + r.repl
		}
	}
	return w
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(w) > 0
}

// stopwordList covers the high-frequency Portuguese function words; anything
// here never becomes a category fallback candidate.
var stopwordList = []string{
	"a", "à", "ao", "aos", "as", "às", "até", "com", "como", "da", "das",
	"de", "depois", "do", "dos", "e", "ela", "elas", "ele", "eles", "em",
	"entre", "era", "essa", "essas", "esse", "esses", "esta", "está", "eu",
	"foi", "foram", "há", "isso", "já", "lhe", "mais", "mas", "me", "mesmo",
	"meu", "minha", "muito", "na", "não", "nas", "nem", "no", "nos", "nós",
	"num", "numa", "o", "os", "ou", "para", "pela", "pelas", "pelo", "pelos",
	"por", "quando", "que", "quem", "se", "sem", "ser", "seu", "seus", "só",
	"sua", "suas", "também", "tem", "têm", "ter", "tinha", "um", "uma",
	"você", "vocês",
}

// invariantList holds words whose plural equals the singular; the s-stripping
// rules would mangle them.
var invariantList = []string{
	"ônibus", "onibus", "lápis", "lapis", "pires", "vírus", "virus", "mês",
}
