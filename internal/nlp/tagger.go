package nlp

// PosNoun is the coarse part-of-speech tag the category fallback looks for.
const PosNoun = "NOUN"

// Token is one tagged token from a Tagger.
type Token struct {
	Text     string
	Lemma    string
	Pos      string
	Stopword bool
}

// Tagger is the optional part-of-speech collaborator consulted when keyword
// matching finds no category. Implementations must be safe for concurrent use
// or be wrapped by the caller.
type Tagger interface {
	Tag(text string) []Token
}

// NoopTagger tags nothing. Engines built with it (or with a nil tagger)
// degrade to keyword-only category resolution.
type NoopTagger struct{}

func (NoopTagger) Tag(string) []Token { return nil }
