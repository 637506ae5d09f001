package textsource

// DefaultWordLength is used for speed metrics when a text has no words.
const DefaultWordLength = 5.0

// ReferenceText is an immutable sample on a fixed-width character model.
type ReferenceText struct {
	chars    []byte
	nonSpace int
	words    int
}

// NewReferenceText builds a ReferenceText from s as-is. Callers that read
// from disk should pass the text through Normalize first.
func NewReferenceText(s string) ReferenceText {
	chars := []byte(s)
	ref := ReferenceText{chars: chars}
	inWord := false
	for _, c := range chars {
		if isSpace(c) {
			inWord = false
			continue
		}
		ref.nonSpace++
		if !inWord {
			ref.words++
			inWord = true
		}
	}
	return ref
}

// Len returns the number of characters.
func (r ReferenceText) Len() int {
	return len(r.chars)
}

// At returns the character at index i.
func (r ReferenceText) At(i int) byte {
	return r.chars[i]
}

// NonSpaceCount returns the number of non-whitespace characters.
func (r ReferenceText) NonSpaceCount() int {
	return r.nonSpace
}

// WordCount returns the number of maximal runs of non-whitespace characters.
func (r ReferenceText) WordCount() int {
	return r.words
}

// AverageWordLength returns non-whitespace characters per word, or
// DefaultWordLength if the text has no words.
func (r ReferenceText) AverageWordLength() float64 {
	if r.words == 0 {
		return DefaultWordLength
	}
	return float64(r.nonSpace) / float64(r.words)
}

func (r ReferenceText) String() string {
	return string(r.chars)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Normalize collapses whitespace runs to a single space, trims both ends and
// drops bytes outside printable ASCII, so every character can be typed.
func Normalize(raw []byte) string {
	out := make([]byte, 0, len(raw))
	pendingSpace := false
	for _, c := range raw {
		if isSpace(c) {
			pendingSpace = len(out) > 0
			continue
		}
		if c < 32 || c > 126 {
			continue
		}
		if pendingSpace {
			out = append(out, ' ')
			pendingSpace = false
		}
		out = append(out, c)
	}
	return string(out)
}
