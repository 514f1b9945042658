package codebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/catascopic/solstice/relay"
)

// Source holds the codebook documents loaded at startup. Each joining client
// is dealt the book matching its join order; the deck wraps around when more
// clients join than books exist.
type Source struct {
	books [][]relay.Pair
}

// LoadSource reads a codebook file: a JSON array of books, each book an array
// of ["prompt", "response"] pairs.
func LoadSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening codebook file: %w", err)
	}
	defer f.Close()

	var books [][]relay.Pair
	if err := json.NewDecoder(f).Decode(&books); err != nil {
		return nil, fmt.Errorf("parsing codebook file %s: %w", path, err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("codebook file %s holds no books", path)
	}
	return &Source{books: books}, nil
}

// Codebook returns a copy of the book for the given join order.
func (s *Source) Codebook(joinOrder int) []relay.Pair {
	book := s.books[joinOrder%len(s.books)]
	out := make([]relay.Pair, len(book))
	copy(out, book)
	return out
}

// Books returns how many distinct books the source holds.
func (s *Source) Books() int {
	return len(s.books)
}

// LoadVictory reads the opaque victory document. The session never looks
// inside it; it is broadcast verbatim on the goal edge.
func LoadVictory(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading victory document: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("victory document %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

// WriteSigns writes the full identity namespace, one three-letter sign per
// line, AAA through ZZZ.
func WriteSigns(w io.Writer) error {
	sign := make([]byte, 4)
	sign[3] = '\n'
	for a := byte('A'); a <= 'Z'; a++ {
		for b := byte('A'); b <= 'Z'; b++ {
			for c := byte('A'); c <= 'Z'; c++ {
				sign[0], sign[1], sign[2] = a, b, c
				if _, err := w.Write(sign); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
