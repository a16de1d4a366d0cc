package fieldpath

import "fmt"

// Path is a parsed field reference: an optional leading table/relationship
// chain followed by a column, with any remaining segments denoting a JSON
// traversal. Segments may be dot-separated ("a.b.c") or arrow-separated
// ("a->b->c"); both spellings produce the same Segments slice, matching
// spec §4.1's "dotted prefix ... JSON-path segments separated by ->".
type Path struct {
	// Segments is the full ordered list of identifiers in the path,
	// including the leading table (if any).
	Segments []string
	// IsNewRow reports whether the first segment was the reserved
	// NEW_ROW prefix used inside insert/update conditions.
	IsNewRow bool
}

// NewRowPrefix is the reserved path head referring to a mutation's
// in-memory new row, per the NEW_ROW glossary entry.
const NewRowPrefix = "NEW_ROW"

// Parse tokenizes a raw field-path string into its segments. It performs
// only lexical validation (legal identifier characters, no empty
// segments, no dangling separators); table/relationship/JSON-traversal
// semantics are resolved by the caller against a schema.Config.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("fieldpath.Parse: empty path")
	}

	l := New(raw)
	var segments []string

	for {
		seg, err := scanSegment(l)
		if err != nil {
			return Path{}, fmt.Errorf("fieldpath.Parse %q: %w", raw, err)
		}
		segments = append(segments, seg)

		if l.Peek() == RuneEOF {
			break
		}
		if !consumeSeparator(l) {
			return Path{}, fmt.Errorf("fieldpath.Parse %q: unexpected character after %q", raw, seg)
		}
	}

	return Path{
		Segments: segments,
		IsNewRow: segments[0] == NewRowPrefix,
	}, nil
}

// scanSegment reads one identifier: [A-Za-z_][A-Za-z0-9_]*.
func scanSegment(l *Lexer) (string, error) {
	if !l.Expect(IsIdentStart) {
		return "", fmt.Errorf("expected identifier, got %q", string(l.Peek()))
	}
	l.Some(IsIdentRune) // best effort; a single-rune identifier is fine
	return l.Reduce(), nil
}

// consumeSeparator advances past a "." or "->" and reports whether one was
// found.
func consumeSeparator(l *Lexer) bool {
	switch {
	case l.Expect(IsDot):
		l.Reduce()
		return true
	case l.Expect(IsArrowHyphen) && l.Expect(IsArrowAngle):
		l.Reduce()
		return true
	default:
		return false
	}
}

// String renders the path back using "->" for every separator, the form
// used for JSON traversal in emitted SQL diagnostics.
func (p Path) String() string {
	s := ""
	for i, seg := range p.Segments {
		if i > 0 {
			s += "->"
		}
		s += seg
	}
	return s
}

// Head returns the first segment (a table name, relationship name, or the
// NEW_ROW prefix) and reports whether the path has more than one segment.
func (p Path) Head() (string, bool) {
	if len(p.Segments) == 0 {
		return "", false
	}
	return p.Segments[0], len(p.Segments) > 1
}

// Tail returns every segment after the head.
func (p Path) Tail() []string {
	if len(p.Segments) < 2 {
		return nil
	}
	return p.Segments[1:]
}
