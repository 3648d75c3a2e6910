package fnt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// parser carries scan state across tokens: glyph coordinates arrive as
// separate x=/y= tokens after their char id=, and an id= token is only
// honored right after a "char" word so that "page id=" is not misread as a
// glyph.
type parser struct {
	cs          *CharSet
	bitmapFile  string
	charID      int // current glyph slot, -1 before the first char block
	prevWasChar bool
	maxXAdvance int
	maxHeight   int
	line        int
}

// Parse reads the BMFont text format and returns the charset plus the atlas
// filename named by the file= attribute.
func Parse(r io.Reader) (*CharSet, string, error) {
	p := &parser{cs: &CharSet{}, charID: -1}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		for _, token := range strings.Fields(scanner.Text()) {
			if err := p.handleToken(token); err != nil {
				return nil, "", err
			}
			p.prevWasChar = token == "char"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("reading fnt: %w", err)
	}
	p.cs.CharWidth = p.maxXAdvance
	p.cs.CharHeight = p.maxHeight
	return p.cs, p.bitmapFile, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*CharSet, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open fnt: %w", err)
	}
	defer f.Close()
	cs, bitmap, err := Parse(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cs, bitmap, nil
}

func (p *parser) handleToken(token string) error {
	switch {
	case strings.HasPrefix(token, "base="):
		v, err := p.intValue(token, "base=")
		if err != nil {
			return err
		}
		p.cs.CharBaseHeight = v
	case strings.HasPrefix(token, "file="):
		p.bitmapFile = strings.Trim(token[len("file="):], `"`)
	case p.prevWasChar && strings.HasPrefix(token, "id="):
		v, err := p.intValue(token, "id=")
		if err != nil {
			return err
		}
		if v < 0 || v >= MaxChars {
			return fmt.Errorf("line %d: char id %d outside the %d-entry table", p.line, v, MaxChars)
		}
		p.charID = v
		p.cs.Defined[v] = true
		p.cs.CharCount++
	case strings.HasPrefix(token, "x="):
		v, err := p.intValue(token, "x=")
		if err != nil {
			return err
		}
		if p.charID >= 0 {
			p.cs.Chars[p.charID].X = uint16(v)
		}
	case strings.HasPrefix(token, "y="):
		v, err := p.intValue(token, "y=")
		if err != nil {
			return err
		}
		if p.charID >= 0 {
			p.cs.Chars[p.charID].Y = uint16(v)
		}
	case strings.HasPrefix(token, "height="):
		v, err := p.intValue(token, "height=")
		if err != nil {
			return err
		}
		if v > p.maxHeight {
			p.maxHeight = v
		}
	case strings.HasPrefix(token, "xadvance="):
		v, err := p.intValue(token, "xadvance=")
		if err != nil {
			return err
		}
		if v > p.maxXAdvance {
			p.maxXAdvance = v
		}
	}
	return nil
}

// intValue parses a token's numeric payload. Base 0 so hex char ids in
// hand-written files keep working.
func (p *parser) intValue(token, prefix string) (int, error) {
	v, err := strconv.ParseInt(token[len(prefix):], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s", p.line, token)
	}
	return int(v), nil
}
