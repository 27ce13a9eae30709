package s2orc

import (
	"fmt"
	"strconv"
	"strings"
)

// decodeLiteral parses a Python-style literal (the subset produced by
// `repr()` of a list of dicts: single- or double-quoted strings, True/False/
// None, ints, floats, nested lists/dicts) the way upstream occasionally
// string-encodes an annotation list instead of emitting proper JSON. It is
// the Go equivalent of `ast.literal_eval` for this narrow grammar.
func decodeLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing data at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of literal")
	}
	switch {
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseDict()
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

func (p *literalParser) parseList() (any, error) {
	p.pos++ // '['
	out := []any{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated list")
		}
		if c == ',' {
			p.pos++
			p.skipSpace()
			if c2, ok := p.peek(); ok && c2 == ']' {
				p.pos++
				return out, nil
			}
			continue
		}
		if c == ']' {
			p.pos++
			return out, nil
		}
		return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
	}
}

func (p *literalParser) parseDict() (any, error) {
	p.pos++ // '{'
	out := map[string]any{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		keyAny, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		key, ok := keyAny.(string)
		if !ok {
			key = fmt.Sprintf("%v", keyAny)
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = val
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated dict")
		}
		if c == ',' {
			p.pos++
			p.skipSpace()
			if c2, ok := p.peek(); ok && c2 == '}' {
				p.pos++
				return out, nil
			}
			continue
		}
		if c == '}' {
			p.pos++
			return out, nil
		}
		return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
	}
}

func (p *literalParser) parseString() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated string")
		}
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(next)
			default:
				b.WriteByte(next)
			}
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *literalParser) parseNumber() (any, error) {
	start := p.pos
	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		break
	}
	raw := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", raw, err)
		}
		return f, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", raw, err)
	}
	return n, nil
}

func (p *literalParser) parseKeyword() (any, error) {
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, "True"):
		p.pos += 4
		return true, nil
	case strings.HasPrefix(rest, "False"):
		p.pos += 5
		return false, nil
	case strings.HasPrefix(rest, "None"):
		p.pos += 4
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token at offset %d", p.pos)
	}
}
