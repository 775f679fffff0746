package dom

import (
	"strings"

	"github.com/vango-dev/webcell/internal/errors"
)

// Selector is a parsed selector list.
type Selector struct {
	groups [][]compound
}

// compound is one simple-selector sequence plus the combinator that links
// it to the previous compound (' ' descendant or '>' child).
type compound struct {
	comb    byte
	tag     string
	id      string
	classes []string
	attrs   []attrTest
}

type attrTest struct {
	name  string
	value string
	exact bool
}

// ParseSelector parses a selector list of tag, #id, .class, [attr] and
// [attr=value] compounds joined by descendant or child combinators.
func ParseSelector(s string) (*Selector, error) {
	sel := &Selector{}
	for _, part := range strings.Split(s, ",") {
		group, err := parseGroup(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New("W021").WithDetailf("%q: %s", s, err.Error())
		}
		sel.groups = append(sel.groups, group)
	}
	return sel, nil
}

func parseGroup(s string) ([]compound, error) {
	if s == "" {
		return nil, errors.Newf(errors.CategoryPlatform, "empty selector")
	}
	var (
		out  []compound
		comb byte = ' '
	)
	fields := strings.Fields(strings.ReplaceAll(s, ">", " > "))
	for _, f := range fields {
		if f == ">" {
			if len(out) == 0 {
				return nil, errors.Newf(errors.CategoryPlatform, "leading combinator")
			}
			comb = '>'
			continue
		}
		c, err := parseCompound(f)
		if err != nil {
			return nil, err
		}
		c.comb = comb
		out = append(out, c)
		comb = ' '
	}
	if comb == '>' {
		return nil, errors.Newf(errors.CategoryPlatform, "trailing combinator")
	}
	return out, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}
	if s[0] != '#' && s[0] != '.' && s[0] != '[' {
		c.tag = strings.ToLower(readIdent())
		if c.tag == "*" {
			c.tag = ""
		}
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			c.id = readIdent()
			if c.id == "" {
				return c, errors.Newf(errors.CategoryPlatform, "empty id")
			}
		case '.':
			i++
			cls := readIdent()
			if cls == "" {
				return c, errors.Newf(errors.CategoryPlatform, "empty class")
			}
			c.classes = append(c.classes, cls)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, errors.Newf(errors.CategoryPlatform, "unterminated attribute selector")
			}
			body := s[i+1 : i+end]
			i += end + 1
			name, value, exact := strings.Cut(body, "=")
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return c, errors.Newf(errors.CategoryPlatform, "empty attribute name")
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			c.attrs = append(c.attrs, attrTest{name: name, value: value, exact: exact})
		default:
			return c, errors.Newf(errors.CategoryPlatform, "unexpected %q", s[i])
		}
	}
	return c, nil
}

func (c *compound) match(n *Node) bool {
	if n.Type != ElementNode {
		return false
	}
	if c.tag != "" && c.tag != n.Data {
		return false
	}
	if c.id != "" && n.Attribute("id") != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.GetAttribute(a.name)
		if !ok || (a.exact && v != a.value) {
			return false
		}
	}
	return true
}

// Match reports whether n matches the selector. Ancestors are searched
// within n's tree, never beyond a shadow root.
func (s *Selector) Match(n *Node) bool {
	for _, g := range s.groups {
		if matchGroup(g, len(g)-1, n) {
			return true
		}
	}
	return false
}

func matchGroup(g []compound, i int, n *Node) bool {
	if !g[i].match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if g[i].comb == '>' {
		p := n.parent
		return p != nil && matchGroup(g, i-1, p)
	}
	for p := n.parent; p != nil; p = p.parent {
		if matchGroup(g, i-1, p) {
			return true
		}
	}
	return false
}

// Matches reports whether n matches sel. Invalid selectors match nothing.
func (n *Node) Matches(sel string) bool {
	s, err := ParseSelector(sel)
	if err != nil {
		return false
	}
	return s.Match(n)
}

// Closest returns the nearest inclusive ancestor matching sel, or nil.
func (n *Node) Closest(sel string) *Node {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil
	}
	for p := n; p != nil; p = p.parent {
		if s.Match(p) {
			return p
		}
	}
	return nil
}

// QuerySelector returns the first descendant matching sel in tree order.
func (n *Node) QuerySelector(sel string) *Node {
	all := n.query(sel, true)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll returns every descendant matching sel in tree order.
func (n *Node) QuerySelectorAll(sel string) []*Node {
	return n.query(sel, false)
}

func (n *Node) query(sel string, first bool) []*Node {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil
	}
	var out []*Node
	var walk func(*Node) bool
	walk = func(p *Node) bool {
		for _, c := range p.children {
			if s.Match(c) {
				out = append(out, c)
				if first {
					return true
				}
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(n)
	return out
}
