package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/labelmap"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// Read parses a GraphML document from r into a fresh Graph.
func Read(r io.Reader) (*tnet.Graph, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("graphml: Read: %w", err)
	}

	g := tnet.NewGraph()
	for _, xn := range doc.Graph.Nodes {
		n, err := decodeNode(g.Propositions(), xn)
		if err != nil {
			return nil, fmt.Errorf("graphml: Read: %w", err)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("graphml: Read: %w", err)
		}
	}
	for _, xe := range doc.Graph.Edges {
		e, err := decodeEdge(g.Propositions(), xe)
		if err != nil {
			return nil, fmt.Errorf("graphml: Read: %w", err)
		}
		if _, err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("graphml: Read: %w", err)
		}
	}
	return g, nil
}

func decodeNode(reg *label.Registry, xn xmlNode) (*tnet.Node, error) {
	name, ok := xn.attr("name")
	if !ok || name == "" {
		return nil, ErrMissingName
	}
	n := &tnet.Node{Name: name}

	if v, ok := xn.attr("x"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: x: %w", name, err)
		}
		n.X = f
	}
	if v, ok := xn.attr("y"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: y: %w", name, err)
		}
		n.Y = f
	}
	if v, ok := xn.attr("label"); ok && v != "" {
		l, err := parseLabel(reg, v)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: label: %w", name, err)
		}
		n.Label = l
	}
	if v, ok := xn.attr("observes"); ok && v != "" {
		p, err := reg.Intern([]rune(v)[0])
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: observes: %w", name, err)
		}
		n.HasObserves = true
		n.Observes = p
	}
	if v, ok := xn.attr("contingent"); ok && v == "true" {
		n.HasContingentALetter = true
		if a, ok := xn.attr("aLetter"); ok && a != "" {
			n.ContingentALetter = []rune(a)[0]
		}
	}
	if v, ok := xn.attr("logNormal"); ok && v != "" {
		parts := strings.SplitN(v, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("graphml: node %q: logNormal: expected \"mu,sigma\"", name)
		}
		mu, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: logNormal mu: %w", name, err)
		}
		sigma, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: logNormal sigma: %w", name, err)
		}
		n.LogNormal = &tnet.LogNormalParams{Mu: mu, Sigma: sigma}
	}
	if v, ok := xn.attr("oracleFor"); ok && v != "" {
		n.HasOracleFor = true
		n.OracleFor = []rune(v)[0]
	}
	return n, nil
}

func decodeEdge(reg *label.Registry, xe xmlEdge) (*tnet.Edge, error) {
	name, ok := xe.attr("name")
	if !ok || name == "" {
		return nil, ErrMissingName
	}
	e := &tnet.Edge{ID: name, From: xe.Source, To: xe.Target}

	if v, ok := xe.attr("type"); ok {
		t, err := parseType(v)
		if err != nil {
			return nil, fmt.Errorf("graphml: edge %q: %w", name, err)
		}
		e.Type = t
	}

	labeledValues, hasLabeled := xe.attr("labeledValues")
	upperCaseValues, hasUpper := xe.attr("upperCaseValues")
	lowerCaseValue, hasLower := xe.attr("lowerCaseValue")

	if hasLabeled || hasUpper || hasLower {
		e.Labeled = tnet.NewLabeledPayload()
		if hasLabeled && labeledValues != "" {
			if err := fillLabeledMap(reg, e.Labeled.Values, labeledValues); err != nil {
				return nil, fmt.Errorf("graphml: edge %q: labeledValues: %w", name, err)
			}
		}
		if hasUpper && upperCaseValues != "" {
			if err := fillUpperCase(reg, e.Labeled, upperCaseValues); err != nil {
				return nil, fmt.Errorf("graphml: edge %q: upperCaseValues: %w", name, err)
			}
		}
		if hasLower && lowerCaseValue != "" {
			if err := fillLowerCase(reg, e.Labeled, lowerCaseValue); err != nil {
				return nil, fmt.Errorf("graphml: edge %q: lowerCaseValue: %w", name, err)
			}
		}
		// A scalar lower-/upper-case edge is written as a single entry under
		// the empty label; read it back as that scalar edge.
		if !hasLabeled && !hasUpper && len(e.Labeled.LowerCase) == 1 {
			for a, lc := range e.Labeled.LowerCase {
				if lc.Alpha.IsEmpty() {
					e.Kind, e.ALetter, e.Weight, e.Labeled = tnet.KindLowerCase, a, lc.Value, nil
				}
			}
		}
		if !hasLabeled && !hasLower && len(e.Labeled.UpperCase) == 1 {
			for a, m := range e.Labeled.UpperCase {
				if es := m.Entries(); len(es) == 1 && es[0].Label.IsEmpty() {
					e.Kind, e.ALetter, e.Weight, e.Labeled = tnet.KindUpperCase, a, es[0].Value, nil
				}
			}
		}
		return e, nil
	}

	if v, ok := xe.attr("value"); ok {
		n, err := parseWeight(v)
		if err != nil {
			return nil, fmt.Errorf("graphml: edge %q: value: %w", name, err)
		}
		e.Kind = tnet.KindOrdinary
		e.Weight = satint.Finite(n)
	}
	if v, ok := xe.attr("wait"); ok {
		a, n, err := splitLetterValue(v)
		if err != nil {
			return nil, fmt.Errorf("graphml: edge %q: wait: %w", name, err)
		}
		e.Kind = tnet.KindWait
		e.ALetter = a
		e.Weight = satint.Finite(n)
	}
	return e, nil
}

func parseType(s string) (tnet.ConstraintType, error) {
	switch s {
	case "normal", "":
		return tnet.Normal, nil
	case "contingent":
		return tnet.ContingentConstraint, nil
	case "internal":
		return tnet.Internal, nil
	case "requirement":
		return tnet.Requirement, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// parseLabel parses a literal-list like "a-bc" (a straight, b negated, c
// straight) or "a-b~c" (c unknown), interning each letter it first sees.
func parseLabel(reg *label.Registry, s string) (label.Label, error) {
	l := label.Empty()
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		sign := label.Straight
		switch runes[i] {
		case '-':
			sign = label.Negated
			i++
		case '~':
			sign = label.Unknown
			i++
		}
		if i >= len(runes) {
			return label.Label{}, fmt.Errorf("%w: %q", ErrMalformedLabel, s)
		}
		p, err := reg.Intern(runes[i])
		if err != nil {
			return label.Label{}, fmt.Errorf("%w: %q: %w", ErrMalformedLabel, s, err)
		}
		switch sign {
		case label.Negated:
			l, _ = label.Conjunction(l, label.Literal(p, false))
		case label.Unknown:
			l, _ = label.Conjunction(l, label.UnknownLiteral(p))
		default:
			l, _ = label.Conjunction(l, label.Literal(p, true))
		}
	}
	return l, nil
}

// fillLabeledMap parses a semicolon-separated "label:value" list.
func fillLabeledMap(reg *label.Registry, m *labelmap.Map, s string) error {
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		idx := strings.LastIndexByte(part, ':')
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrMalformedValue, part)
		}
		labelStr, valStr := part[:idx], part[idx+1:]
		l, err := parseLabel(reg, labelStr)
		if err != nil {
			return err
		}
		v, err := parseWeight(valStr)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrMalformedValue, part, err)
		}
		m.Merge(l, satint.Finite(v))
	}
	return nil
}

// fillUpperCase parses a semicolon-separated "C:label:value" list.
func fillUpperCase(reg *label.Registry, payload *tnet.LabeledPayload, s string) error {
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 3)
		if len(fields) != 3 || fields[0] == "" {
			return fmt.Errorf("%w: %q", ErrMalformedValue, part)
		}
		letter := []rune(fields[0])[0]
		l, err := parseLabel(reg, fields[1])
		if err != nil {
			return err
		}
		v, err := parseWeight(fields[2])
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrMalformedValue, part, err)
		}
		m, ok := payload.UpperCase[letter]
		if !ok {
			m = labelmap.New()
			payload.UpperCase[letter] = m
		}
		m.Merge(l, satint.Finite(v))
	}
	return nil
}

// fillLowerCase parses a semicolon-separated "c:label:value" list (one
// entry per distinct ALetter).
func fillLowerCase(reg *label.Registry, payload *tnet.LabeledPayload, s string) error {
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 3)
		if len(fields) != 3 || fields[0] == "" {
			return fmt.Errorf("%w: %q", ErrMalformedValue, part)
		}
		letter := []rune(fields[0])[0]
		l, err := parseLabel(reg, fields[1])
		if err != nil {
			return err
		}
		v, err := parseWeight(fields[2])
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrMalformedValue, part, err)
		}
		payload.LowerCase[letter] = tnet.LowerCaseLabeled{Alpha: l, Value: satint.Finite(v)}
	}
	return nil
}

func splitLetterValue(s string) (rune, int64, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedValue, s)
	}
	letterPart, valPart := s[:idx], s[idx+1:]
	if letterPart == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedValue, s)
	}
	n, err := parseWeight(valPart)
	if err != nil {
		return 0, 0, err
	}
	return []rune(letterPart)[0], n, nil
}

// parseWeight rejects the INF sentinel per spec §6.2: ordinary edges carry
// only finite signed base-10 integers.
func parseWeight(s string) (int64, error) {
	if s == "INF" || s == "-INF" || s == "+INF" {
		return 0, fmt.Errorf("graphml: INF sentinel is not a valid edge weight")
	}
	return strconv.ParseInt(s, 10, 64)
}
