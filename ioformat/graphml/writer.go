package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/labelmap"
	"github.com/jublebi/ostnu/tnet"
)

// Write serializes g to w in the GraphML dialect. Node and edge attribute
// order is canonical (alphabetical by key, entries within a labeled map
// in labelmap's Sorted order: by label size, then by value) so two calls
// over an unchanged graph
// byte-equal.
func Write(g *tnet.Graph, w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	doc := document{Graph: graph{}}
	for _, name := range g.Nodes() {
		n, err := g.NodeByName(name)
		if err != nil {
			return fmt.Errorf("graphml: Write: %w", err)
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, encodeNode(g, n))
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, encodeEdge(g.Propositions(), e))
	}

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("graphml: Write: %w", err)
	}
	return enc.Flush()
}

func encodeNode(g *tnet.Graph, n *tnet.Node) xmlNode {
	out := xmlNode{ID: n.Name}
	put := func(key, value string) {
		out.Data = append(out.Data, xmlData{Key: key, Value: value})
	}
	put("name", n.Name)
	put("x", strconv.FormatFloat(n.X, 'g', -1, 64))
	put("y", strconv.FormatFloat(n.Y, 'g', -1, 64))
	if !n.Label.IsEmpty() {
		put("label", formatLabel(g.Propositions(), n.Label))
	}
	if n.HasObserves {
		if r, ok := g.Propositions().Rune(n.Observes); ok {
			put("observes", string(r))
		}
	}
	if n.HasContingentALetter {
		put("contingent", "true")
		put("aLetter", string(n.ContingentALetter))
	}
	if n.LogNormal != nil {
		put("logNormal", fmt.Sprintf("%s,%s",
			strconv.FormatFloat(n.LogNormal.Mu, 'g', -1, 64),
			strconv.FormatFloat(n.LogNormal.Sigma, 'g', -1, 64)))
	}
	if n.HasOracleFor {
		put("oracleFor", string(n.OracleFor))
	}
	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Key < out.Data[j].Key })
	return out
}

func encodeEdge(reg *label.Registry, e *tnet.Edge) xmlEdge {
	out := xmlEdge{Source: e.From, Target: e.To}
	put := func(key, value string) {
		out.Data = append(out.Data, xmlData{Key: key, Value: value})
	}
	put("name", e.ID)
	put("type", typeAttr(e.Type))

	if e.Labeled != nil {
		if s := formatLabeledMap(reg, e.Labeled.Values); s != "" {
			put("labeledValues", s)
		}
		if s := formatUpperCase(reg, e.Labeled.UpperCase); s != "" {
			put("upperCaseValues", s)
		}
		if s := formatLowerCase(reg, e.Labeled.LowerCase); s != "" {
			put("lowerCaseValue", s)
		}
	} else {
		switch e.Kind {
		case tnet.KindOrdinary:
			if v, ok := e.Weight.Value(); ok {
				put("value", strconv.FormatInt(v, 10))
			}
		case tnet.KindUpperCase:
			if v, ok := e.Weight.Value(); ok {
				put("upperCaseValues", fmt.Sprintf("%c::%d", e.ALetter, v))
			}
		case tnet.KindLowerCase:
			if v, ok := e.Weight.Value(); ok {
				put("lowerCaseValue", fmt.Sprintf("%c::%d", e.ALetter, v))
			}
		case tnet.KindWait:
			if v, ok := e.Weight.Value(); ok {
				put("wait", fmt.Sprintf("%c:%d", e.ALetter, v))
			}
		}
	}

	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Key < out.Data[j].Key })
	return out
}

func typeAttr(t tnet.ConstraintType) string {
	switch t {
	case tnet.ContingentConstraint:
		return "contingent"
	case tnet.Internal:
		return "internal"
	case tnet.Requirement:
		return "requirement"
	default:
		return "normal"
	}
}

func formatLabel(reg *label.Registry, l label.Label) string {
	var parts []string
	for i := 0; i < label.MaxPropositions; i++ {
		p := label.Proposition(i)
		st := l.State(p)
		if st == label.Absent {
			continue
		}
		r, ok := reg.Rune(p)
		if !ok {
			continue
		}
		switch st {
		case label.Straight:
			parts = append(parts, string(r))
		case label.Negated:
			parts = append(parts, "-"+string(r))
		case label.Unknown:
			parts = append(parts, "~"+string(r))
		}
	}
	return strings.Join(parts, "")
}

func formatLabeledMap(reg *label.Registry, m *labelmap.Map) string {
	entries := m.Sorted()
	var parts []string
	for _, e := range entries {
		v, ok := e.Value.Value()
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", formatLabel(reg, e.Label), v))
	}
	return strings.Join(parts, ";")
}

func formatUpperCase(reg *label.Registry, m map[rune]*labelmap.Map) string {
	var letters []rune
	for r := range m {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	var parts []string
	for _, r := range letters {
		for _, e := range m[r].Sorted() {
			v, ok := e.Value.Value()
			if !ok {
				continue
			}
			parts = append(parts, fmt.Sprintf("%c:%s:%d", r, formatLabel(reg, e.Label), v))
		}
	}
	return strings.Join(parts, ";")
}

func formatLowerCase(reg *label.Registry, m map[rune]tnet.LowerCaseLabeled) string {
	var letters []rune
	for r := range m {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	var parts []string
	for _, r := range letters {
		lc := m[r]
		v, ok := lc.Value.Value()
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%c:%s:%d", r, formatLabel(reg, lc.Alpha), v))
	}
	return strings.Join(parts, ";")
}
