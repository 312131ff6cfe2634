package luke

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jublebi/ostnu/tnet"
)

// Write serializes doc to w in the Luke plain-text format. Names are
// quoted only when they contain whitespace; node order and edge order
// follow tnet.Graph's own deterministic iteration (sorted by name/ID).
func Write(doc *Document, w io.Writer) error {
	g := doc.Graph
	names := g.Nodes()

	var sb strings.Builder
	sb.WriteString(sectionKind + "\n")
	sb.WriteString(doc.Kind + "\n")
	sb.WriteString(sectionCount + "\n")
	sb.WriteString(strconv.Itoa(len(names)) + "\n")
	sb.WriteString(sectionNames + "\n")
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quoteIfNeeded(name))
	}
	sb.WriteByte('\n')

	sb.WriteString(sectionOrdinary + "\n")
	for _, e := range g.Edges() {
		if e.Type == tnet.ContingentConstraint || e.Kind != tnet.KindOrdinary {
			continue
		}
		v, ok := e.Weight.Value()
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s %d %s\n", quoteIfNeeded(e.From), v, quoteIfNeeded(e.To))
	}

	pairs := g.ContingentPairs()
	if len(pairs) > 0 {
		sb.WriteString(sectionContingent + "\n")
		for _, pair := range pairs {
			activation, contingent := pair[0], pair[1]
			x, y, ok := contingentBounds(g, activation, contingent)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "%s %d %d %s\n", quoteIfNeeded(activation), x, y, quoteIfNeeded(contingent))
		}
	}

	var oracleLines []string
	for _, name := range names {
		n, err := g.NodeByName(name)
		if err != nil || !n.HasOracleFor {
			continue
		}
		r := n.OracleFor
		oracleLines = append(oracleLines, fmt.Sprintf("%s --> %c", quoteIfNeeded(name), r))
	}
	if len(oracleLines) > 0 {
		sb.WriteString(sectionOracles + "\n")
		for _, line := range oracleLines {
			sb.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// contingentBounds reads back the (x,y) pair validateContingentLinks
// assembled for (activation,contingent): y off the ordinary edge's
// weight, x off the lower-case edge's.
func contingentBounds(g *tnet.Graph, activation, contingent string) (x, y int64, ok bool) {
	for _, e := range g.OutEdges(activation) {
		if e.To == contingent && e.Kind == tnet.KindOrdinary {
			if v, vok := e.Weight.Value(); vok {
				y = v
				ok = true
			}
		}
	}
	for _, e := range g.OutEdges(contingent) {
		if e.To == activation && e.Kind == tnet.KindLowerCase {
			if v, vok := e.Weight.Value(); vok {
				x = v
			}
		}
	}
	return x, y, ok
}

func quoteIfNeeded(name string) string {
	if strings.ContainsAny(name, " \t") {
		return `"` + name + `"`
	}
	return name
}
