package luke

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

const (
	sectionKind         = "# KIND OF NETWORK"
	sectionCount        = "# Num Time-Points"
	sectionNames        = "# Time-Point Names"
	sectionOrdinary     = "# Ordinary Edges"
	sectionContingent   = "# Contingent Links"
	sectionOracles      = "# Oracles"
)

// Read parses a Luke-format document from r.
func Read(r io.Reader) (*Document, error) {
	lines, err := readNonBlankLines(r)
	if err != nil {
		return nil, fmt.Errorf("luke: Read: %w", err)
	}

	idx := 0
	next := func() (string, bool) {
		if idx >= len(lines) {
			return "", false
		}
		line := lines[idx]
		idx++
		return line, true
	}
	peek := func() (string, bool) {
		if idx >= len(lines) {
			return "", false
		}
		return lines[idx], true
	}

	header, ok := next()
	if !ok || !strings.HasPrefix(header, sectionKind) {
		return nil, fmt.Errorf("luke: Read: %w: %q", ErrMissingSection, sectionKind)
	}
	kind, ok := next()
	if !ok {
		return nil, fmt.Errorf("luke: Read: %w: expected network kind after %q", ErrMissingSection, sectionKind)
	}

	header, ok = next()
	if !ok || !strings.HasPrefix(header, sectionCount) {
		return nil, fmt.Errorf("luke: Read: %w: %q", ErrMissingSection, sectionCount)
	}
	countLine, ok := next()
	if !ok {
		return nil, fmt.Errorf("luke: Read: %w: expected a count after %q", ErrMissingSection, sectionCount)
	}
	n, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return nil, fmt.Errorf("luke: Read: time-point count: %w", err)
	}

	header, ok = next()
	if !ok || !strings.HasPrefix(header, sectionNames) {
		return nil, fmt.Errorf("luke: Read: %w: %q", ErrMissingSection, sectionNames)
	}
	namesLine, ok := next()
	if !ok {
		return nil, fmt.Errorf("luke: Read: %w: expected names after %q", ErrMissingSection, sectionNames)
	}
	names := splitFields(namesLine)
	if len(names) != n {
		return nil, fmt.Errorf("luke: Read: %w: declared %d, got %d", ErrBadTimePointCnt, n, len(names))
	}

	g := tnet.NewGraph()
	for _, name := range names {
		if g.HasNode(name) {
			continue
		}
		if err := g.AddNode(&tnet.Node{Name: name}); err != nil {
			return nil, fmt.Errorf("luke: Read: %w", err)
		}
	}

	header, ok = next()
	if !ok || !strings.HasPrefix(header, sectionOrdinary) {
		return nil, fmt.Errorf("luke: Read: %w: %q", ErrMissingSection, sectionOrdinary)
	}
	for {
		line, ok := peek()
		if !ok || isSectionHeader(line) {
			break
		}
		idx++
		fields := splitFields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("luke: Read: %w: %q", ErrBadOrdinaryEdge, line)
		}
		source, target := fields[0], fields[2]
		weight, err := parseOrdinaryWeight(fields[1])
		if err != nil {
			return nil, fmt.Errorf("luke: Read: %w: %q: %w", ErrBadOrdinaryEdge, line, err)
		}
		if _, err := g.AddEdge(&tnet.Edge{From: source, To: target, Kind: tnet.KindOrdinary, Weight: weight}); err != nil {
			return nil, fmt.Errorf("luke: Read: %w", err)
		}
	}

	var aLetterSeq int
	if line, ok := peek(); ok && strings.HasPrefix(line, sectionContingent) {
		idx++
		for {
			line, ok := peek()
			if !ok || isSectionHeader(line) {
				break
			}
			idx++
			fields := splitFields(line)
			if len(fields) != 4 {
				return nil, fmt.Errorf("luke: Read: %w: %q", ErrBadContingent, line)
			}
			activation, contingent := fields[0], fields[3]
			x, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("luke: Read: %w: %q: %w", ErrBadContingent, line, err)
			}
			y, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("luke: Read: %w: %q: %w", ErrBadContingent, line, err)
			}
			aLetter := nextALetter(&aLetterSeq)
			if _, err := g.AddEdge(&tnet.Edge{
				From: activation, To: contingent, Type: tnet.ContingentConstraint,
				Kind: tnet.KindOrdinary, Weight: satint.Finite(y),
			}); err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
			if _, err := g.AddEdge(&tnet.Edge{
				From: contingent, To: activation, Type: tnet.ContingentConstraint,
				Kind: tnet.KindLowerCase, ALetter: aLetter, Weight: satint.Finite(x),
			}); err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
			// The section already names both halves explicitly, so the
			// link is registered here rather than left for
			// InitAndCheck's inference pass to rebuild.
			cNode, err := g.NodeByName(contingent)
			if err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
			cNode.HasContingentALetter = true
			cNode.ContingentALetter = aLetter
			if err := g.RegisterContingentPair(activation, contingent); err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
		}
	}

	if line, ok := peek(); ok && strings.HasPrefix(line, sectionOracles) {
		idx++
		for {
			line, ok := peek()
			if !ok || isSectionHeader(line) {
				break
			}
			idx++
			fields := splitFields(line)
			if len(fields) != 3 || fields[1] != "-->" {
				return nil, fmt.Errorf("luke: Read: %w: %q", ErrBadOracle, line)
			}
			oracle, propStr := fields[0], fields[2]
			node, err := g.NodeByName(oracle)
			if err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
			r := []rune(propStr)[0]
			if _, err := g.Propositions().Intern(r); err != nil {
				return nil, fmt.Errorf("luke: Read: %w", err)
			}
			node.HasOracleFor = true
			node.OracleFor = r
		}
	}

	return &Document{Kind: kind, Graph: g}, nil
}

// nextALetter allocates the next ALetter for a contingent link read off a
// Luke file, which carries no ALetter of its own: 'A', 'B', ... 'Z', then
// 'a', 'b', ... — ample for any network this format is used for.
func nextALetter(seq *int) rune {
	letters := []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	r := letters[*seq%len(letters)]
	*seq++
	return r
}

func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "#")
}

func parseOrdinaryWeight(s string) (satint.SatInt, error) {
	if s == "INF" || s == "-INF" || s == "+INF" {
		return satint.Null, ErrINFNotAllowed
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return satint.Null, err
	}
	return satint.Finite(v), nil
}

// splitFields tokenizes a line on whitespace, treating a double-quoted
// span as a single field and stripping the quotes.
func splitFields(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func readNonBlankLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
