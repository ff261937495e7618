package jtree

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/gopherjt/subset"
)

// A Resolver gives the variable called name.
type Resolver interface {
	Lookup(name string) (subset.Variable, bool)
}

const (
	nodesKeyword = "nodes:"
	edgesKeyword = "edges:"
)

// Parse reads a tree description from r. Variable names are resolved with names.
// The whole description is checked before the tree is built: syntax errors are *FormatError,
// unknown names and invalid node indices are *RangeError.
// Blank lines and lines starting with '#' are ignored.
func Parse(r io.Reader, names Resolver, opts Options) (*Tree, error) {
	sc := bufio.NewScanner(r)
	var (
		nodes   []subset.Subset
		edges   [][2]int
		section string
		lineNb  int
	)
	linked := make(map[[2]int]bool)
	for sc.Scan() {
		lineNb++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case line == nodesKeyword && section == "":
			section = nodesKeyword
		case line == edgesKeyword && section == nodesKeyword:
			section = edgesKeyword
		case line == nodesKeyword || line == edgesKeyword:
			return nil, &FormatError{Line: lineNb, Msg: fmt.Sprintf("unexpected %q", line)}
		case section == nodesKeyword:
			s, err := parseNode(strings.Fields(line), names, lineNb)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, s)
		case section == edgesKeyword:
			e, err := parseEdge(strings.Fields(line), len(nodes), lineNb)
			if err != nil {
				return nil, err
			}
			key := e
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if linked[key] {
				return nil, &RangeError{Line: lineNb, Msg: fmt.Sprintf("nodes %d and %d are already linked", e[0], e[1])}
			}
			linked[key] = true
			edges = append(edges, e)
		default:
			return nil, &FormatError{Line: lineNb, Msg: fmt.Sprintf("expected %q, got %q", nodesKeyword, line)}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read tree: %w", err)
	}
	if section != edgesKeyword {
		return nil, &FormatError{Line: lineNb, Msg: fmt.Sprintf("missing %q section", edgesKeyword)}
	}
	t := New(opts)
	for _, s := range nodes {
		if _, err := t.AddNode(s); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if _, err := t.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseNode(fields []string, names Resolver, lineNb int) (subset.Subset, error) {
	vars := make([]subset.Variable, len(fields))
	for i, name := range fields {
		v, ok := names.Lookup(name)
		if !ok {
			return nil, &RangeError{Line: lineNb, Msg: fmt.Sprintf("unknown variable %q", name)}
		}
		vars[i] = v
	}
	s, err := subset.New(vars...)
	if err != nil {
		return nil, &FormatError{Line: lineNb, Msg: err.Error()}
	}
	return s, nil
}

func parseEdge(fields []string, nbNodes, lineNb int) ([2]int, error) {
	var e [2]int
	if len(fields) != 2 {
		return e, &FormatError{Line: lineNb, Msg: fmt.Sprintf("expected 2 node indices, got %d fields", len(fields))}
	}
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return e, &FormatError{Line: lineNb, Msg: fmt.Sprintf("invalid node index %q", field)}
		}
		if n < 0 || n >= nbNodes {
			return e, &RangeError{Line: lineNb, Msg: fmt.Sprintf("no node %d", n)}
		}
		e[i] = n
	}
	if e[0] == e[1] {
		return e, &RangeError{Line: lineNb, Msg: fmt.Sprintf("self-loop on node %d", e[0])}
	}
	return e, nil
}

// Write writes a description of t to w, naming variables with namer.
// The output can be read back with Parse.
func Write(w io.Writer, t *Tree, namer subset.Namer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, nodesKeyword)
	for _, nd := range t.nodes {
		names := make([]string, len(nd.vars))
		for i, v := range nd.vars {
			names[i] = namer.NameOf(v)
		}
		fmt.Fprintln(bw, strings.Join(names, " "))
	}
	fmt.Fprintln(bw, edgesKeyword)
	for _, e := range t.edges {
		fmt.Fprintf(bw, "%d %d\n", e.a, e.b)
	}
	return bw.Flush()
}
