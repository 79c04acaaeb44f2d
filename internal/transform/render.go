package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"

	"git.home.luguber.info/inful/graphql2js/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

type module struct {
	source     string
	sourceName string
	defs       *parsedDocument
	imports    []string
}

type locNode struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type documentNode struct {
	Kind        string  `json:"kind"`
	Definitions []any   `json:"definitions"`
	Loc         locNode `json:"loc"`
}

const uniqueHelper = `var names = {};
function unique(defs) {
  return defs.filter(function (def) {
    if (def.kind !== "FragmentDefinition") return true;
    var name = def.name.value;
    if (names[name]) return false;
    names[name] = true;
    return true;
  });
}
`

const pickHelper = `function pick(doc, operationName, fragmentNames) {
  var definitions = doc.definitions.filter(function (def) {
    if (def.kind === "OperationDefinition") return !!def.name && def.name.value === operationName;
    return def.kind === "FragmentDefinition" && fragmentNames.indexOf(def.name.value) !== -1;
  });
  return { kind: doc.kind, definitions: definitions, loc: doc.loc };
}
`

// render writes the CommonJS module. Output depends only on m.
func render(m module) (string, error) {
	definitions := m.defs.nodes
	if definitions == nil {
		definitions = []any{}
	}
	doc := documentNode{
		Kind:        "Document",
		Definitions: definitions,
		Loc:         locNode{Start: 0, End: len(utf16.Encode([]rune(m.source)))},
	}
	docJSON, err := marshal(doc)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTransform, "serialize document").Build()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "var doc = %s;\n", docJSON)
	fmt.Fprintf(&b, "doc.loc.source = {\"body\":%s,\"name\":%s,\"locationOffset\":{\"line\":1,\"column\":1}};\n",
		fingerprint.Quote(m.source), fingerprint.Quote(m.sourceName))

	if len(m.imports) > 0 {
		b.WriteString("\n")
		b.WriteString(uniqueHelper)
		for _, imp := range m.imports {
			fmt.Fprintf(&b, "doc.definitions = doc.definitions.concat(unique(require(%s).definitions));\n", fingerprint.Quote(imp))
		}
	}

	exports := namedOperations(m.defs)
	if len(m.defs.operations) > 1 && len(exports) > 0 {
		b.WriteString("\n")
		b.WriteString(pickHelper)
		b.WriteString("\nmodule.exports = doc;\n")
		for _, op := range exports {
			fragments, err := marshal(fragmentClosure(op.spreads, m.defs.fragments))
			if err != nil {
				return "", ferrors.WrapError(err, ferrors.CategoryTransform, "serialize fragment list").Build()
			}
			quoted := fingerprint.Quote(op.name)
			fmt.Fprintf(&b, "module.exports[%s] = pick(doc, %s, %s);\n", quoted, quoted, fragments)
		}
		return b.String(), nil
	}

	b.WriteString("\nmodule.exports = doc;\n")
	return b.String(), nil
}

func namedOperations(d *parsedDocument) []operationRef {
	var out []operationRef
	seen := make(map[string]bool)
	for _, op := range d.operations {
		if op.name == "" || seen[op.name] {
			continue
		}
		seen[op.name] = true
		out = append(out, op)
	}
	return out
}

// fragmentClosure returns every fragment reachable from spreads, in discovery order.
// Fragments defined elsewhere (imports) are included by name; their own spreads
// cannot be followed here.
func fragmentClosure(spreads []string, local map[string][]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	queue := append([]string(nil), spreads...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, local[next]...)
	}
	return out
}

func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
