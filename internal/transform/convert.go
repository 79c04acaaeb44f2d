package transform

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// Nodes follow the graphql-js AST shape without per-node locations, matching what
// graphql-tag strips before serializing.

type nameNode struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func name(v string) nameNode { return nameNode{Kind: "Name", Value: v} }

func optionalName(v string) *nameNode {
	if v == "" {
		return nil
	}
	n := name(v)
	return &n
}

type namedType struct {
	Kind string   `json:"kind"`
	Name nameNode `json:"name"`
}

func named(v string) namedType { return namedType{Kind: "NamedType", Name: name(v)} }

type wrappedType struct {
	Kind string `json:"kind"`
	Type any    `json:"type"`
}

type selectionSetNode struct {
	Kind       string `json:"kind"`
	Selections []any  `json:"selections"`
}

type argumentNode struct {
	Kind  string   `json:"kind"`
	Name  nameNode `json:"name"`
	Value any      `json:"value"`
}

type directiveNode struct {
	Kind      string         `json:"kind"`
	Name      nameNode       `json:"name"`
	Arguments []argumentNode `json:"arguments"`
}

type variableNode struct {
	Kind string   `json:"kind"`
	Name nameNode `json:"name"`
}

type variableDefinitionNode struct {
	Kind         string          `json:"kind"`
	Variable     variableNode    `json:"variable"`
	Type         any             `json:"type"`
	DefaultValue any             `json:"defaultValue,omitempty"`
	Directives   []directiveNode `json:"directives"`
}

type operationNode struct {
	Kind                string                   `json:"kind"`
	Operation           string                   `json:"operation"`
	Name                *nameNode                `json:"name,omitempty"`
	VariableDefinitions []variableDefinitionNode `json:"variableDefinitions"`
	Directives          []directiveNode          `json:"directives"`
	SelectionSet        selectionSetNode         `json:"selectionSet"`
}

type fragmentDefinitionNode struct {
	Kind          string           `json:"kind"`
	Name          nameNode         `json:"name"`
	TypeCondition namedType        `json:"typeCondition"`
	Directives    []directiveNode  `json:"directives"`
	SelectionSet  selectionSetNode `json:"selectionSet"`
}

type fieldNode struct {
	Kind         string            `json:"kind"`
	Alias        *nameNode         `json:"alias,omitempty"`
	Name         nameNode          `json:"name"`
	Arguments    []argumentNode    `json:"arguments"`
	Directives   []directiveNode   `json:"directives"`
	SelectionSet *selectionSetNode `json:"selectionSet,omitempty"`
}

type fragmentSpreadNode struct {
	Kind       string          `json:"kind"`
	Name       nameNode        `json:"name"`
	Directives []directiveNode `json:"directives"`
}

type inlineFragmentNode struct {
	Kind          string           `json:"kind"`
	TypeCondition *namedType       `json:"typeCondition,omitempty"`
	Directives    []directiveNode  `json:"directives"`
	SelectionSet  selectionSetNode `json:"selectionSet"`
}

type scalarValueNode struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type stringValueNode struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Block bool   `json:"block"`
}

type booleanValueNode struct {
	Kind  string `json:"kind"`
	Value bool   `json:"value"`
}

type listValueNode struct {
	Kind   string `json:"kind"`
	Values []any  `json:"values"`
}

type objectFieldNode struct {
	Kind  string   `json:"kind"`
	Name  nameNode `json:"name"`
	Value any      `json:"value"`
}

type objectValueNode struct {
	Kind   string            `json:"kind"`
	Fields []objectFieldNode `json:"fields"`
}

type kindOnly struct {
	Kind string `json:"kind"`
}

// convertQuery converts an executable document and records which fragments every
// operation and fragment spreads.
func convertQuery(doc *ast.QueryDocument) *parsedDocument {
	out := &parsedDocument{fragments: make(map[string][]string)}

	// graphql-js keeps source order; gqlparser splits operations from fragments.
	type positioned struct {
		offset int
		node   any
	}
	var defs []positioned

	for _, op := range doc.Operations {
		spreads := newSpreadSet()
		node := operationNode{
			Kind:                "OperationDefinition",
			Operation:           string(op.Operation),
			Name:                optionalName(op.Name),
			VariableDefinitions: convertVariableDefinitions(op.VariableDefinitions),
			Directives:          convertDirectives(op.Directives),
			SelectionSet:        convertSelectionSet(op.SelectionSet, spreads),
		}
		defs = append(defs, positioned{offset: offset(op.Position), node: node})
		out.operations = append(out.operations, operationRef{name: op.Name, spreads: spreads.list()})
	}
	for _, frag := range doc.Fragments {
		spreads := newSpreadSet()
		node := fragmentDefinitionNode{
			Kind:          "FragmentDefinition",
			Name:          name(frag.Name),
			TypeCondition: named(frag.TypeCondition),
			Directives:    convertDirectives(frag.Directives),
			SelectionSet:  convertSelectionSet(frag.SelectionSet, spreads),
		}
		defs = append(defs, positioned{offset: offset(frag.Position), node: node})
		out.fragments[frag.Name] = spreads.list()
	}

	sort.SliceStable(defs, func(i, j int) bool { return defs[i].offset < defs[j].offset })
	for _, d := range defs {
		out.nodes = append(out.nodes, d.node)
	}
	return out
}

func offset(pos *ast.Position) int {
	if pos == nil {
		return 0
	}
	return pos.Start
}

// spreadSet collects fragment names in first-seen order.
type spreadSet struct {
	seen  map[string]bool
	order []string
}

func newSpreadSet() *spreadSet { return &spreadSet{seen: make(map[string]bool)} }

func (s *spreadSet) add(n string) {
	if !s.seen[n] {
		s.seen[n] = true
		s.order = append(s.order, n)
	}
}

func (s *spreadSet) list() []string { return s.order }

func convertSelectionSet(set ast.SelectionSet, spreads *spreadSet) selectionSetNode {
	node := selectionSetNode{Kind: "SelectionSet", Selections: make([]any, 0, len(set))}
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			f := fieldNode{
				Kind:       "Field",
				Name:       name(s.Name),
				Arguments:  convertArguments(s.Arguments),
				Directives: convertDirectives(s.Directives),
			}
			if s.Alias != "" && s.Alias != s.Name {
				f.Alias = optionalName(s.Alias)
			}
			if len(s.SelectionSet) > 0 {
				child := convertSelectionSet(s.SelectionSet, spreads)
				f.SelectionSet = &child
			}
			node.Selections = append(node.Selections, f)
		case *ast.FragmentSpread:
			spreads.add(s.Name)
			node.Selections = append(node.Selections, fragmentSpreadNode{
				Kind:       "FragmentSpread",
				Name:       name(s.Name),
				Directives: convertDirectives(s.Directives),
			})
		case *ast.InlineFragment:
			inline := inlineFragmentNode{
				Kind:         "InlineFragment",
				Directives:   convertDirectives(s.Directives),
				SelectionSet: convertSelectionSet(s.SelectionSet, spreads),
			}
			if s.TypeCondition != "" {
				tc := named(s.TypeCondition)
				inline.TypeCondition = &tc
			}
			node.Selections = append(node.Selections, inline)
		}
	}
	return node
}

func convertVariableDefinitions(list ast.VariableDefinitionList) []variableDefinitionNode {
	out := make([]variableDefinitionNode, 0, len(list))
	for _, v := range list {
		def := variableDefinitionNode{
			Kind:       "VariableDefinition",
			Variable:   variableNode{Kind: "Variable", Name: name(v.Variable)},
			Type:       convertType(v.Type),
			Directives: convertDirectives(v.Directives),
		}
		if v.DefaultValue != nil {
			def.DefaultValue = convertValue(v.DefaultValue)
		}
		out = append(out, def)
	}
	return out
}

func convertType(t *ast.Type) any {
	if t == nil {
		return nil
	}
	var inner any
	if t.Elem != nil {
		inner = wrappedType{Kind: "ListType", Type: convertType(t.Elem)}
	} else {
		inner = named(t.NamedType)
	}
	if t.NonNull {
		return wrappedType{Kind: "NonNullType", Type: inner}
	}
	return inner
}

func convertDirectives(list ast.DirectiveList) []directiveNode {
	out := make([]directiveNode, 0, len(list))
	for _, d := range list {
		out = append(out, directiveNode{
			Kind:      "Directive",
			Name:      name(d.Name),
			Arguments: convertArguments(d.Arguments),
		})
	}
	return out
}

func convertArguments(list ast.ArgumentList) []argumentNode {
	out := make([]argumentNode, 0, len(list))
	for _, a := range list {
		out = append(out, argumentNode{Kind: "Argument", Name: name(a.Name), Value: convertValue(a.Value)})
	}
	return out
}

func convertValue(v *ast.Value) any {
	if v == nil {
		return kindOnly{Kind: "NullValue"}
	}
	switch v.Kind {
	case ast.Variable:
		return variableNode{Kind: "Variable", Name: name(v.Raw)}
	case ast.IntValue:
		return scalarValueNode{Kind: "IntValue", Value: v.Raw}
	case ast.FloatValue:
		return scalarValueNode{Kind: "FloatValue", Value: v.Raw}
	case ast.StringValue:
		return stringValueNode{Kind: "StringValue", Value: v.Raw}
	case ast.BlockValue:
		return stringValueNode{Kind: "StringValue", Value: v.Raw, Block: true}
	case ast.BooleanValue:
		return booleanValueNode{Kind: "BooleanValue", Value: v.Raw == "true"}
	case ast.EnumValue:
		return scalarValueNode{Kind: "EnumValue", Value: v.Raw}
	case ast.ListValue:
		values := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			values = append(values, convertValue(c.Value))
		}
		return listValueNode{Kind: "ListValue", Values: values}
	case ast.ObjectValue:
		fields := make([]objectFieldNode, 0, len(v.Children))
		for _, c := range v.Children {
			fields = append(fields, objectFieldNode{Kind: "ObjectField", Name: name(c.Name), Value: convertValue(c.Value)})
		}
		return objectValueNode{Kind: "ObjectValue", Fields: fields}
	default:
		return kindOnly{Kind: "NullValue"}
	}
}
