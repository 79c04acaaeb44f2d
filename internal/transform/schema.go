package transform

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

type fieldDefinitionNode struct {
	Kind       string                 `json:"kind"`
	Name       nameNode               `json:"name"`
	Arguments  []inputValueDefinition `json:"arguments"`
	Type       any                    `json:"type"`
	Directives []directiveNode        `json:"directives"`
}

type inputValueDefinition struct {
	Kind         string          `json:"kind"`
	Name         nameNode        `json:"name"`
	Type         any             `json:"type"`
	DefaultValue any             `json:"defaultValue,omitempty"`
	Directives   []directiveNode `json:"directives"`
}

type enumValueDefinitionNode struct {
	Kind       string          `json:"kind"`
	Name       nameNode        `json:"name"`
	Directives []directiveNode `json:"directives"`
}

type typeDefinitionNode struct {
	Kind        string                    `json:"kind"`
	Description *stringValueNode          `json:"description,omitempty"`
	Name        nameNode                  `json:"name"`
	Interfaces  []namedType               `json:"interfaces,omitempty"`
	Directives  []directiveNode           `json:"directives"`
	Fields      []any                     `json:"fields,omitempty"`
	Types       []namedType               `json:"types,omitempty"`
	Values      []enumValueDefinitionNode `json:"values,omitempty"`
}

type operationTypeDefinitionNode struct {
	Kind      string    `json:"kind"`
	Operation string    `json:"operation"`
	Type      namedType `json:"type"`
}

type schemaDefinitionNode struct {
	Kind           string                        `json:"kind"`
	Directives     []directiveNode               `json:"directives"`
	OperationTypes []operationTypeDefinitionNode `json:"operationTypes"`
}

type directiveDefinitionNode struct {
	Kind       string                 `json:"kind"`
	Name       nameNode               `json:"name"`
	Arguments  []inputValueDefinition `json:"arguments"`
	Repeatable bool                   `json:"repeatable"`
	Locations  []nameNode             `json:"locations"`
}

var definitionKinds = map[ast.DefinitionKind]string{
	ast.Scalar:      "ScalarType",
	ast.Object:      "ObjectType",
	ast.Interface:   "InterfaceType",
	ast.Union:       "UnionType",
	ast.Enum:        "EnumType",
	ast.InputObject: "InputObjectType",
}

// convertSchema converts an SDL document. SDL documents carry no operations, so
// only the full document is exported.
func convertSchema(doc *ast.SchemaDocument) *parsedDocument {
	type positioned struct {
		offset int
		node   any
	}
	var defs []positioned

	for _, s := range doc.Schema {
		defs = append(defs, positioned{offset(s.Position), convertSchemaDefinition("SchemaDefinition", s)})
	}
	for _, s := range doc.SchemaExtension {
		defs = append(defs, positioned{offset(s.Position), convertSchemaDefinition("SchemaExtension", s)})
	}
	for _, d := range doc.Directives {
		locations := make([]nameNode, 0, len(d.Locations))
		for _, l := range d.Locations {
			locations = append(locations, name(string(l)))
		}
		defs = append(defs, positioned{offset(d.Position), directiveDefinitionNode{
			Kind:       "DirectiveDefinition",
			Name:       name(d.Name),
			Arguments:  convertArgumentDefinitions(d.Arguments),
			Repeatable: d.IsRepeatable,
			Locations:  locations,
		}})
	}
	for _, d := range doc.Definitions {
		defs = append(defs, positioned{offset(d.Position), convertTypeDefinition(d, "Definition")})
	}
	for _, d := range doc.Extensions {
		defs = append(defs, positioned{offset(d.Position), convertTypeDefinition(d, "Extension")})
	}

	sort.SliceStable(defs, func(i, j int) bool { return defs[i].offset < defs[j].offset })
	out := &parsedDocument{fragments: map[string][]string{}}
	for _, d := range defs {
		out.nodes = append(out.nodes, d.node)
	}
	return out
}

func convertSchemaDefinition(kind string, s *ast.SchemaDefinition) schemaDefinitionNode {
	ops := make([]operationTypeDefinitionNode, 0, len(s.OperationTypes))
	for _, o := range s.OperationTypes {
		ops = append(ops, operationTypeDefinitionNode{
			Kind:      "OperationTypeDefinition",
			Operation: string(o.Operation),
			Type:      named(o.Type),
		})
	}
	return schemaDefinitionNode{Kind: kind, Directives: convertDirectives(s.Directives), OperationTypes: ops}
}

func convertTypeDefinition(d *ast.Definition, suffix string) typeDefinitionNode {
	node := typeDefinitionNode{
		Kind:       definitionKinds[d.Kind] + suffix,
		Name:       name(d.Name),
		Directives: convertDirectives(d.Directives),
	}
	if d.Description != "" && suffix == "Definition" {
		node.Description = &stringValueNode{Kind: "StringValue", Value: d.Description}
	}
	for _, i := range d.Interfaces {
		node.Interfaces = append(node.Interfaces, named(i))
	}
	for _, t := range d.Types {
		node.Types = append(node.Types, named(t))
	}
	for _, v := range d.EnumValues {
		node.Values = append(node.Values, enumValueDefinitionNode{
			Kind:       "EnumValueDefinition",
			Name:       name(v.Name),
			Directives: convertDirectives(v.Directives),
		})
	}
	for _, f := range d.Fields {
		if d.Kind == ast.InputObject {
			node.Fields = append(node.Fields, inputValueDefinition{
				Kind:         "InputValueDefinition",
				Name:         name(f.Name),
				Type:         convertType(f.Type),
				DefaultValue: defaultValue(f.DefaultValue),
				Directives:   convertDirectives(f.Directives),
			})
			continue
		}
		node.Fields = append(node.Fields, fieldDefinitionNode{
			Kind:       "FieldDefinition",
			Name:       name(f.Name),
			Arguments:  convertArgumentDefinitions(f.Arguments),
			Type:       convertType(f.Type),
			Directives: convertDirectives(f.Directives),
		})
	}
	return node
}

func convertArgumentDefinitions(list ast.ArgumentDefinitionList) []inputValueDefinition {
	out := make([]inputValueDefinition, 0, len(list))
	for _, a := range list {
		out = append(out, inputValueDefinition{
			Kind:         "InputValueDefinition",
			Name:         name(a.Name),
			Type:         convertType(a.Type),
			DefaultValue: defaultValue(a.DefaultValue),
			Directives:   convertDirectives(a.Directives),
		})
	}
	return out
}

func defaultValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	return convertValue(v)
}
