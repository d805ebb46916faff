package graph

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func (ec *executionContext) introspectionDisabled(ctx context.Context, path ast.Path, field graphql.CollectedField) bool {
	if !ec.DisableIntrospection {
		return false
	}
	ec.addError(ctx, path, field, gqlerror.Errorf("introspection disabled"))
	return true
}

func (ec *executionContext) introspectSchema(ctx context.Context, path ast.Path, field graphql.CollectedField) graphql.Marshaler {
	if ec.introspectionDisabled(ctx, path, field) {
		return graphql.Null
	}
	return ec.___Schema(ctx, path, field.Selections, introspection.WrapSchema(ec.schema))
}

func (ec *executionContext) introspectType(ctx context.Context, path ast.Path, field graphql.CollectedField) graphql.Marshaler {
	if ec.introspectionDisabled(ctx, path, field) {
		return graphql.Null
	}

	name, err := graphql.UnmarshalString(field.ArgumentMap(ec.Variables)["name"])
	if err != nil {
		ec.addError(ctx, path, field, err)
		return graphql.Null
	}

	// для неизвестного имени WrapTypeFromDef вернет nil, а ответ будет null
	return ec.___Type(ctx, path, field.Selections, introspection.WrapTypeFromDef(ec.schema, ec.schema.Types[name]))
}

func (ec *executionContext) ___Schema(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.Schema) graphql.Marshaler {
	return ec.object(ctx, path, "__Schema", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "description":
			return optString(obj.Description())
		case "types":
			types := obj.Types()
			return ec.list(ctx, path, field, len(types), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___Type(ctx, path, field.Selections, &types[i])
			})
		case "queryType":
			return ec.___Type(ctx, path, field.Selections, obj.QueryType())
		case "mutationType":
			return ec.___Type(ctx, path, field.Selections, obj.MutationType())
		case "subscriptionType":
			return ec.___Type(ctx, path, field.Selections, obj.SubscriptionType())
		case "directives":
			directives := obj.Directives()
			return ec.list(ctx, path, field, len(directives), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___Directive(ctx, path, field.Selections, &directives[i])
			})
		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) ___Type(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.Type) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}

	return ec.object(ctx, path, "__Type", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		kind := obj.Kind()

		switch field.Name {
		case "kind":
			return graphql.MarshalString(kind)
		case "name":
			return optString(obj.Name())
		case "description":
			return optString(obj.Description())

		// списки, неприменимые к виду типа, по правилам интроспекции равны null
		case "fields":
			if kind != string(ast.Object) && kind != string(ast.Interface) {
				return graphql.Null
			}
			fields := obj.Fields(includeDeprecated(ec, field))
			return ec.list(ctx, path, field, len(fields), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___Field(ctx, path, field.Selections, &fields[i])
			})
		case "inputFields":
			if kind != string(ast.InputObject) {
				return graphql.Null
			}
			values := obj.InputFields()
			return ec.list(ctx, path, field, len(values), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___InputValue(ctx, path, field.Selections, &values[i])
			})
		case "interfaces":
			if kind != string(ast.Object) && kind != string(ast.Interface) {
				return graphql.Null
			}
			types := obj.Interfaces()
			return ec.list(ctx, path, field, len(types), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___Type(ctx, path, field.Selections, &types[i])
			})
		case "possibleTypes":
			if kind != string(ast.Interface) && kind != string(ast.Union) {
				return graphql.Null
			}
			types := obj.PossibleTypes()
			return ec.list(ctx, path, field, len(types), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___Type(ctx, path, field.Selections, &types[i])
			})
		case "enumValues":
			if kind != string(ast.Enum) {
				return graphql.Null
			}
			values := obj.EnumValues(includeDeprecated(ec, field))
			return ec.list(ctx, path, field, len(values), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return ec.___EnumValue(ctx, path, field.Selections, &values[i])
			})

		case "ofType":
			return ec.___Type(ctx, path, field.Selections, obj.OfType())
		case "specifiedByURL":
			// у оберток NON_NULL и LIST нет определения
			if kind != string(ast.Scalar) {
				return graphql.Null
			}
			return optString(obj.SpecifiedByURL())

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) ___Field(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.Field) graphql.Marshaler {
	return ec.object(ctx, path, "__Field", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return optString(obj.Description())
		case "args":
			return ec.inputValues(ctx, path, field, obj.Args)
		case "type":
			return ec.___Type(ctx, path, field.Selections, obj.Type)
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return optString(obj.DeprecationReason())
		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) ___InputValue(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.InputValue) graphql.Marshaler {
	return ec.object(ctx, path, "__InputValue", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return optString(obj.Description())
		case "type":
			return ec.___Type(ctx, path, field.Selections, obj.Type)
		case "defaultValue":
			return optString(obj.DefaultValue)
		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) ___EnumValue(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.EnumValue) graphql.Marshaler {
	return ec.object(ctx, path, "__EnumValue", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return optString(obj.Description())
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return optString(obj.DeprecationReason())
		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) ___Directive(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *introspection.Directive) graphql.Marshaler {
	return ec.object(ctx, path, "__Directive", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return optString(obj.Description())
		case "locations":
			return ec.list(ctx, path, field, len(obj.Locations), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
				return graphql.MarshalString(obj.Locations[i])
			})
		case "args":
			return ec.inputValues(ctx, path, field, obj.Args)
		case "isRepeatable":
			return graphql.MarshalBoolean(obj.IsRepeatable)
		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

// inputValues отдает аргументы поля или директивы; у поля без аргументов это пустой список, а не null
func (ec *executionContext) inputValues(ctx context.Context, path ast.Path, field graphql.CollectedField, args []introspection.InputValue) graphql.Marshaler {
	return ec.list(ctx, path, field, len(args), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
		return ec.___InputValue(ctx, path, field.Selections, &args[i])
	})
}

func includeDeprecated(ec *executionContext, field graphql.CollectedField) bool {
	include, _ := field.ArgumentMap(ec.Variables)["includeDeprecated"].(bool)
	return include
}

func optString(s *string) graphql.Marshaler {
	if s == nil || *s == "" {
		return graphql.Null
	}
	return graphql.MarshalString(*s)
}
