package sqltemplate

// DBType enumerates the database value kinds a ColumnMeta can carry.
// It mirrors the common scalar set used by host-language entity
// mappers rather than any single dialect's native type system.
type DBType int

const (
	DBTypeInt16 DBType = iota
	DBTypeInt32
	DBTypeInt64
	DBTypeString
	DBTypeBoolean
	DBTypeDateTime
	DBTypeDecimal
	DBTypeDouble
	DBTypeGuid
	DBTypeBinary
)

func (t DBType) String() string {
	switch t {
	case DBTypeInt16:
		return "Int16"
	case DBTypeInt32:
		return "Int32"
	case DBTypeInt64:
		return "Int64"
	case DBTypeString:
		return "String"
	case DBTypeBoolean:
		return "Boolean"
	case DBTypeDateTime:
		return "DateTime"
	case DBTypeDecimal:
		return "Decimal"
	case DBTypeDouble:
		return "Double"
	case DBTypeGuid:
		return "Guid"
	case DBTypeBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// ColumnMeta describes a single mapped column. Name is the emitted,
// already snake_cased SQL identifier; PropertyName is the host-side
// identifier used to match --exclude and --inline options. ColumnMeta
// values are structurally comparable and are shared by reference
// across a PlaceholderContext's lifetime; callers must not mutate a
// slice of ColumnMeta handed to NewPlaceholderContext.
type ColumnMeta struct {
	Name         string
	PropertyName string
	DBType       DBType
	IsNullable   bool
}

// NewColumnMeta builds a ColumnMeta, deriving Name from propertyName
// via ToSnakeCase when name is left blank.
func NewColumnMeta(propertyName string, dbType DBType, isNullable bool) ColumnMeta {
	return ColumnMeta{
		Name:         ToSnakeCase(propertyName),
		PropertyName: propertyName,
		DBType:       dbType,
		IsNullable:   isNullable,
	}
}

// excludeSet builds a lookup set of property names from a possibly
// repeated/comma-separated --exclude option, matching on PropertyName
// case-sensitively per the directive contract.
func excludeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// filterColumns returns the subset of columns whose PropertyName is
// not present in excluded, preserving the original order.
func filterColumns(columns []ColumnMeta, excluded map[string]struct{}) []ColumnMeta {
	if len(excluded) == 0 {
		return columns
	}
	out := make([]ColumnMeta, 0, len(columns))
	for _, c := range columns {
		if _, skip := excluded[c.PropertyName]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}
