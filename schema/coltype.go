package schema

import "strings"

// A ColType is the logical type of a column, abstracted away from any
// concrete SQL dialect or target language.
type ColType int

// Logical column types.
const (
	TypeInvalid ColType = iota
	TypeInt
	TypeBigInt
	TypeDecimal
	TypeFloat
	TypeBool
	TypeString
	TypeText
	TypeDate
	TypeTime
	TypeTimestamp
	TypeUUID
	TypeJSON
	TypeBytes
	TypeEnum
	TypeOther
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:   "invalid",
	TypeInt:       "int",
	TypeBigInt:    "bigint",
	TypeDecimal:   "decimal",
	TypeFloat:     "float",
	TypeBool:      "bool",
	TypeString:    "string",
	TypeText:      "text",
	TypeDate:      "date",
	TypeTime:      "time",
	TypeTimestamp: "timestamp",
	TypeUUID:      "uuid",
	TypeJSON:      "json",
	TypeBytes:     "bytes",
	TypeEnum:      "enum",
	TypeOther:     "other",
}

// String returns the logical type name.
func (t ColType) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known logical type.
func (t ColType) Valid() bool { return t > TypeInvalid && t < endTypes }

// Numeric reports if the given type is a numeric type.
func (t ColType) Numeric() bool {
	switch t {
	case TypeInt, TypeBigInt, TypeDecimal, TypeFloat:
		return true
	}
	return false
}

// Temporal reports if the given type is a date/time type.
func (t ColType) Temporal() bool {
	switch t {
	case TypeDate, TypeTime, TypeTimestamp:
		return true
	}
	return false
}

// Textual reports if the given type maps to a character type.
func (t ColType) Textual() bool { return t == TypeString || t == TypeText }

// aliases maps common SQL type spellings to logical types. Anything not
// listed here and not a canonical name resolves to TypeOther, and the raw
// spelling is carried on the column for permissive pass-through mapping.
var aliases = map[string]ColType{
	"integer":          TypeInt,
	"int4":             TypeInt,
	"smallint":         TypeInt,
	"serial":           TypeInt,
	"int8":             TypeBigInt,
	"bigserial":        TypeBigInt,
	"numeric":          TypeDecimal,
	"money":            TypeDecimal,
	"real":             TypeFloat,
	"double":           TypeFloat,
	"double precision": TypeFloat,
	"boolean":          TypeBool,
	"varchar":          TypeString,
	"char":             TypeString,
	"clob":             TypeText,
	"timestamptz":      TypeTimestamp,
	"datetime":         TypeTimestamp,
	"jsonb":            TypeJSON,
	"bytea":            TypeBytes,
	"blob":             TypeBytes,
}

// ParseColType resolves a type spelling to its logical type.
// Unknown spellings resolve to TypeOther, never fail.
func ParseColType(s string) ColType {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := TypeInvalid + 1; t < endTypes; t++ {
		if typeNames[t] == name {
			return t
		}
	}
	if t, ok := aliases[name]; ok {
		return t
	}
	return TypeOther
}
