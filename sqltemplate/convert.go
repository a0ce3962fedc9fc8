package sqltemplate

import (
	"fmt"
	"strconv"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/godror/godror"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CoerceForDriver converts a Go-side value bound to a ColumnMeta into
// the shape its target driver expects at the boundary where a bound
// parameter would be handed to database/sql — without ever opening a
// connection or calling the driver itself. It exists because the same
// logical Guid/Decimal/DateTime value is spelled differently by each
// driver's native Valuer, and a template engine that claims dialect
// awareness has to know that even though it never executes the query
// it renders.
func CoerceForDriver(d Dialect, col ColumnMeta, value any) (any, error) {
	if value == nil {
		if !col.IsNullable {
			return nil, newConversionError(value, col.DBType.String(), "column is not nullable")
		}
		return nil, nil
	}
	switch col.DBType {
	case DBTypeGuid:
		return coerceGuid(d, value)
	case DBTypeDecimal:
		return coerceDecimal(d, value)
	case DBTypeDateTime:
		return coerceDateTime(d, value)
	case DBTypeBinary:
		return coerceBinary(value)
	default:
		return coerceArray(d, col, value)
	}
}

// coerceGuid normalizes a uuid.UUID, a RFC-4122 string, or a 16-byte
// slice into the representation the target dialect's driver expects.
// SQL Server's go-mssqldb encodes its UniqueIdentifier with the first
// three fields byte-swapped relative to RFC 4122 (a legacy COM GUID
// layout); every other dialect here either takes the canonical string
// form or the straight 16-byte RFC 4122 layout.
func coerceGuid(d Dialect, value any) (any, error) {
	id, err := asUUID(value)
	if err != nil {
		return nil, err
	}
	switch d.Name() {
	case DialectSQLServer:
		var msID mssql.UniqueIdentifier
		copy(msID[:], id[:])
		return msID, nil
	default:
		return id.String(), nil
	}
}

func asUUID(value any) (uuid.UUID, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.UUID{}, newConversionError(value, "Guid", err.Error())
		}
		return id, nil
	case []byte:
		if len(v) != 16 {
			return uuid.UUID{}, newConversionError(value, "Guid", "byte slice must be 16 bytes")
		}
		var id uuid.UUID
		copy(id[:], v)
		return id, nil
	default:
		return uuid.UUID{}, newConversionError(value, "Guid", "unsupported source type")
	}
}

// coerceDecimal normalizes a numeric or string value into the string
// representation Oracle's godror.Number and DB2 CLI bindings expect,
// since both engines round-trip arbitrary-precision decimals as text
// rather than float64 to avoid binary floating-point drift.
func coerceDecimal(d Dialect, value any) (any, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		s = strconv.FormatInt(v, 10)
	case fmt.Stringer:
		s = v.String()
	default:
		return nil, newConversionError(value, "Decimal", "unsupported source type")
	}
	switch d.Name() {
	case DialectOracle:
		return godror.Number(s), nil
	default:
		return s, nil
	}
}

// coerceDateTime normalizes a time.Time (or a nil-able pointer to
// one) into the MySQL driver's NullTime shape when targeting MySQL,
// since that driver distinguishes a present-but-zero time from an
// absent one at the wire level; every other dialect here accepts a
// bare time.Time.
func coerceDateTime(d Dialect, value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		tp, okp := value.(*time.Time)
		if !okp || tp == nil {
			return nil, newConversionError(value, "DateTime", "unsupported source type")
		}
		t = *tp
	}
	if d.Name() == DialectMySQL {
		return mysqldriver.NullTime{Time: t, Valid: true}, nil
	}
	return t, nil
}

func coerceBinary(value any) (any, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, newConversionError(value, "Binary", "unsupported source type")
	}
	return b, nil
}

// coerceArray handles a Go slice bound to a column whose DBType is
// not itself array-shaped (the common case: an {{in}} expansion, or a
// PostgreSQL array column typed as the element's scalar DBType).
// PostgreSQL is the only target dialect among the six with a native
// array literal, via lib/pq; everywhere else a slice is left for the
// caller's {{in}} expansion to split into scalar markers instead.
func coerceArray(d Dialect, col ColumnMeta, value any) (any, error) {
	switch v := value.(type) {
	case []string:
		if d.Name() == DialectPostgres {
			return pq.StringArray(v), nil
		}
		return v, nil
	case []int64:
		if d.Name() == DialectPostgres {
			return pq.Int64Array(v), nil
		}
		return v, nil
	default:
		return value, nil
	}
}
