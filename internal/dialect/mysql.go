package dialect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/sqlliteral"
	"github.com/dbsmedya/goexport/internal/sqlutil"
	"github.com/dbsmedya/goexport/internal/types"
)

// MySQL is the MySQL/MariaDB dialect (go-sql-driver/mysql). The schema of a
// table is its database.
type MySQL struct{}

func (MySQL) Name() string { return config.DriverMySQL }

func (MySQL) TablesQuery() string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = DATABASE()
ORDER BY TABLE_NAME`
}

func (MySQL) ForeignKeysQuery() string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME, REFERENCED_TABLE_SCHEMA, REFERENCED_TABLE_NAME
FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (MySQL) IdentityQuery(t types.TableID) (string, []any) {
	return `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND TABLE_NAME = ? AND EXTRA LIKE '%auto_increment%'`,
		[]any{t.Schema, t.Name}
}

func (m MySQL) SelectAll(t types.TableID) string {
	return "SELECT * FROM " + m.qualified(t)
}

func (m MySQL) CountRows(t types.TableID) string {
	return "SELECT COUNT(*) FROM " + m.qualified(t)
}

func (MySQL) qualified(t types.TableID) string {
	if t.Schema == "" {
		return sqlutil.QuoteIdentifier(t.Name)
	}
	return sqlutil.QuoteIdentifier(t.Schema) + "." + sqlutil.QuoteIdentifier(t.Name)
}

// Normalize decodes text-protocol values. Depending on driver version numeric
// columns arrive either as []byte or already parsed.
func (MySQL) Normalize(dbType string, v any) (any, error) {
	dbType = strings.ToUpper(dbType)
	unsigned := strings.HasPrefix(dbType, "UNSIGNED ")
	base := strings.TrimPrefix(dbType, "UNSIGNED ")

	switch base {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR":
		return normalizeInteger(v, unsigned)
	case "DECIMAL":
		if raw, ok := v.([]byte); ok {
			return sqlliteral.Decimal(raw), nil
		}
		return v, nil
	case "FLOAT", "DOUBLE":
		if raw, ok := v.([]byte); ok {
			f, err := strconv.ParseFloat(string(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q: %w", base, raw, err)
			}
			return f, nil
		}
		return v, nil
	case "BIT":
		if raw, ok := v.([]byte); ok && len(raw) == 1 && raw[0] <= 1 {
			return raw[0] == 1, nil
		}
		return v, nil
	case "DATE", "DATETIME", "TIMESTAMP":
		if raw, ok := v.([]byte); ok {
			return parseTemporal(base, raw)
		}
		return v, nil
	case "CHAR", "VARCHAR", "TINYTEXT", "TEXT", "MEDIUMTEXT", "LONGTEXT",
		"ENUM", "SET", "JSON", "TIME":
		if raw, ok := v.([]byte); ok {
			return string(raw), nil
		}
		return v, nil
	default:
		return v, nil
	}
}

// MySQL text-protocol layouts. Fractional seconds after the seconds field are
// accepted by time.Parse without being part of the layout.
const (
	mysqlDateLayout     = "2006-01-02"
	mysqlDateTimeLayout = "2006-01-02 15:04:05"
)

// parseTemporal decodes DATE/DATETIME/TIMESTAMP text as UTC, the driver's
// default location. Zero dates have no literal form and are rejected.
func parseTemporal(base string, raw []byte) (any, error) {
	layout := mysqlDateTimeLayout
	if base == "DATE" {
		layout = mysqlDateLayout
	}

	t, err := time.ParseInLocation(layout, string(raw), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", base, raw, err)
	}
	return t, nil
}

func normalizeInteger(v any, unsigned bool) (any, error) {
	switch x := v.(type) {
	case []byte:
		if unsigned {
			u, err := strconv.ParseUint(string(x), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q: %w", x, err)
			}
			return unsignedValue(u), nil
		}
		i, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", x, err)
		}
		return i, nil
	case uint64:
		return unsignedValue(x), nil
	default:
		return v, nil
	}
}

// unsignedValue keeps values above MaxInt64 exact by emitting them as
// numeric text.
func unsignedValue(u uint64) any {
	if u > math.MaxInt64 {
		return sqlliteral.Decimal(strconv.FormatUint(u, 10))
	}
	return int64(u)
}
