package dialect

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/sqlliteral"
	"github.com/dbsmedya/goexport/internal/types"
)

// SQLServer is the Microsoft SQL Server dialect (go-mssqldb).
type SQLServer struct{}

func (SQLServer) Name() string { return config.DriverSQLServer }

func (SQLServer) TablesQuery() string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_SCHEMA, TABLE_NAME`
}

func (SQLServer) ForeignKeysQuery() string {
	return `SELECT SCHEMA_NAME(c.schema_id), c.name, SCHEMA_NAME(p.schema_id), p.name
FROM sys.foreign_keys fk
JOIN sys.tables c ON fk.parent_object_id = c.object_id
JOIN sys.tables p ON fk.referenced_object_id = p.object_id`
}

// IdentityQuery resolves the table through OBJECT_ID so that verbatim names
// from a table list work the same as catalog names.
func (SQLServer) IdentityQuery(t types.TableID) (string, []any) {
	return "SELECT COUNT(*) FROM sys.columns WHERE object_id = OBJECT_ID(@p1) AND is_identity = 1",
		[]any{t.String()}
}

func (SQLServer) SelectAll(t types.TableID) string {
	return "SELECT * FROM " + t.String()
}

func (SQLServer) CountRows(t types.TableID) string {
	return "SELECT COUNT_BIG(*) FROM " + t.String()
}

// Normalize handles the column types go-mssqldb returns as raw bytes.
// DATETIMEOFFSET and TIME arrive as time.Time but have no literal form here:
// the offset or the missing date would be lost, so they are rejected.
func (SQLServer) Normalize(dbType string, v any) (any, error) {
	upper := strings.ToUpper(dbType)
	if v != nil && (upper == "DATETIMEOFFSET" || upper == "TIME") {
		return nil, &sqlliteral.UnsupportedTypeError{Type: upper, Reason: fmt.Sprintf("%T has no script literal", v)}
	}

	raw, ok := v.([]byte)
	if !ok {
		return v, nil
	}

	switch upper {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return sqlliteral.Decimal(raw), nil
	case "UNIQUEIDENTIFIER":
		var u mssql.UniqueIdentifier
		if err := u.Scan(raw); err != nil {
			return nil, fmt.Errorf("invalid uniqueidentifier: %w", err)
		}
		return uuid.UUID(u), nil
	default:
		return raw, nil
	}
}
