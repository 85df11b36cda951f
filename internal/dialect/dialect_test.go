package dialect

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/goexport/internal/sqlliteral"
	"github.com/dbsmedya/goexport/internal/types"
)

func TestNames(t *testing.T) {
	names := Names()
	require.Equal(t, []string{"sqlserver", "mysql"}, names)

	for _, name := range names {
		d, err := For(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
}

func TestFor(t *testing.T) {
	d, err := For("sqlserver")
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", d.Name())

	d, err = For("")
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", d.Name())

	d, err = For("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = For("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestSQLServer_Queries(t *testing.T) {
	d := SQLServer{}
	table := types.NewTableID("dbo", "Order Details")

	assert.Equal(t, "SELECT * FROM [dbo].[Order Details]", d.SelectAll(table))
	assert.Equal(t, "SELECT COUNT_BIG(*) FROM [dbo].[Order Details]", d.CountRows(table))
	assert.Contains(t, d.TablesQuery(), "'BASE TABLE'")

	query, args := d.IdentityQuery(table)
	assert.Contains(t, query, "is_identity = 1")
	assert.Equal(t, []any{"[dbo].[Order Details]"}, args)
}

func TestSQLServer_ExplicitNameUsedVerbatim(t *testing.T) {
	d := SQLServer{}
	table := types.ParseTableID("Sales.Orders")

	assert.Equal(t, "SELECT * FROM Sales.Orders", d.SelectAll(table))
	_, args := d.IdentityQuery(table)
	assert.Equal(t, []any{"Sales.Orders"}, args)
}

func TestSQLServer_Normalize(t *testing.T) {
	d := SQLServer{}

	t.Run("decimal bytes", func(t *testing.T) {
		v, err := d.Normalize("DECIMAL", []byte("12.50"))
		require.NoError(t, err)
		assert.Equal(t, sqlliteral.Decimal("12.50"), v)
	})

	t.Run("money bytes", func(t *testing.T) {
		v, err := d.Normalize("money", []byte("-3.1400"))
		require.NoError(t, err)
		assert.Equal(t, sqlliteral.Decimal("-3.1400"), v)
	})

	t.Run("uniqueidentifier wire order", func(t *testing.T) {
		raw := []byte{0xff, 0x19, 0x96, 0x6f, 0x86, 0x8b, 0x11, 0xd0, 0xb4, 0x2d, 0x00, 0xc0, 0x4f, 0xc9, 0x64, 0xff}
		v, err := d.Normalize("UNIQUEIDENTIFIER", raw)
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse("6f9619ff-8b86-d011-b42d-00c04fc964ff"), v)
	})

	t.Run("uniqueidentifier bad length", func(t *testing.T) {
		_, err := d.Normalize("UNIQUEIDENTIFIER", []byte{0x01})
		require.Error(t, err)
	})

	t.Run("varbinary stays bytes", func(t *testing.T) {
		v, err := d.Normalize("VARBINARY", []byte{0x0a, 0xff})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0a, 0xff}, v)
	})

	t.Run("datetimeoffset is unsupported", func(t *testing.T) {
		in := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("", 5*3600))
		_, err := d.Normalize("DATETIMEOFFSET", in)
		require.Error(t, err)
		assert.ErrorIs(t, err, sqlliteral.ErrUnsupportedType)
		assert.Contains(t, err.Error(), "DATETIMEOFFSET")
	})

	t.Run("time is unsupported", func(t *testing.T) {
		_, err := d.Normalize("time", time.Date(1, 1, 1, 13, 14, 15, 0, time.UTC))
		require.Error(t, err)
		assert.ErrorIs(t, err, sqlliteral.ErrUnsupportedType)
	})

	t.Run("null time and datetimeoffset stay null", func(t *testing.T) {
		for _, dbType := range []string{"TIME", "DATETIMEOFFSET"} {
			v, err := d.Normalize(dbType, nil)
			require.NoError(t, err)
			assert.Nil(t, v)
		}
	})

	t.Run("datetime passes through", func(t *testing.T) {
		in := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		v, err := d.Normalize("DATETIME2", in)
		require.NoError(t, err)
		assert.Equal(t, in, v)
	})

	t.Run("native values pass through", func(t *testing.T) {
		now := time.Now()
		for _, in := range []any{nil, int64(7), "text", true, 1.5, now} {
			v, err := d.Normalize("ANY", in)
			require.NoError(t, err)
			assert.Equal(t, in, v)
		}
	})
}

func TestMySQL_Queries(t *testing.T) {
	d := MySQL{}

	assert.Equal(t, "SELECT * FROM `shop`.`order items`", d.SelectAll(types.NewTableID("shop", "order items")))
	assert.Equal(t, "SELECT * FROM `orders`", d.SelectAll(types.ParseTableID("orders")))
	assert.Equal(t, "SELECT COUNT(*) FROM `shop`.`orders`", d.CountRows(types.NewTableID("shop", "orders")))
	assert.True(t, strings.Contains(d.TablesQuery(), "DATABASE()"))

	query, args := d.IdentityQuery(types.NewTableID("shop", "orders"))
	assert.Contains(t, query, "auto_increment")
	assert.Equal(t, []any{"shop", "orders"}, args)
}

func TestMySQL_Normalize(t *testing.T) {
	d := MySQL{}

	tests := []struct {
		name   string
		dbType string
		in     any
		want   any
	}{
		{"int bytes", "INT", []byte("-42"), int64(-42)},
		{"bigint native", "BIGINT", int64(9), int64(9)},
		{"unsigned small", "UNSIGNED BIGINT", []byte("17"), int64(17)},
		{"unsigned huge", "UNSIGNED BIGINT", []byte("18446744073709551615"), sqlliteral.Decimal("18446744073709551615")},
		{"unsigned native huge", "UNSIGNED BIGINT", uint64(18446744073709551615), sqlliteral.Decimal("18446744073709551615")},
		{"decimal", "DECIMAL", []byte("1.10"), sqlliteral.Decimal("1.10")},
		{"double", "DOUBLE", []byte("2.5"), 2.5},
		{"float native", "FLOAT", float32(0.5), float32(0.5)},
		{"bit one", "BIT", []byte{1}, true},
		{"bit zero", "BIT", []byte{0}, false},
		{"wide bit", "BIT", []byte{0x01, 0x02}, []byte{0x01, 0x02}},
		{"varchar", "VARCHAR", []byte("O'Brien"), "O'Brien"},
		{"json", "JSON", []byte(`{"a":1}`), `{"a":1}`},
		{"blob", "BLOB", []byte{0x00, 0x10}, []byte{0x00, 0x10}},
		{"null", "INT", nil, nil},
		{"datetime bytes", "DATETIME", []byte("2024-03-05 07:08:09"), time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)},
		{"datetime fraction", "DATETIME", []byte("2024-03-05 07:08:09.250"), time.Date(2024, 3, 5, 7, 8, 9, 250e6, time.UTC)},
		{"timestamp bytes", "TIMESTAMP", []byte("1999-12-31 23:59:59"), time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"date bytes", "DATE", []byte("2024-03-05"), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"datetime native", "DATETIME", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"time stays text", "TIME", []byte("12:30:00"), "12:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Normalize(tt.dbType, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMySQL_NormalizeErrors(t *testing.T) {
	d := MySQL{}

	_, err := d.Normalize("INT", []byte("x1"))
	require.Error(t, err)

	_, err = d.Normalize("DOUBLE", []byte("nope"))
	require.Error(t, err)

	_, err = d.Normalize("DATETIME", []byte("0000-00-00 00:00:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATETIME")
}
