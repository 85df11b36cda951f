package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTablesCommandStructure(t *testing.T) {
	assert.NotNil(t, listTablesCmd)
	assert.Equal(t, "list-tables", listTablesCmd.Use)
	assert.NotEmpty(t, listTablesCmd.Short)
	assert.NotEmpty(t, listTablesCmd.Long)
	assert.NotNil(t, listTablesCmd.RunE)
}

func TestListTablesCommandFlags(t *testing.T) {
	flags := listTablesCmd.Flags()

	tables := flags.Lookup("tables")
	require.NotNil(t, tables)
	assert.Equal(t, "t", tables.Shorthand)

	counts := flags.Lookup("counts")
	require.NotNil(t, counts)
	assert.Equal(t, "false", counts.DefValue)

	assert.NotNil(t, flags.Lookup("order"))
}

func TestListTablesCommandExample(t *testing.T) {
	assert.Contains(t, listTablesCmd.Long, "Example:")
	assert.Contains(t, listTablesCmd.Long, "goexport list-tables")
}

func TestRunListTables_MissingConfig(t *testing.T) {
	saveGlobals(t)
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	err := runListTables(listTablesCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
