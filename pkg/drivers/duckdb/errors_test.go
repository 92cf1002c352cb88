package duckdb

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/pkg/core"
)

func TestClassifyMessageRules(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		kind core.Kind
	}{
		{
			name: "missing table",
			msg:  `Catalog Error: Table with name fubar does not exist!`,
			kind: core.KindNoTable,
		},
		{
			name: "duplicate table",
			msg:  `Catalog Error: Table with name "bar" already exists!`,
			kind: core.KindTableExists,
		},
		{
			name: "missing column",
			msg:  `Binder Error: Referenced column "foo" not found in FROM clause!`,
			kind: core.KindNoColumn,
		},
		{
			name: "duplicate key",
			msg:  `Constraint Error: Duplicate key "v: 1" violates primary key constraint.`,
			kind: core.KindIntegrity,
		},
		{
			name: "parser error",
			msg:  `Parser Error: syntax error at or near "FORM"`,
			kind: core.KindProgramming,
		},
		{
			name: "unopenable file",
			msg:  `IO Error: Cannot open file "/nope/weewx.duckdb": No such file or directory`,
			kind: core.KindNoDatabase,
		},
		{
			name: "read-only database",
			msg:  `Invalid Input Error: Cannot execute statement of type "CREATE" on database "weewx" which is attached in read-only mode!`,
			kind: core.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("duckdb.execute", errors.New(tt.msg))

			kind, ok := core.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	err := classify("duckdb.fetch", io.EOF)
	assert.ErrorIs(t, err, core.ErrDisconnected)
}

func TestClassifyFallback(t *testing.T) {
	err := classify("duckdb.execute", errors.New("something strange happened"))

	kind, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.KindDatabase, kind)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify("duckdb.execute", nil))
}

func TestClassifyCanonicalPassthrough(t *testing.T) {
	orig := core.NewError(core.KindNoTable, "duckdb.columns_of", errors.New(`table "bar" is unknown`))
	assert.Same(t, orig, classify("duckdb.execute", orig))
}
