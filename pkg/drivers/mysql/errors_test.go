package mysql

import (
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/pkg/core"
)

func TestClassifyErrno(t *testing.T) {
	tests := []struct {
		number uint16
		kind   core.Kind
	}{
		{1007, core.KindDatabaseExists},
		{1008, core.KindNoDatabase},
		{1044, core.KindPermission},
		{1045, core.KindBadPassword},
		{1049, core.KindNoDatabase},
		{1050, core.KindTableExists},
		{1051, core.KindNoTable},
		{1054, core.KindNoColumn},
		{1062, core.KindIntegrity},
		{1064, core.KindProgramming},
		{1091, core.KindNoColumn},
		{1146, core.KindNoTable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("errno_%d", tt.number), func(t *testing.T) {
			native := &mysql.MySQLError{Number: tt.number, Message: "server says no"}
			err := classify("mysql.execute", fmt.Errorf("exec: %w", native))

			var ce *core.Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, "mysql.execute", ce.Op)
		})
	}
}

func TestClassifyUnmappedErrno(t *testing.T) {
	// A number outside the table is a generic database fault; the
	// message rules never apply once a number is present.
	err := classify("mysql.execute", &mysql.MySQLError{
		Number:  1205,
		Message: "Lock wait timeout exceeded; try restarting transaction",
	})

	kind, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.KindDatabase, kind)
}

func TestClassifySentinelMatch(t *testing.T) {
	err := classify("mysql.execute", &mysql.MySQLError{Number: 1146})
	assert.ErrorIs(t, err, core.ErrNoTable)
}

func TestClassifyMessageRules(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		kind core.Kind
	}{
		{
			name: "host resolution failure",
			msg:  "dial tcp: lookup foohost: no such host",
			kind: core.KindCannotConnect,
		},
		{
			name: "connection refused",
			msg:  "dial tcp 127.0.0.1:3306: connect: connection refused",
			kind: core.KindCannotConnect,
		},
		{
			name: "authentication failure",
			msg:  "Error 1045: Access denied for user 'weewx1'@'localhost' (using password: YES)",
			kind: core.KindBadPassword,
		},
		{
			name: "missing database",
			msg:  "Error 1049: Unknown database 'test_weewx1'",
			kind: core.KindNoDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("mysql.connect", errors.New(tt.msg))

			kind, ok := core.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid conn", mysql.ErrInvalidConn},
		{"eof", io.EOF},
		{"net op error", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("mysql.fetch", tt.err)
			assert.ErrorIs(t, err, core.ErrDisconnected)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	err := classify("mysql.execute", errors.New("something strange happened"))

	kind, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.KindDatabase, kind)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify("mysql.execute", nil))
}
