package sqltext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brackishdb/brackish/pkg/core"
)

func TestExpandDollar(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "simple insert",
			sql:  "INSERT INTO archive (dateTime, outTemp) VALUES (?, ?)",
			want: "INSERT INTO archive (dateTime, outTemp) VALUES ($1, $2)",
		},
		{
			name: "no markers",
			sql:  "SELECT * FROM archive",
			want: "SELECT * FROM archive",
		},
		{
			name: "marker inside string literal untouched",
			sql:  "SELECT * FROM notes WHERE body = 'what?' AND id = ?",
			want: "SELECT * FROM notes WHERE body = 'what?' AND id = $1",
		},
		{
			name: "doubled quote escape inside literal",
			sql:  "SELECT 'it''s a ?' , ?",
			want: "SELECT 'it''s a ?' , $1",
		},
		{
			name: "marker inside quoted identifier untouched",
			sql:  `SELECT "odd?name" FROM t WHERE a = ?`,
			want: `SELECT "odd?name" FROM t WHERE a = $1`,
		},
		{
			name: "marker inside backtick identifier untouched",
			sql:  "SELECT `odd?name` FROM t WHERE a = ?",
			want: "SELECT `odd?name` FROM t WHERE a = $1",
		},
		{
			name: "marker inside line comment untouched",
			sql:  "SELECT 1 -- really?\n WHERE a = ?",
			want: "SELECT 1 -- really?\n WHERE a = $1",
		},
		{
			name: "marker inside block comment untouched",
			sql:  "SELECT /* eh? */ ? /* nested /* deep? */ still */ , ?",
			want: "SELECT /* eh? */ $1 /* nested /* deep? */ still */ , $2",
		},
		{
			name: "marker inside dollar-quoted string untouched",
			sql:  "SELECT $$is it?$$ , ?",
			want: "SELECT $$is it?$$ , $1",
		},
		{
			name: "marker inside tagged dollar quote untouched",
			sql:  "SELECT $body$really? $$ nested?$body$ , ?",
			want: "SELECT $body$really? $$ nested?$body$ , $1",
		},
		{
			name: "lone dollar is not a quote opener",
			sql:  "SELECT price, '$' , ? FROM t WHERE cost > $5 AND a = ?",
			want: "SELECT price, '$' , $1 FROM t WHERE cost > $5 AND a = $2",
		},
		{
			name: "many markers numbered in order",
			sql:  "UPDATE t SET a = ?, b = ?, c = ? WHERE d = ?",
			want: "UPDATE t SET a = $1, b = $2, c = $3 WHERE d = $4",
		},
		{
			name: "unterminated literal consumes rest",
			sql:  "SELECT 'oops ? and more",
			want: "SELECT 'oops ? and more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.sql, core.PlaceholderDollar))
		})
	}
}

func TestExpandQuestionPassthrough(t *testing.T) {
	sql := "INSERT INTO archive VALUES (?, 'keep?')"
	assert.Equal(t, sql, Expand(sql, core.PlaceholderQuestion))
}

func TestHead(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"select", "SELECT * FROM archive", "SELECT"},
		{"lowercase", "select 1", "SELECT"},
		{"leading whitespace", "\n\t  insert into t values (1)", "INSERT"},
		{"leading line comment", "-- header\nUPDATE t SET a = 1", "UPDATE"},
		{"leading block comment", "/* hint */ DELETE FROM t", "DELETE"},
		{"parenthesized union", "(SELECT 1) UNION (SELECT 2)", "SELECT"},
		{"with clause", "WITH x AS (SELECT 1) SELECT * FROM x", "WITH"},
		{"pragma", "PRAGMA table_info(archive)", "PRAGMA"},
		{"empty", "   ", ""},
		{"comment only", "-- nothing here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Head(tt.sql))
		})
	}
}
