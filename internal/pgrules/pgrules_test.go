package pgrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Descriptors(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range All() {
		require.True(t, r.Valid(), "rule %d", r)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
		assert.NotEqual(t, severityInvalid, r.DefaultSeverity())
		assert.False(t, seen[r.Code()], "duplicate code %s", r.Code())
		seen[r.Code()] = true
	}
	assert.Len(t, All(), 14)
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "PG001: InvalidFieldNumber", PG001InvalidFieldNumber.String())
	assert.Equal(t, "PG201", ConstructorMissing().Code())
	assert.Equal(t, "rule-unknown(0)", ruleInvalid.String())
}

func TestRule_Format(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		args []any
		want string
	}{
		{
			name: "field number",
			rule: InvalidFieldNumber(),
			args: []any{int64(0)},
			want: "The specified field number 0 is invalid; the valid range is 1-536870911, omitting 19000-19999.",
		},
		{
			name: "reservation overlap",
			rule: DuplicateReservation(),
			args: []any{"[20-30]", "[10-25]"},
			want: "The reservations [20-30] and [10-25] overlap each-other.",
		},
		{
			name: "no arguments",
			rule: ShouldBeProtoContract(),
			want: "The type is not marked as a proto-contract; additional annotations will be ignored.",
		},
		{
			name: "two type names",
			rule: IncludeNotDeclared(),
			args: []any{"Shape", "Circle"},
			want: "The base-type 'Shape' is a proto-contract, but no include is declared for 'Circle' and the IgnoreUnknownSubTypes flag is not set.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Format(tt.args...))
		})
	}
}

func TestRule_UnmarshalText(t *testing.T) {
	var r Rule
	require.NoError(t, r.UnmarshalText([]byte("pg150")))
	assert.Equal(t, PG150DuplicateInclude, r)

	require.NoError(t, r.UnmarshalText([]byte("ConstructorMissing")))
	assert.Equal(t, PG201ConstructorMissing, r)

	assert.Error(t, r.UnmarshalText([]byte("PG999")))
}

func TestSeverity_Text(t *testing.T) {
	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("Warn")))
	assert.Equal(t, SeverityWarning, s)
	assert.Equal(t, "error", SeverityError.String())
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
	assert.True(t, SeverityError > SeverityWarning && SeverityWarning > SeverityInfo)
}
