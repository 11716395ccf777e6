package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		input  string
		expect string
	}{
		{
			name:   "plain text",
			input:  "consumers: 4",
			expect: "consumers: 4",
		},
		{
			name:   "single variable",
			env:    map[string]string{"QW_BUCKET": "assets"},
			input:  "dest: gs://${env.QW_BUCKET}/data",
			expect: "dest: gs://assets/data",
		},
		{
			name:   "repeated variables",
			env:    map[string]string{"QW_A": "1", "QW_B": "2"},
			input:  "${env.QW_A}-${env.QW_B}-${env.QW_A}",
			expect: "1-2-1",
		},
		{
			name:   "unset variable expands to empty",
			input:  "key: ${env.QW_UNSET}!",
			expect: "key: !",
		},
		{
			name:   "unterminated expression stays literal",
			env:    map[string]string{"QW_X": "x"},
			input:  "a ${env.QW_X and ${env.QW_Y} b",
			expect: "a ${env.QW_X and  b",
		},
		{
			name:   "empty key",
			input:  "a ${env.} b",
			expect: "a  b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{"QW_A", "QW_B", "QW_X", "QW_Y", "QW_UNSET"} {
				t.Setenv(key, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expect, expandEnvExpr(tc.input))
		})
	}
}
