package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRedactsMACs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "colon delimited uppercase",
			input:    "dut at AA:BB:CC:11:22:33 responded",
			expected: "dut at AA:BB:CC:<REDACTED> responded",
		},
		{
			name:     "colon delimited lowercase",
			input:    "f8:8f:ca:de:ad:01",
			expected: "f8:8f:ca:<REDACTED>",
		},
		{
			name:     "hyphen delimited",
			input:    "bssid F8-8F-CA-00-11-22",
			expected: "bssid F8-8F-CA-<REDACTED>",
		},
		{
			name:     "mixed case",
			input:    "aA:Bb:cC:Dd:eE:fF",
			expected: "aA:Bb:cC:<REDACTED>",
		},
		{
			name:     "multiple addresses",
			input:    "from 00:11:22:33:44:55 to 66:77:88:99:aa:bb",
			expected: "from 00:11:22:<REDACTED> to 66:77:88:<REDACTED>",
		},
		{
			name:     "end of sentence",
			input:    "scanned AA:BB:CC:11:22:33.",
			expected: "scanned AA:BB:CC:<REDACTED>.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Apply(tt.input))
		})
	}
}

func TestApplyNoMatchIsIdentity(t *testing.T) {
	inputs := []string{
		"",
		"no addresses here",
		"short hex AA:BB:CC",
		"ipv6 fe80::1 is not a mac",
		"timestamp 12:34:56 is not a mac either",
	}
	for _, in := range inputs {
		assert.Equal(t, in, Apply(in), "input %q should pass through unchanged", in)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	inputs := []string{
		"dut at AA:BB:CC:11:22:33 responded",
		"bssid F8-8F-CA-00-11-22",
		"from 00:11:22:33:44:55 to 66:77:88:99:aa:bb",
	}
	for _, in := range inputs {
		once := Apply(in)
		assert.Equal(t, once, Apply(once), "double redaction of %q changed output", in)
	}
}

func TestApplyPreservesPrefixCase(t *testing.T) {
	assert.Equal(t, "f8:8F:ca:<REDACTED>", Apply("f8:8F:ca:DE:ad:01"))
}
