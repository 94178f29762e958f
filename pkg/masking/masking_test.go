package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGovtID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty stays empty", "", ""},
		{"short value fully redacted", "AB12", Placeholder},
		{"single char fully redacted", "X", Placeholder},
		{"typical id keeps last four", "ABCDE1234F", "XXXX-XXXX-234F"},
		{"sixteen chars keeps last four", "1234567890ABCDEF", "XXXX-XXXX-CDEF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GovtID(tt.in))
		})
	}
}
