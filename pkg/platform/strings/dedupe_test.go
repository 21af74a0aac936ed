package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	for name, tc := range map[string]struct {
		in, want []string
	}{
		"nil stays nil":     {nil, nil},
		"empty stays empty": {[]string{}, []string{}},
		"blanks dropped":    {[]string{" ", "", "\t"}, []string{}},
		"first occurrence wins": {
			in:   []string{" suspicious filename", "low resolution", "suspicious filename ", "low resolution"},
			want: []string{"suspicious filename", "low resolution"},
		},
		"case is significant": {[]string{"EXIF stripped", "exif stripped"}, []string{"EXIF stripped", "exif stripped"}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, DedupeAndTrim(tc.in))
		})
	}
}
