package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, sep string
		max     int
		want    string
	}{
		{"Present Tense Basics", "_", 0, "present_tense_basics"},
		{"  Café  Conversation! ", "-", 0, "cafe-conversation"},
		{"Ünïcödé", "_", 0, "unicode"},
		{"!!!", "_", 0, "item"},
		{"Long chapter title here", "_", 12, "long_chapter"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in, tc.sep, tc.max), tc.in)
	}
}
