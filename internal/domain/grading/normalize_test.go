package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"trims and folds", "  Gia Đình ", "gia đình"},
		{"collapses whitespace", "đồ \t  vật", "đồ vật"},
		{"keeps diacritics", "VẬT THỂ", "vật thể"},
		{"blank", "   ", ""},
		{"decomposed input is composed", "vệt", "vệt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gia dinh", StripDiacritics("gia đình"))
	assert.Equal(t, "Do vat the", StripDiacritics("Đồ vật thể"))
	assert.Equal(t, "cafe naive", StripDiacritics("café naïve"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
}

func TestSegments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"single sense", "object", []string{"object"}},
		{"comma and semicolon", "object, thing; item", []string{"object", "thing", "item"}},
		{"period", "to run. to flee", []string{"to run", "to flee"}},
		{"parentheses", "(formal) object, (thing)", []string{"(formal) object", "thing"}},
		{"leading parenthetical kept", "(informal) dude", []string{"(informal) dude"}},
		{"trailing parenthetical kept", "dude (informal)", []string{"dude (informal)"}},
		{"two groups kept", "(a) (b)", []string{"(a) (b)"}},
		{"nested enclosing", "(( thing ))", []string{"thing"}},
		{"unbalanced", "(thing", []string{"(thing"}},
		{"empty pieces dropped", ",, a ;", []string{"a"}},
		{"nothing", "", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Segments(tc.in))
		})
	}
}

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "đồ vật", Fold("ĐỒ VẬT"))
	assert.Equal(t, "strasse", Fold("STRASSE"))
}
