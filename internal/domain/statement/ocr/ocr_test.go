package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAnchor(t *testing.T) {
	t.Run("exact label", func(t *testing.T) {
		assert.Equal(t, 1, FindAnchor([]string{"交易明細", "摘要", "金額"}, "摘要"))
	})

	t.Run("inserted punctuation around the label", func(t *testing.T) {
		assert.Equal(t, 0, FindAnchor([]string{"收付行:", "XYZ123"}, "收付行"))
	})

	t.Run("one confused rune", func(t *testing.T) {
		// 収 for 收 is a common recognition confusion.
		assert.Equal(t, 0, FindAnchor([]string{"収付行", "XYZ123"}, "收付行"))
	})

	t.Run("out-of-budget segment skipped", func(t *testing.T) {
		assert.Equal(t, 1, FindAnchor([]string{"収付баnk", "収付行"}, "收付行"))
	})

	t.Run("two edits exceed the budget", func(t *testing.T) {
		assert.Equal(t, -1, FindAnchor([]string{"収付亍", "XYZ123"}, "收付行"))
	})

	t.Run("absent label", func(t *testing.T) {
		assert.Equal(t, -1, FindAnchor([]string{"交易明細", "金額"}, "收付行"))
	})
}
