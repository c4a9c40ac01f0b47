package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzPtr_Int64(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(-100))
	f.Add(int64(358782858))
	f.Fuzz(func(t *testing.T, i int64) {
		p := Ptr(i)
		assert.Equal(t, i, *p)
		assert.Equal(t, i, Value(p))
	})
}

func TestValue_Nil(t *testing.T) {
	var s *string
	assert.Equal(t, "", Value(s))
	assert.Equal(t, "Markdown", Value(Ptr("Markdown")))
}
