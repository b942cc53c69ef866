package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []uint{3, 1, 3, 7, 1, 3}

	m, err := Decode(Encode(ids))
	assert.NoError(t, err)
	assert.Equal(t, ids, m.IDs())
	assert.Equal(t, "3,1,3,7,1,3", m.Encode())
}

func TestDecodeEmpty(t *testing.T) {
	m, err := Decode("")
	assert.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.IDs())
	assert.Equal(t, "", m.Encode())
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"1,banana,2", "1,,2", "-4", "1;2"} {
		_, err := Decode(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestCounts(t *testing.T) {
	m, err := Decode("5,5,5,9")
	assert.NoError(t, err)

	assert.Equal(t, 3, m.Count(5))
	assert.Equal(t, 1, m.Count(9))
	assert.Equal(t, 0, m.Count(42))
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []uint{5, 9}, m.Distinct())
}

func TestAddAppends(t *testing.T) {
	m, _ := Decode("2,8")
	m.Add(2)

	assert.Equal(t, "2,8,2", m.Encode())
	assert.Equal(t, 2, m.Count(2))
}
