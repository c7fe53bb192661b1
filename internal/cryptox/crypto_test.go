package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicPerSalt(t *testing.T) {
	k1 := DeriveKey([]byte("pass"), []byte("salt-1"))
	k2 := DeriveKey([]byte("pass"), []byte("salt-1"))
	k3 := DeriveKey([]byte("pass"), []byte("salt-2"))

	require.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))

	sealed, err := Seal(key, []byte("access-token"))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, []byte("access-token")))

	plain, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("access-token"), plain)
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))

	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := Seal(DeriveKey([]byte("a"), []byte("salt")), []byte("secret"))
	require.NoError(t, err)

	_, err = Open(DeriveKey([]byte("b"), []byte("salt")), sealed)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open(DeriveKey([]byte("a"), []byte("salt")), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("short"), []byte("x"))
	require.Error(t, err)
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
	Wipe(nil)
}
