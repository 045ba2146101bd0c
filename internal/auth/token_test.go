package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) (*TokenCodec, *time.Time) {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, DefaultTokenTTL)
	require.NoError(t, err)
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return current }
	return codec, &current
}

func TestNewTokenCodecRejectsShortSecret(t *testing.T) {
	_, err := NewTokenCodec("tooshort", 0)
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	codec, _ := newTestCodec(t)
	principal := Principal{UserID: uuid.New(), Email: "editor@aylf.org", Role: rbac.RoleEditor}

	token, err := codec.Issue(principal)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, principal.Email, got.Email)
	assert.Equal(t, rbac.RoleEditor, got.Role)
}

func TestTokenExpiry(t *testing.T) {
	codec, now := newTestCodec(t)
	token, err := codec.Issue(Principal{UserID: uuid.New(), Email: "u@aylf.org", Role: rbac.RoleUser})
	require.NoError(t, err)

	*now = now.Add(7*24*time.Hour - time.Minute)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTamperingFailsVerification(t *testing.T) {
	codec, _ := newTestCodec(t)
	token, err := codec.Issue(Principal{UserID: uuid.New(), Email: "u@aylf.org", Role: rbac.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	for i := range payload {
		flipped := make([]byte, len(payload))
		copy(flipped, payload)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tampered := parts[0] + "." + string(flipped) + "." + parts[2]
		if tampered == token {
			continue
		}
		_, err := codec.Verify(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken, "altered byte %d must not verify", i)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	codec, _ := newTestCodec(t)
	other, err := NewTokenCodec("ffffffffffffffffffffffffffffffff", 0)
	require.NoError(t, err)

	token, err := other.Issue(Principal{UserID: uuid.New(), Email: "u@aylf.org", Role: rbac.RoleUser})
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeSkipsSignatureCheck(t *testing.T) {
	codec, _ := newTestCodec(t)
	other, err := NewTokenCodec("ffffffffffffffffffffffffffffffff", 0)
	require.NoError(t, err)

	id := uuid.New()
	token, err := other.Issue(Principal{UserID: id, Email: "peek@aylf.org", Role: rbac.RoleModerator})
	require.NoError(t, err)

	got := codec.Decode(token)
	require.NotNil(t, got)
	assert.Equal(t, id, got.UserID)
	assert.Equal(t, rbac.RoleModerator, got.Role)
}

func TestDecodeMalformedReturnsNil(t *testing.T) {
	codec, _ := newTestCodec(t)
	assert.Nil(t, codec.Decode("not-a-token"))
	assert.Nil(t, codec.Decode(""))
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	codec, _ := newTestCodec(t)
	token, err := codec.Issue(Principal{UserID: uuid.New(), Email: "x@aylf.org", Role: rbac.Role("ROOT")})
	require.NoError(t, err)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
