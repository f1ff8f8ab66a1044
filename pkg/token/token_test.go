package token_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkovac21/accountd/pkg/token"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer := token.New("super-secret", 0)
	userID := uuid.New()

	tok, err := issuer.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := token.New("right-secret", 0).Issue(uuid.New())
	require.NoError(t, err)

	_, err = token.New("wrong-secret", 0).Verify(tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	issuer := token.New("k", 0)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	issuer := token.New("secret", -1*time.Second)

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	issuer := token.New("secret", 0)

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.NoError(t, err)
}
