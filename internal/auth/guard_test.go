package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/domain"
)

type stubCodec struct {
	session Session
	err     error
	panics  bool
}

func (s *stubCodec) Issue(Identity) (string, error) { return "", nil }

func (s *stubCodec) Decode(string) (Session, error) {
	if s.panics {
		panic("codec exploded")
	}
	return s.session, s.err
}

func TestResolveDecoded(t *testing.T) {
	codec := &stubCodec{session: Session{UserID: 1, Role: domain.RoleAdmin}}

	result := Resolve(codec, "anything")
	assert.Equal(t, GuardDecoded, result.State)
	require.NotNil(t, result.Session)
	assert.Equal(t, domain.RoleAdmin, result.Session.Role)
}

func TestResolveNoSession(t *testing.T) {
	codec := &stubCodec{err: ErrNoSession}

	result := Resolve(codec, "whatever")
	assert.Equal(t, GuardNoSession, result.State)
	assert.Nil(t, result.Session)
}

func TestResolveSubsystemFailures(t *testing.T) {
	// a nil codec means the subsystem was never wired
	result := Resolve(nil, "token")
	assert.Equal(t, GuardUnavailable, result.State)

	// an unexpected error is not the same as a bad token
	result = Resolve(&stubCodec{err: errors.New("key store unreachable")}, "token")
	assert.Equal(t, GuardUnavailable, result.State)

	// even a panicking codec must not take the request down
	result = Resolve(&stubCodec{panics: true}, "token")
	assert.Equal(t, GuardUnavailable, result.State)
}

func TestResolveWithRealCodec(t *testing.T) {
	codec, err := NewJWTCodec("secret", "gamestore-test", time.Minute)
	require.NoError(t, err)

	token, err := codec.Issue(Identity{ID: 5, Role: domain.RoleCustomer})
	require.NoError(t, err)

	result := Resolve(codec, token)
	assert.Equal(t, GuardDecoded, result.State)
	require.NotNil(t, result.Session)
	assert.Equal(t, int64(5), result.Session.UserID)

	result = Resolve(codec, "tampered")
	assert.Equal(t, GuardNoSession, result.State)
}
