package auth_test

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/internal/server/api/auth"
)

func wrapPair(t *testing.T, clientKey, serverKey []byte, clientRole auth.Role) (client, server net.Conn) {
	t.Helper()
	c, s := net.Pipe()
	t.Cleanup(func() {
		_ = c.Close()
		_ = s.Close()
	})
	client, err := auth.WrapConn(c, clientKey, clientRole)
	require.NoError(t, err)
	server, err = auth.WrapConn(s, serverKey, auth.RoleServer)
	require.NoError(t, err)
	return client, server
}

func sessionKey(t *testing.T, password string) []byte {
	t.Helper()
	k, err := auth.DeriveKey(password)
	require.NoError(t, err)
	return auth.DeriveSessionKey(k, make([]byte, 32), make([]byte, 32))
}

func TestConnRoundTrip(t *testing.T) {
	key := sessionKey(t, "test123")
	client, server := wrapPair(t, key, key, auth.RoleClient)

	go func() {
		_, _ = client.Write([]byte("Hello, World!"))
		_, _ = client.Write([]byte("again"))
	}()

	buf := make([]byte, 5)
	n, err := server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(buf[:n]))

	rest := make([]byte, 8)
	n, err = io.ReadFull(server, rest)
	require.NoError(t, err)
	assert.Equal(t, ", World!", string(rest[:n]))

	n, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "again", string(buf[:n]))

	go func() { _, _ = server.Write([]byte("pong")) }()
	n, err = client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf[:n]))
}

func TestConnErrors(t *testing.T) {
	t.Run("differing keys", func(t *testing.T) {
		client, server := wrapPair(t, sessionKey(t, "test123"), sessionKey(t, "123test"), auth.RoleClient)
		go func() { _, _ = client.Write([]byte("x")) }()
		_, err := server.Read(make([]byte, 1))
		assert.EqualError(t, err, "chacha20poly1305: message authentication failed")
	})

	t.Run("reflected packet", func(t *testing.T) {
		key := sessionKey(t, "test123")
		client, server := wrapPair(t, key, key, auth.RoleServer)
		go func() { _, _ = client.Write([]byte("x")) }()
		_, err := server.Read(make([]byte, 1))
		assert.ErrorIs(t, err, auth.ErrReplay)
	})

	t.Run("bad key length", func(t *testing.T) {
		c, s := net.Pipe()
		defer c.Close()
		defer s.Close()
		_, err := auth.WrapConn(c, []byte{1, 2, 3}, auth.RoleClient)
		assert.EqualError(t, err, "chacha20poly1305: bad key length")
	})

	t.Run("peer closed", func(t *testing.T) {
		key := sessionKey(t, "test123")
		c, s := net.Pipe()
		server, err := auth.WrapConn(s, key, auth.RoleServer)
		require.NoError(t, err)
		_ = c.Close()
		_, err = server.Read(make([]byte, 1))
		assert.ErrorIs(t, err, io.EOF)
		_ = s.Close()
	})
}
