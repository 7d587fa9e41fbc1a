package session

import (
	"testing"

	"autoparts-store/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLoginLogout(t *testing.T) {
	s := New()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.Token())

	s.Login(domain.User{ID: 3, Username: "boss", IsAdmin: true}, "tok")

	user, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "boss", user.Username)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "tok", s.Token())

	s.Logout()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.Token())
}

func TestLoginReplacesPreviousUser(t *testing.T) {
	s := New()
	s.Login(domain.User{ID: 1, Username: "boss", IsAdmin: true}, "a")
	s.Login(domain.User{ID: 2, Username: "driver"}, "b")

	user, _ := s.Current()
	assert.Equal(t, int64(2), user.ID)
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "b", s.Token())
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := New()
	s.Login(domain.User{ID: 1, Username: "driver"}, "a")

	user, _ := s.Current()
	user.IsAdmin = true

	assert.False(t, s.IsAdmin())
}
