package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	s := &UserService{}

	t.Run("accepts a conforming password", func(t *testing.T) {
		assert.NoError(t, s.ValidatePassword("Str0ngPass"))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		assert.Error(t, s.ValidatePassword("Ab1"))
	})

	t.Run("rejects passwords without an uppercase letter", func(t *testing.T) {
		assert.Error(t, s.ValidatePassword("weakpass1"))
	})

	t.Run("rejects passwords without a digit", func(t *testing.T) {
		assert.Error(t, s.ValidatePassword("Weakpassword"))
	})
}
