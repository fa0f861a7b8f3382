package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Jane.Doe@example.com", Normalize("  Jane.Doe@Example.COM "))
	assert.Equal(t, "no-at-sign", Normalize("no-at-sign"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("jane@example.com"))
	assert.True(t, Valid("j.doe+tag@mail.example.co.uk"))

	assert.False(t, Valid(""))
	assert.False(t, Valid("jane@example"))
	assert.False(t, Valid("jane example@mail.com"))
	assert.False(t, Valid("@example.com"))
}

func TestCompleteDomain(t *testing.T) {
	t.Run("appends when no domain typed", func(t *testing.T) {
		assert.Equal(t, "jane@gmail.com", CompleteDomain("jane", "@gmail.com"))
	})

	t.Run("replaces a partial domain", func(t *testing.T) {
		assert.Equal(t, "jane@icloud.com", CompleteDomain("jane@gm", "@icloud.com"))
	})

	t.Run("accepts domain without at sign", func(t *testing.T) {
		assert.Equal(t, "jane@yahoo.com", CompleteDomain("jane", "yahoo.com"))
	})
}
