package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOneTimeCode_Matches(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	code := &OneTimeCode{Value: "123456", ExpiresAt: issued.Add(10 * time.Minute)}

	assert.True(t, code.Matches("123456", issued))
	assert.True(t, code.Matches("123456", issued.Add(10*time.Minute-time.Nanosecond)))
	assert.False(t, code.Matches("123456", issued.Add(10*time.Minute)))
	assert.False(t, code.Matches("654321", issued))
	assert.False(t, code.Matches("123456 ", issued))

	var none *OneTimeCode
	assert.False(t, none.Matches("123456", issued))
}

func TestAccount_Lifecycle(t *testing.T) {
	now := time.Now()
	acc := NewLocalAccount("alice", "alice@ok.com", "hash", OneTimeCode{Value: "111111", ExpiresAt: now.Add(time.Minute)}, now)

	assert.False(t, acc.Verified)
	assert.Equal(t, ProviderLocal, acc.Provider)
	assert.True(t, acc.HasPassword())

	acc.MarkVerified(now)
	assert.True(t, acc.Verified)
	assert.Nil(t, acc.OTP)

	fed := NewFederatedAccount("bob", "bob@ok.com", "Bob", "", now)
	assert.True(t, fed.Verified)
	assert.False(t, fed.HasPassword())
	assert.Nil(t, fed.OTP)
	assert.Equal(t, ProviderFederated, fed.Provider)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(NewConflictError("dup")))
	assert.Equal(t, CodeValidation, CodeOf(ValidationErrors{NewMissingFieldError("email")}))
	assert.Equal(t, CodeInternal, CodeOf(assert.AnError))
}
