package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

func TestValidTaxID(t *testing.T) {
	valid := []string{"529.982.247-25", "52998224725", "111.444.777-35", "123.456.789-09"}
	for _, s := range valid {
		assert.True(t, domain.ValidTaxID(s), s)
	}

	invalid := []string{
		"",
		"123",
		"12345678901",    // wrong check digits
		"111.111.111-11", // repeated digit
		"00000000000",
		"529.982.247-2",
		"529982247250",
	}
	for _, s := range invalid {
		assert.False(t, domain.ValidTaxID(s), s)
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "52998224725", domain.DigitsOnly("529.982.247-25"))
	assert.Equal(t, "67999999999", domain.DigitsOnly("(67) 99999-9999"))
	assert.Equal(t, "", domain.DigitsOnly("abc"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, domain.ValidPhone("(67) 3333-4444"))
	assert.True(t, domain.ValidPhone("(67) 99999-9999"))
	assert.False(t, domain.ValidPhone("99999-9999"))
	assert.False(t, domain.ValidPhone("+55 (67) 99999-9999"))
}

func TestValidPostalCode(t *testing.T) {
	assert.True(t, domain.ValidPostalCode("79740-000"))
	assert.False(t, domain.ValidPostalCode("7974000"))
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestApproval(t *testing.T) {
	status, at := domain.Approval(true, fixedTime)
	assert.Equal(t, domain.CourierApproved, status)
	if assert.NotNil(t, at) {
		assert.Equal(t, fixedTime, *at)
	}

	status, at = domain.Approval(false, fixedTime)
	assert.Equal(t, domain.CourierRejected, status)
	assert.Nil(t, at)
}
