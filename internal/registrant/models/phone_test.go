package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rezo/internal/registrant/models"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"moroccan national zero", "0612345678", "+212612345678"},
		{"moroccan country code without plus", "212612345678", "+212612345678"},
		{"moroccan nine digits", "612345678", "+212612345678"},
		{"already canonical", "+212612345678", "+212612345678"},
		{"moroccan with spaces", "06 12 34 56 78", "+212612345678"},
		{"french passes through", "+33612345678", "+33612345678"},
		{"international passes through", "+4915123456789", "+4915123456789"},
		{"sentinel untouched", models.SentinelPhone, models.SentinelPhone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.NormalizePhone(tc.input))
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, models.ValidPhone("+212612345678"))
	assert.True(t, models.ValidPhone("06 12 34 56 78"))
	assert.False(t, models.ValidPhone("abc"))
	assert.False(t, models.ValidPhone("12345"))
}

func TestValidPhoneForCountry(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"moroccan mobile", "+212612345678", true},
		{"moroccan national", "0612345678", true},
		{"moroccan fixed prefix", "0512345678", true},
		{"moroccan too short", "+21261234", false},
		{"french mobile", "+33612345678", true},
		{"other international", "+4915123456789", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.ValidPhoneForCountry(tc.input))
		})
	}
}
