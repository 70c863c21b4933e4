package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		first string
		last  string
	}{
		{"yassine.benali@example.ma", "Yassine", "Benali"},
		{"amina_el-fassi@example.com", "Amina", "Fassi"},
		{"contact@example.com", "Contact", "Newsletter"},
		{"a+promo@example.com", "A", "Promo"},
		{"@example.com", "Abonné", "Newsletter"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			first, last := DeriveNameFromEmail(tt.email)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
