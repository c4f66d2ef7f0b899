package identity_test

import (
	"testing"

	"github.com/professorevery/campusfeed/identity"
	"github.com/stretchr/testify/assert"
)

func TestIsEducationalEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{
			name:     "american university",
			email:    "student@mit.edu",
			expected: true,
		},
		{
			name:     "korean university",
			email:    "student@snu.ac.kr",
			expected: true,
		},
		{
			name:     "korean edu domain",
			email:    "student@school.edu.kr",
			expected: true,
		},
		{
			name:     "commercial domain",
			email:    "person@gmail.com",
			expected: false,
		},
		{
			name:     "edu in the middle",
			email:    "person@edu.example.com",
			expected: false,
		},
		{
			name:     "empty",
			email:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := identity.IsEducationalEmail(tt.email)

			assert.Equal(t, tt.expected, result)
		})
	}
}
