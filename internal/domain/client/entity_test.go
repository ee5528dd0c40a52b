//go:build unit

package client_test

import (
	"testing"
	"time"

	"salon-scheduler/internal/domain/client"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
		errIs error
	}{
		{name: "valid", input: "ana@example.com", want: "ana@example.com"},
		{name: "normalized", input: "  Ana.Souza@Example.COM ", want: "ana.souza@example.com"},
		{name: "empty", input: "", errIs: client.ErrInvalidEmail},
		{name: "missing at", input: "anaexample.com", errIs: client.ErrInvalidEmail},
		{name: "missing domain", input: "ana@", errIs: client.ErrInvalidEmail},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := client.NewEmail(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Value())
		})
	}
}

func TestNewClient(t *testing.T) {
	email, err := client.NewEmail("ana@example.com")
	require.NoError(t, err)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	businessID := uuid.New()

	t.Run("consent is recorded at creation", func(t *testing.T) {
		c, err := client.NewClient(businessID, " Ana Souza ", email, " 11 98888-7777 ", now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, c.ID())
		assert.Equal(t, businessID, c.BusinessID())
		assert.Equal(t, "Ana Souza", c.Name())
		assert.Equal(t, "11 98888-7777", c.Phone())
		assert.True(t, c.Consent())
		require.NotNil(t, c.ConsentAt())
		assert.Equal(t, now, *c.ConsentAt())
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := client.NewClient(businessID, "   ", email, "", now)
		assert.ErrorIs(t, err, client.ErrInvalidName)
	})
}
