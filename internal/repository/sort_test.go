package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "", want: Asc},
		{in: "asc", want: Asc},
		{in: "DESC", want: Desc},
		{in: "up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidSort))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortAnd(t *testing.T) {
	s := By(Desc, "created_at").And(By(Asc, "id"))

	assert.Equal(t, []Order{
		{Property: "created_at", Direction: Desc},
		{Property: "id", Direction: Asc},
	}, s.Orders)
	assert.Empty(t, Unsorted().Orders)
}
