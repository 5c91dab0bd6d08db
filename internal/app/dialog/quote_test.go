package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePremium(t *testing.T) {
	cases := []struct {
		name string
		age  int
		want int
	}{
		{"under 25", 24, 150},
		{"boundary 25", 25, 125},
		{"over 25", 30, 125},
		{"newborn", 0, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := CalculatePremium(tc.age, "NY", 50000)
			assert.Equal(t, "success", q.Status)
			assert.Equal(t, tc.want, q.QuoteAmount)
			assert.Equal(t, "INR", q.Currency)
			assert.Equal(t, tc.age, q.UserData.Age)
			assert.Equal(t, "NY", q.UserData.Location)
			assert.Equal(t, 50000, q.UserData.Income)
		})
	}
}
