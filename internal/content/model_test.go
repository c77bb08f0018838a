package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMedicineAvailable(t *testing.T) {
	assert.True(t, Medicine{Quantity: 10}.Available())
	assert.False(t, Medicine{Quantity: 0}.Available())
}

func TestMedicineExpired(t *testing.T) {
	now := time.Date(2030, 6, 15, 13, 45, 0, 0, time.UTC)

	past := Medicine{ExpiryDate: time.Date(2030, 6, 14, 0, 0, 0, 0, time.UTC)}
	assert.True(t, past.Expired(now))

	future := Medicine{ExpiryDate: time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC)}
	assert.False(t, future.Expired(now))
}

func TestMedicineExpiresEndOfDay(t *testing.T) {
	// A batch expiring today is still dispensable until midnight.
	now := time.Date(2030, 6, 15, 23, 59, 0, 0, time.UTC)
	sameDay := Medicine{ExpiryDate: time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.False(t, sameDay.Expired(now))
}
