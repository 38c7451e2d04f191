package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseExpired(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)

	t.Run("nil expiry never expires", func(t *testing.T) {
		p := &Purchase{}
		assert.False(t, p.Expired(now))
	})

	t.Run("expiry today is still valid", func(t *testing.T) {
		exp := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		p := &Purchase{ExpiryDate: &exp}
		assert.False(t, p.Expired(now))
	})

	t.Run("expiry yesterday is expired", func(t *testing.T) {
		exp := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
		p := &Purchase{ExpiryDate: &exp}
		assert.True(t, p.Expired(now))
	})

	t.Run("now in another zone compares by UTC day", func(t *testing.T) {
		exp := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
		p := &Purchase{ExpiryDate: &exp}
		// 02:00 on the 15th in UTC+10 is still the 14th in UTC.
		zone := time.FixedZone("UTC+10", 10*3600)
		assert.False(t, p.Expired(time.Date(2026, 6, 15, 2, 0, 0, 0, zone)))
	})
}
