package auth

import (
	"context"
	"testing"
	"time"

	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	p := &Principal{Subject: "u-1", Email: "a@b.c", Role: models.RoleAdmin}
	ctx := NewContext(context.Background(), p)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, p, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(NewContext(context.Background(), nil))
	assert.False(t, ok)
}

func TestPrincipalCan(t *testing.T) {
	admin := &Principal{Role: models.RoleAdmin}
	user := &Principal{Role: models.RoleUser}
	var none *Principal

	assert.True(t, admin.Can(models.CapUsersWrite))
	assert.False(t, user.Can(models.CapUsersWrite))
	assert.True(t, user.Can(models.CapListingsRead))
	assert.False(t, none.Can(models.CapListingsRead))
}

func TestPrincipalTTL(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	p := &Principal{ExpiresAt: now.Add(time.Hour)}

	assert.Equal(t, time.Hour, p.TTL(now))
	assert.Equal(t, time.Duration(0), p.TTL(now.Add(time.Hour)))
	assert.Equal(t, time.Duration(0), p.TTL(now.Add(2*time.Hour)))
}
