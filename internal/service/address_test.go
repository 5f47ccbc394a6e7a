package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
)

func addressReq(userID, city string) *dto.AddressRequest {
	return &dto.AddressRequest{
		UserID:  userID,
		Address: "12 Elm Street",
		City:    city,
		Pincode: "560001",
		Phone:   "9999999999",
	}
}

func TestAddressLimitPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.addresses.Add(ctx, addressReq("u1", fmt.Sprintf("City %d", i)))
		require.NoError(t, err)
	}

	_, err := f.addresses.Add(ctx, addressReq("u1", "One Too Many"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// the limit is per user, not global
	_, err = f.addresses.Add(ctx, addressReq("u2", "Elsewhere"))
	require.NoError(t, err)

	list, err := f.addresses.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestAddressUpdateScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.addresses.Add(ctx, addressReq("u1", "Old Town"))
	require.NoError(t, err)

	// another user cannot touch it
	_, err = f.addresses.Update(ctx, "u2", created.ID, addressReq("u2", "Hijack"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := f.addresses.Update(ctx, "u1", created.ID, addressReq("u1", "New Town"))
	require.NoError(t, err)
	assert.Equal(t, "New Town", updated.City)
}

func TestAddressDeleteScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.addresses.Add(ctx, addressReq("u1", "Old Town"))
	require.NoError(t, err)

	err = f.addresses.Delete(ctx, "u2", created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, f.addresses.Delete(ctx, "u1", created.ID))

	err = f.addresses.Delete(ctx, "u1", created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// freeing a slot allows adding again
	_, err = f.addresses.Add(ctx, addressReq("u1", "Fresh Start"))
	require.NoError(t, err)
}
