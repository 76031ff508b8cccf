package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/domain"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	hash := "$2a$10$fakefakefakefakefakefake"
	user := &domain.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: &hash,
		Role:         domain.RoleCustomer,
	}

	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	require.NotNil(t, byEmail.PasswordHash)
	assert.Equal(t, hash, *byEmail.PasswordHash)
	assert.Equal(t, domain.RoleCustomer, byEmail.Role)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.User{Email: "bob@example.com", Name: "Bob", Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Email: "bob@example.com", Name: "Bob II", Role: domain.RoleCustomer})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserRepositoryNilPasswordHash(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.User{Email: "sso@example.com", Name: "SSO Only", Role: domain.RoleAdmin})
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
