package users_test

import (
	"testing"

	"github.com/jrsteele09/go-warehouse-client/users"
	fakeuserrepo "github.com/jrsteele09/go-warehouse-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestProfile_Roles(t *testing.T) {
	p := &users.Profile{Account: "sales", RoleName: users.RoleSales}
	require.Equal(t, []string{users.RoleSales}, p.Roles())
	require.Equal(t, "sales", p.DisplayName())

	var nilProfile *users.Profile
	require.Empty(t, nilProfile.Roles())
	require.Equal(t, "", nilProfile.DisplayName())

	require.Equal(t, "Jane", (&users.Profile{Name: "Jane"}).DisplayName())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("s3cret")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("s3cret", hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
}

func TestFakeUserRepo_SeedDemoUsers(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, fakeuserrepo.SeedDemoUsers(repo))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 3)

	wh, err := repo.GetByAccount("warehouse")
	require.NoError(t, err)
	require.Equal(t, users.RoleWarehouse, wh.RoleName)
	require.True(t, wh.CheckPassword("warehouse"))

	byID, err := repo.GetByID(wh.UserID)
	require.NoError(t, err)
	require.Equal(t, "warehouse", byID.Account)

	require.NoError(t, repo.SetBlocked("warehouse", true))
	wh, _ = repo.GetByAccount("warehouse")
	require.True(t, wh.Blocked)

	_, err = repo.GetByAccount("nobody")
	require.Error(t, err)

	// Re-seeding keeps ids stable
	require.NoError(t, fakeuserrepo.SeedDemoUsers(repo))
	list, _ = repo.List()
	require.Len(t, list, 3)
}
