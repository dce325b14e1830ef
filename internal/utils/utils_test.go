package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-warehouse-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"Admin", "Sales"}, utils.ToStringSlice([]any{"Admin", 3, "", "Sales", nil}))
	require.Empty(t, utils.ToStringSlice(nil))
}

func TestIntersects(t *testing.T) {
	require.True(t, utils.Intersects([]string{"Admin", "Sales"}, []string{"Sales"}))
	require.False(t, utils.Intersects([]string{"Warehouse"}, []string{"Admin"}))
	require.False(t, utils.Intersects(nil, []string{"Admin"}))
}

func TestClone(t *testing.T) {
	require.NotNil(t, utils.Clone(nil))
	src := []string{"Admin"}
	c := utils.Clone(src)
	c[0] = "Sales"
	require.Equal(t, "Admin", src[0])
}
