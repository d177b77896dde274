package storage_test

import (
	"testing"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func tiers(t *testing.T) map[string]storage.Tier {
	t.Helper()
	return map[string]storage.Tier{
		"memory": storage.NewMemoryTier(),
		"file":   storage.NewFileTier(afero.NewMemMapFs(), "/data/local_storage.json"),
		"sealed": storage.NewFileTier(afero.NewMemMapFs(), "/data/local_storage.json", storage.WithPassphrase("s3cret")),
	}
}

func TestTierContract(t *testing.T) {
	for name, tier := range tiers(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := tier.Get("accessToken")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, tier.Set("accessToken", "a.b.c"))
			require.NoError(t, tier.Set("userId", "42"))

			v, ok, err := tier.Get("accessToken")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "a.b.c", v)

			require.NoError(t, tier.Set("accessToken", "d.e.f"))
			v, _, _ = tier.Get("accessToken")
			require.Equal(t, "d.e.f", v)

			require.NoError(t, tier.Remove("accessToken"))
			require.NoError(t, tier.Remove("accessToken"))
			_, ok, _ = tier.Get("accessToken")
			require.False(t, ok)

			require.NoError(t, tier.Clear())
			_, ok, _ = tier.Get("userId")
			require.False(t, ok)
		})
	}
}

func TestFileTierIsSharedThroughTheFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := storage.NewFileTier(fs, "/data/local_storage.json")
	reader := storage.NewFileTier(fs, "/data/local_storage.json")

	require.NoError(t, writer.Set("rememberMe", "true"))

	v, ok, err := reader.Get("rememberMe")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestSealedFileTier(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/data/local_storage.json"

	sealed := storage.NewFileTier(fs, path, storage.WithPassphrase("s3cret"))
	require.NoError(t, sealed.Set("refreshToken", "rt-123"))

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "rt-123")

	reopened := storage.NewFileTier(fs, path, storage.WithPassphrase("s3cret"))
	v, ok, err := reopened.Get("refreshToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "rt-123", v)

	wrong := storage.NewFileTier(fs, path, storage.WithPassphrase("guess"))
	_, _, err = wrong.Get("refreshToken")
	require.True(t, cxerrors.Is(err, cxerrors.ErrSealedStore))

	plain := storage.NewFileTier(fs, path)
	_, _, err = plain.Get("refreshToken")
	require.Error(t, err)
}

func TestFileTierUnwritable(t *testing.T) {
	base := afero.NewMemMapFs()
	tier := storage.NewFileTier(afero.NewReadOnlyFs(base), "/data/local_storage.json")

	_, ok, err := tier.Get("accessToken")
	require.NoError(t, err, "a missing file reads as empty")
	require.False(t, ok)

	err = tier.Set("accessToken", "a.b.c")
	require.ErrorIs(t, err, cxerrors.ErrStorageUnavailable)
	require.ErrorIs(t, tier.Clear(), cxerrors.ErrStorageUnavailable)
}

func TestMemoryTierLen(t *testing.T) {
	m := storage.NewMemoryTier()
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.Equal(t, 2, m.Len())
	require.NoError(t, m.Clear())
	require.Equal(t, 0, m.Len())
}
