package reagent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogShape(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{"CTNI", "CK-MB", "Myo", "BNP"}, c.Names())

	for _, p := range c.Projects {
		require.NotEmpty(t, p.Reagents, p.Name)
		assert.True(t, p.Reagents[0].GeneratesLong, "%s first reagent should carry the long code", p.Name)
		for _, r := range p.Reagents[1:] {
			assert.False(t, r.GeneratesLong, r.Name)
			assert.True(t, r.GeneratesShort, r.Name)
		}
	}
}

func TestDefaultCatalogIsFreshCopy(t *testing.T) {
	a := DefaultCatalog()
	a.Projects[0].Name = "changed"
	assert.Equal(t, "CTNI", DefaultCatalog().Projects[0].Name)
}

func TestCatalogAt(t *testing.T) {
	c := DefaultCatalog()

	p, ok := c.At(1)
	require.True(t, ok)
	assert.Equal(t, "CK-MB", p.Name)

	_, ok = c.At(-1)
	assert.False(t, ok)
	_, ok = c.At(len(c.Projects))
	assert.False(t, ok)
}

func TestLoadCatalogWritesDefaultWhenMissing(t *testing.T) {
	for _, name := range []string{"projects.json", "projects.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "assets", name)

			c, err := LoadCatalog(path)
			require.NoError(t, err)
			assert.Equal(t, DefaultCatalog(), c)

			_, err = os.Stat(path)
			require.NoError(t, err)

			reloaded, err := LoadCatalog(path)
			require.NoError(t, err)
			assert.Equal(t, c, reloaded)
		})
	}
}

func TestLoadCatalogJSONDefaultsGenerateFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	data := `{"projects":[{"name":"X","control_no_suffix":"UN24","control_no_default_number":"1",
"expiry_format":"00DDMMYYYY","reagents":[{"name":"X1","short_prefix":"H","long_prefix":"G",
"project_bits":"1","long_trailing":"T"},{"name":"X2","short_prefix":"J","long_prefix":"G",
"generates_long":false,"project_bits":"1","long_trailing":""}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Projects, 1)

	p := c.Projects[0]
	assert.Equal(t, ExpiryZeroPadded, p.ExpiryFormat)
	assert.True(t, p.Reagents[0].GeneratesLong)
	assert.True(t, p.Reagents[0].GeneratesShort)
	assert.False(t, p.Reagents[1].GeneratesLong)
	assert.True(t, p.Reagents[1].GeneratesShort)
}

func TestLoadCatalogTOMLDefaultsGenerateFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.toml")
	data := `
[[projects]]
name = "X"
control_no_suffix = "UN24"
control_no_default_number = "1"
expiry_format = "DDMMYYYY"

  [[projects.reagents]]
  name = "X1"
  short_prefix = "H"
  long_prefix = "G"
  project_bits = "1"
  long_trailing = "T"

  [[projects.reagents]]
  name = "X2"
  short_prefix = "J"
  long_prefix = "G"
  generates_long = false
  project_bits = "1"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	p, ok := c.Find("x")
	require.True(t, ok)
	require.Len(t, p.Reagents, 2)
	assert.True(t, p.Reagents[0].GeneratesLong)
	assert.False(t, p.Reagents[1].GeneratesLong)
	assert.True(t, p.Reagents[1].GeneratesShort)
}

func TestLoadCatalogBrokenFileKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c, err := LoadCatalog(path)
	assert.ErrorIs(t, err, ErrCatalogParse)
	assert.Equal(t, DefaultCatalog(), c)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data))
}

func TestLoadCatalogEmptyPath(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Projects, 4)
}
