package repodata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

func TestParseMatchSpec(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		m, err := ParseMatchSpec("NumPy")
		require.NoError(t, err)
		require.Equal(t, "numpy", m.Name)
		require.Empty(t, m.constraints)
	})

	t.Run("name version build", func(t *testing.T) {
		m, err := ParseMatchSpec("numpy=1.20.3=py38h550f1ac_0")
		require.NoError(t, err)
		require.Equal(t, "numpy", m.Name)
		require.Equal(t, "py38h550f1ac_0", m.build)
	})

	t.Run("comma joined constraints", func(t *testing.T) {
		m, err := ParseMatchSpec("numpy>=1.20,<2")
		require.NoError(t, err)
		require.Len(t, m.constraints, 2)
	})

	t.Run("spaces are ignored", func(t *testing.T) {
		m, err := ParseMatchSpec("numpy >= 1.20")
		require.NoError(t, err)
		require.Equal(t, "numpy", m.Name)
	})

	t.Run("rejects empty and nameless specs", func(t *testing.T) {
		for _, spec := range []string{"", "   ", ">=1.0", "=1.0"} {
			_, err := ParseMatchSpec(spec)
			require.Error(t, err, "spec %q", spec)
			require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
		}
	})
}

func TestMatchSpecMatches(t *testing.T) {
	rec := func(name, version, build string) PackageRecord {
		return PackageRecord{Name: name, Version: version, Build: build}
	}

	cases := []struct {
		spec   string
		record PackageRecord
		want   bool
	}{
		{"numpy", rec("numpy", "1.20.3", "py38_0"), true},
		{"numpy", rec("scipy", "1.20.3", "py38_0"), false},
		{"numpy>=1.20", rec("numpy", "1.20.0", "py38_0"), true},
		{"numpy>=1.20", rec("numpy", "1.19.5", "py38_0"), false},
		{"numpy>=1.20,<2", rec("numpy", "2.0.0", "py312_0"), false},
		{"numpy=1.20", rec("numpy", "1.20.3", "py38_0"), true},
		{"numpy=1.20.*", rec("numpy", "1.20.3", "py38_0"), true},
		{"numpy=1.20", rec("numpy", "1.200.0", "py38_0"), false},
		{"numpy==1.20", rec("numpy", "1.20.3", "py38_0"), false},
		{"numpy==1.20", rec("numpy", "1.20.0", "py38_0"), true},
		{"numpy!=1.20", rec("numpy", "1.21.0", "py38_0"), true},
		{"numpy=1.20.3=py38*", rec("numpy", "1.20.3", "py38h550f1ac_0"), true},
		{"numpy=1.20.3=py39*", rec("numpy", "1.20.3", "py38h550f1ac_0"), false},
	}

	for _, tc := range cases {
		t.Run(tc.spec+" "+tc.record.Version, func(t *testing.T) {
			m, err := ParseMatchSpec(tc.spec)
			require.NoError(t, err)
			require.Equal(t, tc.want, m.Matches(tc.record))
		})
	}
}
