package synccmd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/versync/pkg/synccmd"
)

func TestTargetKey(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
		want string
	}{
		"nested cargo manifest": {
			path: "vec-utils/Cargo.toml",
			want: "vec_utils_cargo_toml",
		},
		"nested pyproject manifest": {
			path: "vec-utils-py/pyproject.toml",
			want: "vec_utils_py_pyproject_toml",
		},
		"top level manifest": {
			path: "Cargo.toml",
			want: "cargo_toml",
		},
		"windows separators": {
			path: `vec-utils\Cargo.toml`,
			want: "vec_utils_cargo_toml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			target := synccmd.Target{Path: tc.path}

			assert.Equal(t, tc.want, target.Key())
		})
	}
}

func TestDefaultTargets(t *testing.T) {
	t.Parallel()

	targets := synccmd.DefaultTargets()

	require.Len(t, targets, 3)
	assert.Equal(t, "vec-utils/Cargo.toml", targets[0].Path)
	assert.Equal(t, "vec-utils-py/Cargo.toml", targets[1].Path)
	assert.Equal(t, "vec-utils-py/pyproject.toml", targets[2].Path)
}
