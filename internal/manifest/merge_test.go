package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeURLs(t *testing.T) {
	tests := []struct {
		name     string
		target   map[string]any
		incoming map[string]any
		want     map[string]any
	}{
		{
			name: "disjoint keys union",
			target: map[string]any{
				"sha256:aaa": "https://example.com/a",
			},
			incoming: map[string]any{
				"sha256:bbb": "https://example.com/b",
			},
			want: map[string]any{
				"sha256:aaa": "https://example.com/a",
				"sha256:bbb": "https://example.com/b",
			},
		},
		{
			name: "incoming wins on collision",
			target: map[string]any{
				"sha256:aaa": "https://old.example.com/a",
			},
			incoming: map[string]any{
				"sha256:aaa": "https://new.example.com/a",
			},
			want: map[string]any{
				"sha256:aaa": "https://new.example.com/a",
			},
		},
		{
			name: "composite entry replaced wholesale not deep merged",
			target: map[string]any{
				"sha256:aaa": map[string]any{"url": "https://a", "etag": "x"},
			},
			incoming: map[string]any{
				"sha256:aaa": map[string]any{"url": "https://b"},
			},
			want: map[string]any{
				"sha256:aaa": map[string]any{"url": "https://b"},
			},
		},
		{
			name:     "empty incoming is a no-op",
			target:   map[string]any{"sha256:aaa": "https://a"},
			incoming: map[string]any{},
			want:     map[string]any{"sha256:aaa": "https://a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			MergeURLs(tt.target, tt.incoming)
			assert.Equal(t, tt.want, tt.target)
		})
	}
}

func TestMergeSources(t *testing.T) {
	tests := []struct {
		name     string
		target   map[string]any
		incoming map[string]any
		want     map[string]any
	}{
		{
			name:   "new kind copied wholesale",
			target: map[string]any{},
			incoming: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": map[string]any{}},
				},
			},
			want: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": map[string]any{}},
				},
			},
		},
		{
			name: "disjoint items union",
			target: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "one"},
				},
			},
			incoming: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"b": "two"},
				},
			},
			want: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "one", "b": "two"},
				},
			},
		},
		{
			name: "overlapping items incoming wins",
			target: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "old"},
				},
			},
			incoming: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "new"},
				},
			},
			want: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "new"},
				},
			},
		},
		{
			name: "options merged per sub-key",
			target: map[string]any{
				"org.osbuild.ostree": map[string]any{
					"options": map[string]any{"remote": "old", "keep": "yes"},
				},
			},
			incoming: map[string]any{
				"org.osbuild.ostree": map[string]any{
					"options": map[string]any{"remote": "new"},
				},
			},
			want: map[string]any{
				"org.osbuild.ostree": map[string]any{
					"options": map[string]any{"remote": "new", "keep": "yes"},
					"items":   map[string]any{},
				},
			},
		},
		{
			name: "descriptor never replaced so both sides survive",
			target: map[string]any{
				"org.osbuild.curl": map[string]any{
					"options": map[string]any{"insecure": false},
					"items":   map[string]any{"a": "one"},
				},
			},
			incoming: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"b": "two"},
				},
			},
			want: map[string]any{
				"org.osbuild.curl": map[string]any{
					"options": map[string]any{"insecure": false},
					"items":   map[string]any{"a": "one", "b": "two"},
				},
			},
		},
		{
			name: "missing incoming items treated as empty",
			target: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "one"},
				},
			},
			incoming: map[string]any{
				"org.osbuild.curl": map[string]any{},
			},
			want: map[string]any{
				"org.osbuild.curl": map[string]any{
					"items": map[string]any{"a": "one"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MergeSources(tt.target, tt.incoming)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.target)
		})
	}
}

func TestMergeSources_MalformedDescriptor(t *testing.T) {
	err := MergeSources(map[string]any{}, map[string]any{
		"org.osbuild.curl": "not a mapping",
	})
	assert.ErrorIs(t, err, ErrMalformedImport)
}

func TestMergeSources_CopyIsDeep(t *testing.T) {
	incoming := map[string]any{
		"org.osbuild.curl": map[string]any{
			"items": map[string]any{"a": map[string]any{"url": "https://a"}},
		},
	}
	target := map[string]any{}
	require.NoError(t, MergeSources(target, incoming))

	// Mutating the merged copy must not reach back into the source tree.
	desc := target["org.osbuild.curl"].(map[string]any)
	desc["items"].(map[string]any)["a"].(map[string]any)["url"] = "https://changed"

	original := incoming["org.osbuild.curl"].(map[string]any)["items"].(map[string]any)["a"].(map[string]any)
	assert.Equal(t, "https://a", original["url"])
}

func TestEnter(t *testing.T) {
	t.Run("returns existing value", func(t *testing.T) {
		m := map[string]any{"key": "present"}
		got := Enter(m, "key", "default")
		assert.Equal(t, "present", got)
		assert.Equal(t, map[string]any{"key": "present"}, m)
	})

	t.Run("inserts and returns default when absent", func(t *testing.T) {
		m := map[string]any{}
		def := map[string]any{}
		got := Enter(m, "key", def)
		require.IsType(t, map[string]any{}, got)
		assert.Equal(t, map[string]any{"key": def}, m)

		// The inserted default is the live value, not a copy.
		got.(map[string]any)["inner"] = 1
		assert.Equal(t, 1, m["key"].(map[string]any)["inner"])
	})

	t.Run("does not disturb other keys", func(t *testing.T) {
		m := map[string]any{"other": 42}
		Enter(m, "key", "v")
		assert.Equal(t, 42, m["other"])
	})
}
