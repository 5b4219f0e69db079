package rosdep_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hvkleist/rosdep-arch-audit/internal/rosdep"
)

func loadDB(t *testing.T, doc string) rosdep.Database {
	t.Helper()
	var db rosdep.Database
	require.NoError(t, yaml.Unmarshal([]byte(doc), &db))
	return db
}

func TestMapping_Candidates(t *testing.T) {
	db := loadDB(t, `
flat:
  debian: [foo, bar]
versioned:
  ubuntu:
    focal: [baz]
    bionic: [qux, quux]
nulled:
  fedora:
null-version:
  ubuntu:
    focal:
empty-list:
  debian: []
`)

	tests := []struct {
		name string
		key  string
		os   string
		want map[string][]string
	}{
		{
			name: "flat list under wildcard version",
			key:  "flat",
			os:   "debian",
			want: map[string][]string{"*": {"foo", "bar"}},
		},
		{
			name: "version-keyed map",
			key:  "versioned",
			os:   "ubuntu",
			want: map[string][]string{"focal": {"baz"}, "bionic": {"qux", "quux"}},
		},
		{
			name: "null OS entry",
			key:  "nulled",
			os:   "fedora",
			want: nil,
		},
		{
			name: "null version entry dropped",
			key:  "null-version",
			os:   "ubuntu",
			want: nil,
		},
		{
			name: "empty list",
			key:  "empty-list",
			os:   "debian",
			want: nil,
		},
		{
			name: "absent OS",
			key:  "flat",
			os:   "ubuntu",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, db[tt.key].Candidates(tt.os))
		})
	}
}

func TestMapping_Flat(t *testing.T) {
	db := loadDB(t, `
lib:
  arch: [boost, boost-libs]
versioned:
  arch:
    rolling: [boost]
nulled:
  arch:
`)

	entries, ok := db["lib"].Flat("arch")
	require.True(t, ok)
	assert.Equal(t, []string{"boost", "boost-libs"}, entries)

	_, ok = db["versioned"].Flat("arch")
	assert.False(t, ok, "version-keyed entry is not a flat list")

	_, ok = db["nulled"].Flat("arch")
	assert.False(t, ok)

	_, ok = db["lib"].Flat("debian")
	assert.False(t, ok)
}

func TestMapping_OSNamesSorted(t *testing.T) {
	db := loadDB(t, `
key:
  ubuntu: [a]
  debian: [b]
  fedora: [c]
`)
	assert.Equal(t, []string{"debian", "fedora", "ubuntu"}, db["key"].OSNames())
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boost:\n  arch: [boost]\n"))
	}))
	defer srv.Close()

	db, err := rosdep.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, db, 1)

	entries, ok := db["boost"].Flat("arch")
	require.True(t, ok)
	assert.Equal(t, []string{"boost"}, entries)
}

func TestFetch_BadStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := rosdep.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetch_BadYAMLIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("key: [unclosed"))
	}))
	defer srv.Close()

	_, err := rosdep.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}
