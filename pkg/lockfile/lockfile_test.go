package lockfile_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
	"github.com/matzehuels/lockgraph/pkg/observability"
)

type fakeParser struct {
	name, file string
	err        error
}

func (p fakeParser) Name() string     { return p.name }
func (p fakeParser) Lockfile() string { return p.file }

func (p fakeParser) Parse(lockfile.Loader, lockfile.Options) (*lockfile.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	b := graph.NewBuilder()
	root := b.InsertPackage(graph.Package{Name: descriptor.MustParseName("app")})
	if err := b.MarkRoot(root); err != nil {
		return nil, err
	}
	g, err := b.Freeze()
	if err != nil {
		return nil, err
	}
	return &lockfile.Result{Graph: g, Format: p.name, Version: "1"}, nil
}

type recordingParseHooks struct {
	observability.NoopParseHooks
	started   []string
	completed []string
	errs      []error
}

func (h *recordingParseHooks) OnParseStart(_ context.Context, format, _ string) {
	h.started = append(h.started, format)
}

func (h *recordingParseHooks) OnParseComplete(_ context.Context, format string, _, _ int, _ time.Duration, err error) {
	h.completed = append(h.completed, format)
	h.errs = append(h.errs, err)
}

func TestDetect(t *testing.T) {
	npm := fakeParser{name: "npm", file: "package-lock.json"}
	berry := fakeParser{name: "yarn-berry", file: "yarn.lock"}

	tests := []struct {
		name    string
		files   lockfile.MapLoader
		want    string
		wantErr bool
	}{
		{"npm", lockfile.MapLoader{"package-lock.json": "{}"}, "npm", false},
		{"berry", lockfile.MapLoader{"yarn.lock": ""}, "yarn-berry", false},
		{"first wins", lockfile.MapLoader{"package-lock.json": "{}", "yarn.lock": ""}, "npm", false},
		{"none", lockfile.MapLoader{"package.json": "{}"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := lockfile.Detect(tt.files, npm, berry)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedInput), "error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestParse_Hooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingParseHooks{}
	observability.SetParseHooks(hooks)

	loader := lockfile.MapLoader{"package-lock.json": "{}"}
	res, err := lockfile.Parse(context.Background(), loader, lockfile.Options{}, fakeParser{name: "npm", file: "package-lock.json"})
	require.NoError(t, err)
	assert.Equal(t, "npm", res.Format)
	assert.Equal(t, 1, res.Graph.Len())

	failing := fakeParser{name: "npm", file: "package-lock.json", err: errors.New(errors.ErrCodeInvalidLockfile, "bad")}
	_, err = lockfile.Parse(context.Background(), loader, lockfile.Options{}, failing)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLockfile))

	assert.Equal(t, []string{"npm", "npm"}, hooks.started)
	assert.Equal(t, []string{"npm", "npm"}, hooks.completed)
	assert.NoError(t, hooks.errs[0])
	assert.Error(t, hooks.errs[1])
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packages", "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packages", "a", "package.json"), []byte(`{"name":"a"}`), 0o644))
	loader := lockfile.DirLoader(dir)

	data, err := loader.Load("packages/a/package.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a"}`, string(data))

	_, err = loader.Load("missing.json")
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
	assert.True(t, stderrors.Is(err, fs.ErrNotExist), "cause must be preserved: %v", err)

	_, err = loader.Load("../outside")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestLoadOptional(t *testing.T) {
	loader := lockfile.MapLoader{"a": "x"}

	data, ok, err := lockfile.LoadOptional(loader, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", string(data))

	data, ok, err = lockfile.LoadOptional(loader, "b")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestRelations_Edges(t *testing.T) {
	r := lockfile.Relations{
		Dependencies:         map[string]string{"b": "^1", "a": "^2", "opt": "^3"},
		DevDependencies:      map[string]string{"jest": "^29"},
		OptionalDependencies: map[string]string{"opt": "^3"},
		PeerDependencies:     map[string]string{"react": "^18", "vue": "^3", "svelte": "^4"},
		PeerMeta:             map[string]lockfile.PeerMeta{"vue": {Optional: true}},
		OptionalPeers:        map[string]bool{"svelte": true},
	}

	want := []lockfile.DeclaredEdge{
		{Name: "a", Specifier: "^2", Kind: graph.Dependency},
		{Name: "b", Specifier: "^1", Kind: graph.Dependency},
		{Name: "jest", Specifier: "^29", Kind: graph.DevDependency},
		{Name: "react", Specifier: "^18", Kind: graph.PeerDependency},
		{Name: "svelte", Specifier: "^4", Kind: graph.OptionalPeerDependency},
		{Name: "vue", Specifier: "^3", Kind: graph.OptionalPeerDependency},
		{Name: "opt", Specifier: "^3", Kind: graph.OptionalDependency},
	}
	assert.Equal(t, want, r.Edges())
}

func TestParseManifest(t *testing.T) {
	m, err := lockfile.ParseManifest("package.json", []byte(`{
		"name": "app",
		"version": "1.0.0",
		"dependencies": {"lodash": "^4.17.21"},
		"resolutions": {"lodash": "4.17.21"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name)
	assert.Equal(t, "^4.17.21", m.Dependencies["lodash"])
	assert.Equal(t, "4.17.21", m.Resolutions["lodash"])

	_, err = lockfile.ParseManifest("package.json", []byte(`{`))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLockfile))
}
