package update

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/config"
	"github.com/nightconcept/capctl/internal/core/hasher"
	"github.com/nightconcept/capctl/internal/core/lockfile"
	"github.com/nightconcept/capctl/internal/core/source"
)

const (
	viewerV1 = `<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities">
  <file-type id="Viewer.Image" />
</capabilities>
`
	viewerV2 = `<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities">
  <file-type id="Viewer.Image" />
  <url-protocol id="viewer" />
</capabilities>
`
	viewerClashing = `<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities">
  <file-type id="Viewer.Image" />
  <url-protocol id="Editor.Text" />
</capabilities>
`
	editorDocument = `<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities">
  <file-type id="Editor.Text" />
</capabilities>
`
)

// documentServer serves mutable documents by path.
type documentServer struct {
	mu   sync.Mutex
	docs map[string]string
}

func (s *documentServer) set(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = body
}

func (s *documentServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.docs[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func lockDocument(t *testing.T, dir string, lf *lockfile.Lockfile, name, sourceURL, content string) {
	t.Helper()
	path := filepath.Join(dir, "capabilities", name+".xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	hash, err := hasher.CalculateSHA256([]byte(content))
	require.NoError(t, err)
	lf.AddOrUpdateApp(name, lockfile.AppEntry{Source: sourceURL, Path: "capabilities/" + name + ".xml", Hash: hash})
}

// setupUpdateTestEnvironment registers viewer and editor at their first
// versions, both served by the returned server.
func setupUpdateTestEnvironment(t *testing.T) (string, *documentServer, string) {
	t.Helper()
	docs := &documentServer{docs: map[string]string{"/viewer.xml": viewerV1, "/editor.xml": editorDocument}}
	server := httptest.NewServer(docs)
	t.Cleanup(server.Close)

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, config.ConfigFileName), []byte("[target]\nos = \"Windows\"\n"), 0644))
	lf := lockfile.New()
	lockDocument(t, tempDir, lf, "viewer", server.URL+"/viewer.xml", viewerV1)
	lockDocument(t, tempDir, lf, "editor", server.URL+"/editor.xml", editorDocument)
	require.NoError(t, lockfile.Save(tempDir, lf))
	return tempDir, docs, server.URL
}

func runUpdateCommand(t *testing.T, workDir string, args ...string) (string, error) {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	defer func() {
		require.NoError(t, os.Chdir(originalWd))
	}()

	var out bytes.Buffer
	app := &cli.App{
		Name:           "capctl-test-update",
		Commands:       []*cli.Command{NewUpdateCommand()},
		Writer:         &out,
		ErrWriter:      &out,
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	err = app.Run(append([]string{"capctl-test-update", "update"}, args...))
	return out.String(), err
}

func TestUpdateCommand_UpToDate(t *testing.T) {
	tempDir, _, _ := setupUpdateTestEnvironment(t)
	before, err := os.ReadFile(filepath.Join(tempDir, lockfile.LockfileName))
	require.NoError(t, err)

	out, err := runUpdateCommand(t, tempDir)
	require.NoError(t, err)
	assert.Contains(t, out, "All apps are already up-to-date.")

	after, err := os.ReadFile(filepath.Join(tempDir, lockfile.LockfileName))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateCommand_NewVersion(t *testing.T) {
	tempDir, docs, _ := setupUpdateTestEnvironment(t)
	docs.set("/viewer.xml", viewerV2)

	out, err := runUpdateCommand(t, tempDir, "viewer")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 'viewer'")

	content, err := os.ReadFile(filepath.Join(tempDir, "capabilities", "viewer.xml"))
	require.NoError(t, err)
	assert.Equal(t, viewerV2, string(content))

	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err)
	expected, err := hasher.CalculateSHA256([]byte(viewerV2))
	require.NoError(t, err)
	assert.Equal(t, expected, lf.Apps["viewer"].Hash)
}

func TestUpdateCommand_NewVersionConflicts(t *testing.T) {
	tempDir, docs, _ := setupUpdateTestEnvironment(t)
	docs.set("/viewer.xml", viewerClashing)

	out, err := runUpdateCommand(t, tempDir)
	require.Error(t, err)
	assert.Contains(t, out, "Could not update 'viewer'")
	assert.Contains(t, out, "capability:progid:Editor.Text")

	content, err := os.ReadFile(filepath.Join(tempDir, "capabilities", "viewer.xml"))
	require.NoError(t, err)
	assert.Equal(t, viewerV1, string(content), "a conflicting version is not stored")
}

func TestUpdateCommand_RestoresModifiedDocument(t *testing.T) {
	tempDir, _, _ := setupUpdateTestEnvironment(t)
	docPath := filepath.Join(tempDir, "capabilities", "editor.xml")
	require.NoError(t, os.WriteFile(docPath, []byte("<capabilities/>"), 0644))

	out, err := runUpdateCommand(t, tempDir, "editor")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 'editor'")

	content, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, editorDocument, string(content))
}

func TestUpdateCommand_Pin(t *testing.T) {
	const sha = "89abcdef0123456789abcdef0123456789abcdef"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/commits":
			_, _ = w.Write([]byte(`[{"sha":"` + sha + `"}]`))
		case "/owner/repo/" + sha + "/viewer.xml":
			_, _ = w.Write([]byte(viewerV1))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source.GithubAPIBaseURLMutex.Lock()
	source.GithubRawBaseURLMutex.Lock()
	originalAPI, originalRaw := source.GithubAPIBaseURL, source.GithubRawBaseURL
	source.GithubAPIBaseURL, source.GithubRawBaseURL = server.URL, server.URL
	source.GithubRawBaseURLMutex.Unlock()
	source.GithubAPIBaseURLMutex.Unlock()
	defer func() {
		source.GithubAPIBaseURLMutex.Lock()
		source.GithubRawBaseURLMutex.Lock()
		source.GithubAPIBaseURL, source.GithubRawBaseURL = originalAPI, originalRaw
		source.GithubRawBaseURLMutex.Unlock()
		source.GithubAPIBaseURLMutex.Unlock()
	}()

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, config.ConfigFileName), []byte("[target]\nos = \"Windows\"\n"), 0644))
	lf := lockfile.New()
	lockDocument(t, tempDir, lf, "viewer", "github:owner/repo/viewer.xml@main", viewerV1)
	require.NoError(t, lockfile.Save(tempDir, lf))

	out, err := runUpdateCommand(t, tempDir, "--pin")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 'viewer'", "a new source is recorded even when the content is unchanged")

	updated, err := lockfile.Load(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "github:owner/repo/viewer.xml@"+sha, updated.Apps["viewer"].Source)
}

func TestUpdateCommand_FetchFails(t *testing.T) {
	tempDir, docs, _ := setupUpdateTestEnvironment(t)
	docs.mu.Lock()
	delete(docs.docs, "/editor.xml")
	docs.mu.Unlock()

	out, err := runUpdateCommand(t, tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 apps could not be updated: [editor]")
	assert.Contains(t, out, "Failed to fetch 'editor'")
}
