package document //nolint:testpackage // tests unexported state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/bumper/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("should expose every requirement and keep opaque lines verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "requirements.txt",
			"# base dependencies\n"+
				"alpha==1.0.0\n"+
				"\n"+
				"beta>=0.9.0  # keep in sync with service-b\n"+
				"-e ./vendored/pkg\n")

		// when
		set, err := Read(path)

		// then
		require.NoError(t, err)
		specs := set.Flattened()
		require.Len(t, specs, 2)
		assert.Equal(t, "alpha", specs[0].Name)
		assert.Equal(t, "beta", specs[1].Name)

		content, ok := set.Content(path)
		require.True(t, ok)
		assert.Contains(t, content, "# base dependencies\n")
		assert.Contains(t, content, "-e ./vendored/pkg\n")
	})

	t.Run("should follow recursive includes relative to the including file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		sub := filepath.Join(dir, "deps")
		require.NoError(t, os.Mkdir(sub, 0o755))
		writeFile(t, sub, "common.txt", "gamma==3.0.0\n")
		root := writeFile(t, dir, "requirements.txt",
			"-r deps/common.txt\n"+
				"alpha==1.0.0\n")

		// when
		set, err := Read(root)

		// then
		require.NoError(t, err)
		specs := set.Flattened()
		require.Len(t, specs, 2)
		// parent lines come before the included file's
		assert.Equal(t, "alpha", specs[0].Name)
		assert.Equal(t, "gamma", specs[1].Name)
		assert.Equal(t, filepath.Join(sub, "common.txt"), specs[1].Document)
	})

	t.Run("should break include cycles instead of looping", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "-r b.txt\nalpha==1.0.0\n")
		writeFile(t, dir, "b.txt", "-r a.txt\nbeta==2.0.0\n")

		// when
		set, err := Read(filepath.Join(dir, "a.txt"))

		// then
		require.NoError(t, err)
		assert.Len(t, set.Flattened(), 2)
	})

	t.Run("should fail on a missing included file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		root := writeFile(t, dir, "requirements.txt", "-r nowhere.txt\n")

		// when
		_, err := Read(root)

		// then
		require.Error(t, err)
		var ioErr *domain.DocumentIOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Op)
	})
}

func TestSet_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("should reproduce an untouched document byte for byte", func(t *testing.T) {
		t.Parallel()

		// given
		original := "# header\n" +
			"alpha==1.0.0\n" +
			"\n" +
			"  beta >= 0.9  # spaced oddly\n" +
			"not a requirement !!\n"
		dir := t.TempDir()
		path := writeFile(t, dir, "requirements.txt", original)

		// when
		set, err := Read(path)

		// then
		require.NoError(t, err)
		content, ok := set.Content(path)
		require.True(t, ok)
		assert.Equal(t, original, content)
	})

	t.Run("should preserve a missing trailing newline", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "requirements.txt", "alpha==1.0.0")

		// when
		set, err := Read(path)

		// then
		require.NoError(t, err)
		content, ok := set.Content(path)
		require.True(t, ok)
		assert.Equal(t, "alpha==1.0.0", content)
	})
}

func TestSet_Rewrite(t *testing.T) {
	t.Parallel()

	t.Run("should replace only the matched line in the declaring document", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "requirements.txt",
			"alpha==1.0.0\nbeta==2.0.0\n")
		set, err := Read(path)
		require.NoError(t, err)
		spec := set.Find("alpha")
		require.NotNil(t, spec)

		// when
		set.Rewrite(spec, "alpha==1.1.0")

		// then
		content, ok := set.Content(path)
		require.True(t, ok)
		assert.Equal(t, "alpha==1.1.0\nbeta==2.0.0\n", content)

		updated := set.Find("alpha")
		require.NotNil(t, updated)
		assert.Equal(t, "1.1.0", updated.Version)
	})

	t.Run("should only write documents that were modified", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "common.txt", "gamma==3.0.0\n")
		root := writeFile(t, dir, "requirements.txt",
			"-r common.txt\nalpha==1.0.0\n")
		set, err := Read(root)
		require.NoError(t, err)

		commonPath := filepath.Join(dir, "common.txt")
		before, statErr := os.Stat(commonPath)
		require.NoError(t, statErr)

		spec := set.Find("alpha")
		require.NotNil(t, spec)
		set.Rewrite(spec, "alpha==1.1.0")

		// when
		require.NoError(t, set.Write())

		// then
		rootData, readErr := os.ReadFile(root)
		require.NoError(t, readErr)
		assert.Equal(t, "-r common.txt\nalpha==1.1.0\n", string(rootData))

		after, statErr := os.Stat(commonPath)
		require.NoError(t, statErr)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("should rewrite a requirement declared in an included file in place", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "common.txt", "gamma==3.0.0\n")
		root := writeFile(t, dir, "requirements.txt", "-r common.txt\n")
		set, err := Read(root)
		require.NoError(t, err)
		spec := set.Find("gamma")
		require.NotNil(t, spec)

		// when
		set.Rewrite(spec, "gamma==3.1.0")
		require.NoError(t, set.Write())

		// then
		data, readErr := os.ReadFile(filepath.Join(dir, "common.txt"))
		require.NoError(t, readErr)
		assert.Equal(t, "gamma==3.1.0\n", string(data))

		rootData, readErr := os.ReadFile(root)
		require.NoError(t, readErr)
		assert.Equal(t, "-r common.txt\n", string(rootData))
	})
}

func TestSet_Append(t *testing.T) {
	t.Parallel()

	t.Run("should add the new requirement to the root document", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "requirements.txt", "alpha==1.0.0\n")
		set, err := Read(path)
		require.NoError(t, err)

		// when
		spec := set.Append("delta==4.0.0")

		// then
		require.NotNil(t, spec)
		assert.Equal(t, path, spec.Document)

		content, ok := set.Content(path)
		require.True(t, ok)
		assert.Equal(t, "alpha==1.0.0\ndelta==4.0.0\n", content)
	})
}

func TestSet_Merge(t *testing.T) {
	t.Parallel()

	t.Run("should expose requirements from both sets with the first root kept", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		first := writeFile(t, dir, "requirements.txt", "alpha==1.0.0\n")
		second := writeFile(t, dir, "pinned.txt", "beta==2.0.0\n")

		firstSet, err := Read(first)
		require.NoError(t, err)
		secondSet, err := Read(second)
		require.NoError(t, err)

		// when
		firstSet.Merge(secondSet)

		// then
		assert.Len(t, firstSet.Flattened(), 2)
		assert.Equal(t, first, firstSet.Root())
		assert.Equal(t, []string{first, second}, firstSet.Paths())
	})
}
