package cmd //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/bumper/domain"
)

func TestParseTargets(t *testing.T) {
	t.Parallel()

	t.Run("should build one target per argument with the changelog flag applied", func(t *testing.T) {
		t.Parallel()

		// when
		targets, err := parseTargets([]string{"alpha", "beta==2.0.0"}, true)

		// then
		require.NoError(t, err)
		require.Len(t, targets, 2)
		assert.Equal(t, domain.LatestVersion, targets[0].DesiredVersion)
		assert.True(t, targets[0].IncludeChangelog)
		assert.Equal(t, "2.0.0", targets[1].DesiredVersion)
		assert.True(t, targets[1].ExplicitVersion)
	})

	t.Run("should reject a malformed argument", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := parseTargets([]string{"==1.0"}, false)

		// then
		require.Error(t, err)
	})
}
