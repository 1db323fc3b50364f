package domain //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	t.Run("should fold case and separators to a canonical name", func(t *testing.T) {
		t.Parallel()

		// given
		variants := []string{"Flask_Login", "flask.login", "FLASK-LOGIN"}

		// when / then
		for _, variant := range variants {
			assert.Equal(t, "flask-login", NormalizeName(variant))
		}
	})
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	t.Run("should parse a pinned requirement line", func(t *testing.T) {
		t.Parallel()

		// when
		spec, ok := ParseLine("requests==2.31.0")

		// then
		require.True(t, ok)
		assert.Equal(t, "requests", spec.Name)
		assert.Equal(t, OpExact, spec.Operator)
		assert.Equal(t, "2.31.0", spec.Version)
		assert.Equal(t, "requests==2.31.0", spec.RawText)
	})

	t.Run("should parse every comparator", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			line     string
			operator Operator
			version  string
		}{
			{"pkg==1.0", OpExact, "1.0"},
			{"pkg>=1.0", OpMin, "1.0"},
			{"pkg<=1.0", OpMax, "1.0"},
			{"pkg~=1.0", OpCompatible, "1.0"},
			{"pkg>1.0", OpGreater, "1.0"},
			{"pkg<1.0", OpLess, "1.0"},
		}

		for _, test := range tests {
			t.Run(test.line, func(t *testing.T) {
				t.Parallel()

				spec, ok := ParseLine(test.line)

				require.True(t, ok)
				assert.Equal(t, test.operator, spec.Operator)
				assert.Equal(t, test.version, spec.Version)
			})
		}
	})

	t.Run("should parse a bare package name without a constraint", func(t *testing.T) {
		t.Parallel()

		// when
		spec, ok := ParseLine("requests")

		// then
		require.True(t, ok)
		assert.Equal(t, OpNone, spec.Operator)
		assert.Empty(t, spec.Version)
	})

	t.Run("should normalize the package name but keep the raw text", func(t *testing.T) {
		t.Parallel()

		// when
		spec, ok := ParseLine("Flask_Login==0.6.3")

		// then
		require.True(t, ok)
		assert.Equal(t, "flask-login", spec.Name)
		assert.Equal(t, "Flask_Login==0.6.3", spec.RawText)
	})

	t.Run("should tolerate whitespace and trailing comments", func(t *testing.T) {
		t.Parallel()

		// when
		spec, ok := ParseLine("  gamma == 2.0   # locked for compatibility")

		// then
		require.True(t, ok)
		assert.Equal(t, "gamma", spec.Name)
		assert.Equal(t, OpExact, spec.Operator)
		assert.Equal(t, "2.0", spec.Version)
	})

	t.Run("should reject lines that declare no requirement", func(t *testing.T) {
		t.Parallel()

		opaque := []string{
			"",
			"   ",
			"# just a comment",
			"-r common.txt",
			"-e .",
			"--requirement base.txt",
			"pkg==",
			"==1.0",
		}

		for _, line := range opaque {
			_, ok := ParseLine(line)
			assert.False(t, ok, "line %q should be opaque", line)
		}
	})
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	t.Run("should default a bare name to the latest version", func(t *testing.T) {
		t.Parallel()

		// when
		target, err := ParseTarget("requests")

		// then
		require.NoError(t, err)
		assert.Equal(t, "requests", target.Name)
		assert.Equal(t, LatestVersion, target.DesiredVersion)
		assert.False(t, target.ExplicitVersion)
	})

	t.Run("should mark an exact pin as an explicit version request", func(t *testing.T) {
		t.Parallel()

		// when
		target, err := ParseTarget("requests==2.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", target.DesiredVersion)
		assert.True(t, target.ExplicitVersion)
	})

	t.Run("should keep a ranged request non-explicit", func(t *testing.T) {
		t.Parallel()

		// when
		target, err := ParseTarget("requests>=2.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", target.DesiredVersion)
		assert.False(t, target.ExplicitVersion)
	})

	t.Run("should reject a malformed request", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := ParseTarget("==1.0")

		// then
		require.Error(t, err)
	})
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	t.Run("should order versions numerically, not lexically", func(t *testing.T) {
		t.Parallel()

		assert.Negative(t, CompareVersions("1.2.3", "1.10.0"))
		assert.Positive(t, CompareVersions("2.0.0", "1.99.99"))
		assert.Zero(t, CompareVersions("1.2.3", "1.2.3"))
	})

	t.Run("should fall back to lexical ordering for non-semver versions", func(t *testing.T) {
		t.Parallel()

		assert.Negative(t, CompareVersions("2023a", "2023b"))
	})
}

func TestRequirementSpec_SatisfiedBy(t *testing.T) {
	t.Parallel()

	t.Run("should check each comparator against the current version", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			line      string
			version   string
			satisfied bool
		}{
			{"exact match", "pkg==1.2.3", "1.2.3", true},
			{"exact mismatch", "pkg==1.2.3", "1.2.4", false},
			{"minimum met", "pkg>=1.2", "1.3.0", true},
			{"minimum unmet", "pkg>=1.2", "1.1.9", false},
			{"maximum met", "pkg<=2.0", "1.9.0", true},
			{"maximum exceeded", "pkg<=2.0", "2.1.0", false},
			{"strictly greater met", "pkg>1.0", "1.0.1", true},
			{"strictly greater unmet by itself", "pkg>1.0", "1.0", false},
			{"strictly less met", "pkg<2.0", "1.9.9", true},
			{"strictly less unmet", "pkg<2.0", "2.0", false},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				t.Parallel()

				spec, ok := ParseLine(test.line)

				require.True(t, ok)
				assert.Equal(t, test.satisfied, spec.SatisfiedBy(test.version))
			})
		}
	})

	t.Run("should keep compatible releases inside the implied series", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			line      string
			version   string
			satisfied bool
		}{
			{"patch within series", "pkg~=1.4.2", "1.4.5", true},
			{"below the floor", "pkg~=1.4.2", "1.4.1", false},
			{"next minor escapes the series", "pkg~=1.4.2", "1.5.0", false},
			{"minor within major series", "pkg~=1.4", "1.9.0", true},
			{"next major escapes the series", "pkg~=1.4", "2.0.0", false},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				t.Parallel()

				spec, ok := ParseLine(test.line)

				require.True(t, ok)
				assert.Equal(t, test.satisfied, spec.SatisfiedBy(test.version))
			})
		}
	})

	t.Run("should treat a bare name as always satisfied", func(t *testing.T) {
		t.Parallel()

		spec, ok := ParseLine("pkg")

		require.True(t, ok)
		assert.True(t, spec.SatisfiedBy("0.0.1"))
	})
}

func TestRequirementSpec_SuggestedVersion(t *testing.T) {
	t.Parallel()

	t.Run("should suggest the constraint's own version when minimal", func(t *testing.T) {
		t.Parallel()

		for _, line := range []string{"pkg==1.2", "pkg>=1.2", "pkg<=1.2", "pkg~=1.2"} {
			spec, ok := ParseLine(line)

			require.True(t, ok)
			assert.Equal(t, "1.2", spec.SuggestedVersion())
		}
	})

	t.Run("should suggest nothing for strict comparators", func(t *testing.T) {
		t.Parallel()

		for _, line := range []string{"pkg>1.2", "pkg<1.2"} {
			spec, ok := ParseLine(line)

			require.True(t, ok)
			assert.Empty(t, spec.SuggestedVersion())
		}
	})
}

func TestRewriteLine(t *testing.T) {
	t.Parallel()

	t.Run("should replace the constraint and keep the surrounding formatting", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "  gamma==2.0 # locked"

		// when
		rewritten, ok := RewriteLine(raw, OpExact, "2.1")

		// then
		require.True(t, ok)
		assert.Equal(t, "  gamma==2.1 # locked", rewritten)
	})

	t.Run("should keep the package name as originally written", func(t *testing.T) {
		t.Parallel()

		// when
		rewritten, ok := RewriteLine("Flask_Login==0.6.3", OpExact, "0.7.0")

		// then
		require.True(t, ok)
		assert.Equal(t, "Flask_Login==0.7.0", rewritten)
	})

	t.Run("should pin a previously bare package name", func(t *testing.T) {
		t.Parallel()

		// when
		rewritten, ok := RewriteLine("requests", OpExact, "2.31.0")

		// then
		require.True(t, ok)
		assert.Equal(t, "requests==2.31.0", rewritten)
	})

	t.Run("should refuse lines outside the requirement grammar", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := RewriteLine("# comment only", OpExact, "1.0")

		// then
		assert.False(t, ok)
	})
}
