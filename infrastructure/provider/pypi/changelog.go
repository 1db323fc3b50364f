package pypi

import (
	"context"
	"regexp"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumper/domain"
)

var (
	// repoURLPattern matches a repository URL in package metadata.
	repoURLPattern = regexp.MustCompile(
		`https?://(github\.com|bitbucket\.org)/[\w.-]+/[\w.-]+`,
	)

	// versionHeadingPattern matches a version section heading in a
	// changelog file: "1.2.3", "Version 1.2.3", "## [1.2.3]", "## v1.2.3".
	versionHeadingPattern = regexp.MustCompile(
		`(?i)^(?:#{1,4}\s*)?\[?(?:version\s+)?v?(\d+(?:\.\d+)+)`,
	)

	// horizontalRulePattern matches underline/separator lines used by
	// reStructuredText-style changelogs.
	horizontalRulePattern = regexp.MustCompile(`^\s*[-=~+]+\s*$`)
)

var (
	changelogNames = []string{"CHANGELOG", "HISTORY", "CHANGES", "changes"}
	changelogExts  = []string{".rst", ".md", ".txt", ""}
	changelogDirs  = []string{"", "docs"}
)

// Changelog returns the change descriptions between fromVersion (exclusive)
// and toVersion (inclusive), oldest affecting version first. When the range
// runs backwards (a downgrade), the bounds are swapped and each entry is
// prefixed with a minus sign. An empty result is normal: most packages have
// no discoverable changelog.
func (p *Provider) Changelog(
	ctx context.Context,
	pkg, fromVersion, toVersion string,
) ([]domain.ChangelogEntry, error) {
	if fromVersion == "" {
		return nil, nil
	}

	downgrade := false
	if domain.CompareVersions(fromVersion, toVersion) > 0 {
		fromVersion, toVersion = toVersion, fromVersion
		downgrade = true
	}

	repoURL := p.repoURL(ctx, pkg)
	if repoURL == "" {
		logger.Debugf("Could not find repo URL for %s to get changelog", pkg)
		return nil, nil
	}

	content := p.changelogContent(ctx, repoURL)
	if content == "" {
		return nil, nil
	}

	entries := parseChangelog(content, fromVersion, toVersion)
	if downgrade {
		for i := range entries {
			entries[i].Text = "- " + entries[i].Text
		}
	}
	return entries, nil
}

// repoURL finds the package's repository URL from its index metadata:
// home page and docs URL first, then project URLs, then a search through
// the long description.
func (p *Provider) repoURL(ctx context.Context, pkg string) string {
	info, err := p.packageInfo(ctx, pkg)
	if err != nil {
		logger.Debugf("Could not get package info for %s: %v", pkg, err)
		return ""
	}

	candidates := []string{info.Info.HomePage, info.Info.DocsURL}
	for _, url := range info.Info.ProjectURLs {
		candidates = append(candidates, url)
	}

	for _, candidate := range candidates {
		if match := repoURLPattern.FindString(candidate); match != "" {
			return match
		}
	}

	return repoURLPattern.FindString(info.Info.Description)
}

// changelogContent fetches the changelog text for a repository: via the
// GitHub contents API when the repo lives on github.com, otherwise by
// probing well-known raw file locations.
func (p *Provider) changelogContent(ctx context.Context, repoURL string) string {
	if owner, repo, ok := splitGitHubURL(repoURL); ok {
		return p.githubChangelog(ctx, owner, repo)
	}
	return p.probeChangelog(ctx, repoURL)
}

func splitGitHubURL(repoURL string) (string, string, bool) {
	idx := strings.Index(repoURL, "github.com/")
	if idx < 0 {
		return "", "", false
	}

	segments := strings.Split(strings.Trim(repoURL[idx+len("github.com/"):], "/"), "/")
	if len(segments) < 2 {
		return "", "", false
	}
	return segments[0], segments[1], true
}

// githubChangelog lists the repository root through the contents API and
// reads the first file named like a changelog, descending into doc
// directories when the root has none.
func (p *Provider) githubChangelog(ctx context.Context, owner, repo string) string {
	content, docDirs := p.githubDirChangelog(ctx, owner, repo, "")
	if content != "" {
		return content
	}

	for _, dir := range docDirs {
		if content, _ = p.githubDirChangelog(ctx, owner, repo, dir); content != "" {
			return content
		}
	}
	return ""
}

func (p *Provider) githubDirChangelog(
	ctx context.Context,
	owner, repo, dir string,
) (string, []string) {
	_, listing, _, err := p.github.Repositories.GetContents(ctx, owner, repo, dir, nil)
	if err != nil {
		logger.Debugf("Could not list %s/%s contents: %v", owner, repo, err)
		return "", nil
	}

	var docDirs []string
	for _, entry := range listing {
		name := strings.ToLower(entry.GetName())

		if entry.GetType() == "dir" && strings.HasPrefix(name, "doc") {
			docDirs = append(docDirs, entry.GetPath())
			continue
		}
		if entry.GetType() != "file" {
			continue
		}
		if !strings.HasPrefix(name, "change") && !strings.HasPrefix(name, "history") {
			continue
		}

		file, _, _, getErr := p.github.Repositories.GetContents(
			ctx, owner, repo, entry.GetPath(), nil,
		)
		if getErr != nil || file == nil {
			logger.Debugf("%s/%s/%s: %v", owner, repo, entry.GetPath(), getErr)
			continue
		}

		text, decodeErr := file.GetContent()
		if decodeErr != nil {
			logger.Debugf("Could not decode %s: %v", entry.GetPath(), decodeErr)
			continue
		}
		return text, docDirs
	}

	return "", docDirs
}

// probeChangelog tries well-known changelog file locations under the
// repository URL until one answers.
func (p *Provider) probeChangelog(ctx context.Context, repoURL string) string {
	for _, ext := range changelogExts {
		for _, name := range changelogNames {
			for _, dir := range changelogDirs {
				url := repoURL
				if dir != "" {
					url += "/" + dir
				}
				url += "/" + name + ext

				logger.Debugf("Trying %s", url)
				if content := p.fetchURL(ctx, url); content != "" {
					return content
				}
			}
		}
	}
	return ""
}

// parseChangelog extracts the entries for versions in (from, to] from a
// changelog file, oldest version first. Section headings carry the version;
// indented or bulleted lines under a heading are its entries.
func parseChangelog(content, from, to string) []domain.ChangelogEntry {
	sections := make(map[string][]string)
	var versions []string

	current := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")

		if line == "" || horizontalRulePattern.MatchString(line) {
			continue
		}

		if match := versionHeadingPattern.FindStringSubmatch(line); match != nil {
			version := match[1]
			if domain.CompareVersions(version, from) <= 0 {
				// Changelogs list newest first; everything below this
				// heading predates the bump.
				break
			}
			if domain.CompareVersions(version, to) <= 0 {
				current = version
				versions = append(versions, version)
			} else {
				current = ""
			}
			continue
		}

		if current != "" {
			sections[current] = append(sections[current], strings.TrimLeft(line, " \t*-+"))
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return domain.CompareVersions(versions[i], versions[j]) < 0
	})

	var entries []domain.ChangelogEntry
	for _, version := range versions {
		if len(sections[version]) == 0 {
			entries = append(entries, domain.ChangelogEntry{Version: version})
			continue
		}
		for _, text := range sections[version] {
			entries = append(entries, domain.ChangelogEntry{
				Version: version,
				Text:    text,
			})
		}
	}
	return entries
}
