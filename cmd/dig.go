package cmd

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/bumper/application"
	"github.com/rios0rios0/bumper/config"
	"github.com/rios0rios0/bumper/domain"
	bumperPkg "github.com/rios0rios0/bumper/infrastructure/bumper"
	"github.com/rios0rios0/bumper/infrastructure/bumper/requirements"
	providerPkg "github.com/rios0rios0/bumper/infrastructure/provider"
	"github.com/rios0rios0/bumper/infrastructure/provider/pypi"
)

// buildDriver wires the driver and its dependencies for one run.
func buildDriver(cfg *config.Config) (*application.BumperDriver, error) {
	container := dig.New()

	if err := registerProviders(container, cfg); err != nil {
		return nil, err
	}

	var driver *application.BumperDriver
	if err := container.Invoke(func(d *application.BumperDriver) {
		driver = d
	}); err != nil {
		return nil, err
	}
	return driver, nil
}

// registerProviders registers every constructor with the container.
func registerProviders(container *dig.Container, cfg *config.Config) error {
	constructors := []any{
		func() *config.Config { return cfg },
		newProviderRegistry,
		newVersionProvider,
		newBumperRegistry,
		application.NewBumperDriver,
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}
	return nil
}

func newProviderRegistry() *providerPkg.Registry {
	registry := providerPkg.NewRegistry()
	registry.Register("pypi", func(opts providerPkg.Options) domain.VersionProvider {
		return pypi.New(pypi.Options{
			BaseURL:     opts.IndexURL,
			Timeout:     opts.Timeout,
			MaxRetries:  opts.MaxRetries,
			GitHubToken: opts.Token,
		})
	})
	return registry
}

func newVersionProvider(
	cfg *config.Config,
	registry *providerPkg.Registry,
) (domain.VersionProvider, error) {
	return registry.Get(cfg.Provider.Type, providerPkg.Options{
		IndexURL:   cfg.Provider.IndexURL,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.Provider.MaxRetries,
		Token:      cfg.Provider.GitHubToken,
	})
}

func newBumperRegistry(provider domain.VersionProvider) *bumperPkg.Registry {
	registry := bumperPkg.NewRegistry()
	registry.Register(requirements.New(provider))
	registry.Register(requirements.NewPinned(provider))
	return registry
}
