//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/schoolsuite/institute-admin-api/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		RepositorySet,
		SecuritySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}
