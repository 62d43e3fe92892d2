package usecase_test

import (
	"context"

	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func builtinRegistry() *engine.Registry {
	return engine.NewRegistry(engine.Builtins(), nil, nil)
}
