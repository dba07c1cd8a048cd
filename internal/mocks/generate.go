// Package mocks provides mock implementations for testing the alert dispatch core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports in internal/core. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockStore := mocks.NewMockObjectStore(ctrl)
//	mockStore.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(body, nil)
package mocks

// Generate mock for KeyManagement interface from internal/core package.
// This creates MockKeyManagement with Encrypt and Decrypt.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=key_management_mock.go github.com/target/alert-dispatch/internal/core KeyManagement

// Generate mock for ObjectStore interface from internal/core package.
// This creates MockObjectStore with Put and Get.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=object_store_mock.go github.com/target/alert-dispatch/internal/core ObjectStore

// Generate mock for OutputConfigStore interface from internal/core package.
// This creates MockOutputConfigStore with Load and ReplaceService.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=output_config_store_mock.go github.com/target/alert-dispatch/internal/core OutputConfigStore

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with Set, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/target/alert-dispatch/internal/core CacheRepository
