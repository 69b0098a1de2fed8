// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (a missing file is ignored) and
// uses the caarlos0/env library to parse environment variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/sluggable/pkg/config"
//
//	type AppConfig struct {
//		Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
//		DatabaseURL string `env:"DATABASE_URL,required"`
//	}
//
//	func main() {
//		var cfg AppConfig
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process. A second Load of
// the same type copies the cached value without consulting the environment
// again. Use Reset in tests that change the environment between loads.
package config
