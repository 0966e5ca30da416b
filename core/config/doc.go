// Package config fills configuration structs from the environment.
//
// Struct fields use caarlos0/env tags. A .env file in the working directory
// is read once before the first load; variables already present in the
// environment take precedence over it. Nested structs are parsed in place,
// so a process can aggregate the Config types of its components:
//
//	type Config struct {
//		Server server.Config
//		Redis  redis.Config
//		Limit  string `env:"RATELIMIT_REQUESTS" envDefault:"600 per 1 minute"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Each type is parsed once and cached; Reset clears the cache in tests.
package config
