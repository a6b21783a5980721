package main

import (
	"testing"

	"github.com/autoclock/scheduler/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideRedisClient(t *testing.T) {
	cfg := &config.Config{
		Lease: config.LeaseConfig{Backend: "db"},
		Redis: config.RedisConfig{Host: "localhost", Port: 6379},
	}
	assert.Nil(t, ProvideRedisClient(cfg))

	cfg.Lease.Backend = "redis"
	client := ProvideRedisClient(cfg)
	require.NotNil(t, client)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	_ = client.Close()
}

func TestRootCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "build", "purge", "migrate"})
	assert.NotNil(t, purgeCmd.Flags().Lookup("email"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
