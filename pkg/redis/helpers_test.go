package redis

import "github.com/ojvaldez/storefront-admin-backend/pkg/config"

func configFixture(url, addr string) config.RedisConfig {
	return config.RedisConfig{
		URL:     url,
		Address: addr,
	}
}
