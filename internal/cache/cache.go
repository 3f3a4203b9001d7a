package cache

import (
	"github.com/VinothKuppanna/pigeon-maps/configs"
	"github.com/patrickmn/go-cache"
)

// GatewayCache holds search gateway answers. Entries carry their own TTL.
type GatewayCache struct {
	*cache.Cache
}

// SessionCache holds live search sessions keyed by session id.
type SessionCache struct {
	*cache.Cache
}

func NewGatewayCache(config configs.Cache) *GatewayCache {
	return &GatewayCache{cache.New(config.Route, config.Cleanup)}
}

func NewSessionCache(config configs.Sessions) *SessionCache {
	return &SessionCache{cache.New(config.TTL, config.Cleanup)}
}
