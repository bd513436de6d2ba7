package database

import (
	"context"
	"fmt"
	"time"

	"housemanagement/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey logical database indexes.
const (
	// GENERAL_CACHE_INDEX holds dashboard summaries and other short-lived views.
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX holds user records loaded by the auth middleware.
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX carries pub/sub fan-out for chat pushes.
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	initAddress := []string{fmt.Sprintf("%s:%d", address, port)}

	var cacheDB Cache
	var err error

	cacheDB.General, err = NewCacheClient(initAddress, GENERAL_CACHE_INDEX, false)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.User, err = NewCacheClient(initAddress, USER_CACHE_INDEX, false)
	if err != nil {
		return log.Err("failed to create user valkey client", err)
	}

	cacheDB.Events, err = NewCacheClient(initAddress, EVENTS_CACHE_INDEX, false)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

// NewCacheClient opens one valkey client bound to a logical database.
// Client-side caching is disabled for servers without RESP3 tracking.
func NewCacheClient(initAddress []string, index int, disableCache bool) (CacheClient, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress:  initAddress,
		SelectDB:     index,
		DisableCache: disableCache,
	})
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client = cacheDB.General
		dbName = "General"
	case USER_CACHE_INDEX:
		client = cacheDB.User
		dbName = "User"
	case EVENTS_CACHE_INDEX:
		client = cacheDB.Events
		dbName = "Events"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
