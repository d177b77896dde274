package config

import "path/filepath"

type StoreConfig interface {
	GetStoreKind() string
	GetStoreFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetStoreKey() string
}

type Store struct {
	s Settings
}

var _ StoreConfig = Store{}

func (st Store) GetStoreKind() string {
	return st.s.Store
}

// GetStoreFile is the persistent tier file inside the data folder.
func (st Store) GetStoreFile() string {
	return filepath.Join(st.s.DataFolder, "local_storage.json")
}

func (st Store) GetRedisAddr() string {
	return st.s.RedisAddr
}

func (st Store) GetRedisPassword() string {
	return st.s.RedisPassword
}

func (st Store) GetRedisDB() int {
	return st.s.RedisDB
}

// GetStoreKey is the passphrase sealing the persistent file. Empty means plain JSON.
func (st Store) GetStoreKey() string {
	return st.s.StoreKey
}
