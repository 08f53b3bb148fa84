package storage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Keys the session store persists.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Storage is durable string key/value storage that survives between runs.
type Storage interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	// Remove deletes the keys. Missing keys are not an error.
	Remove(keys ...string) error
}

// Close releases the store's handles when it holds any.
func Close(s Storage) error {
	if closer, ok := s.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

type EncryptionOptions struct {
	Enabled    bool
	Passphrase string
	Salt       string
}

type Options struct {
	Driver    Driver
	Directory string
	// Namespace separates storage per backend host.
	Namespace  string
	Encryption EncryptionOptions
}

// Open returns the storage selected by the options, wrapped with encryption
// when enabled.
func Open(opts Options) (Storage, error) {

	namespace := opts.Namespace
	if len(namespace) == 0 {
		namespace = "default"
	}

	logrus.WithFields(logrus.Fields{
		"driver":    opts.Driver,
		"directory": opts.Directory,
		"namespace": namespace,
		"encrypted": opts.Encryption.Enabled,
	}).Debugln("Opening local storage")

	var store Storage
	var err error

	switch opts.Driver {
	case DriverFile, "":
		store, err = NewFileStore(opts.Directory, namespace)
	case DriverSQLite:
		store, err = NewSQLStore(filepath.Join(opts.Directory, "storage.db"), namespace)
	case DriverMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Driver)
	}

	if err != nil {
		return nil, err
	}

	if !opts.Encryption.Enabled {
		return store, nil
	}

	cipher, err := NewCipher(opts.Encryption.Passphrase, opts.Encryption.Salt)
	if err != nil {
		return nil, err
	}

	return NewEncrypted(store, cipher), nil
}
