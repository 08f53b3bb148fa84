package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const fileStoreVersion = "1.0"

// FileStore keeps one YAML document per namespace, readable only by the
// owner. Every read reloads the file so that two processes sharing a
// namespace see each other's writes.
type FileStore struct {
	lock sync.Mutex
	path string
}

type localDocument struct {
	Version   string            `yaml:"version"`
	Timestamp time.Time         `yaml:"timestamp"`
	Items     map[string]string `yaml:"items"`
}

func newLocalDocument() *localDocument {
	return &localDocument{
		Version:   fileStoreVersion,
		Timestamp: time.Now().UTC(),
		Items:     make(map[string]string),
	}
}

func NewFileStore(directory string, namespace string) (*FileStore, error) {

	if len(directory) == 0 {
		return nil, fmt.Errorf("storage directory is required")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		if err := os.MkdirAll(directory, 0700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &FileStore{
		path: filepath.Join(directory, fmt.Sprintf("%s.yaml", namespace)),
	}, nil
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", false, err
	}

	value, ok := doc.Items[key]
	return value, ok, nil
}

func (f *FileStore) Set(key string, value string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	doc.Items[key] = value

	return f.commit(doc)
}

func (f *FileStore) Remove(keys ...string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	for _, key := range keys {
		delete(doc.Items, key)
	}

	return f.commit(doc)
}

func (f *FileStore) open() (*os.File, error) {
	// Only allow read/write access to the owner
	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage file: %w", err)
	}
	return file, nil
}

func (f *FileStore) load() (*localDocument, error) {

	file, err := f.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if fileInfo.Size() == 0 {
		return newLocalDocument(), nil
	}

	var doc localDocument
	if err := yaml.NewDecoder(file).Decode(&doc); err != nil && err != io.EOF {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path": f.path,
		}).Errorln("Failed to parse local storage, reinitializing")
		return newLocalDocument(), nil
	}

	if doc.Items == nil {
		doc.Items = make(map[string]string)
	}

	return &doc, nil
}

func (f *FileStore) commit(doc *localDocument) error {

	file, err := f.open()
	if err != nil {
		return err
	}
	defer file.Close()

	// Truncate the file to ensure clean write
	if err := file.Truncate(0); err != nil {
		return err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	doc.Version = fileStoreVersion
	doc.Timestamp = time.Now().UTC()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}

	return encoder.Close()
}
