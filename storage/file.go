package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/spf13/afero"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

var _ Tier = (*FileTier)(nil)

const (
	sealedMagic = "CXS1"
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32
)

// FileTier keeps the persistent tier as a JSON document on disk. Every read
// goes back to the file so separate processes observe each other's writes.
// With a passphrase the document is sealed with NaCl secretbox under an
// argon2id-derived key. Filesystem failures match ErrStorageUnavailable.
type FileTier struct {
	fs         afero.Fs
	path       string
	passphrase []byte

	mu      sync.Mutex
	salt    []byte
	key     *[keyLength]byte
	keySalt []byte
}

type FileTierOption func(*FileTier)

// WithPassphrase seals the file contents. An empty passphrase leaves the file in plain JSON.
func WithPassphrase(passphrase string) FileTierOption {
	return func(f *FileTier) {
		if passphrase != "" {
			f.passphrase = []byte(passphrase)
		}
	}
}

func NewFileTier(fs afero.Fs, path string, opts ...FileTierOption) *FileTier {
	f := &FileTier{
		fs:   fs,
		path: path,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FileTier) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileTier) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileTier) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileTier) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.save(map[string]string{})
}

func (f *FileTier) load() (map[string]string, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w: %w", f.path, cxerrors.ErrStorageUnavailable, err)
	}

	if len(data) == 0 {
		return map[string]string{}, nil
	}

	if f.passphrase != nil {
		data, err = f.open(data)
		if err != nil {
			return nil, err
		}
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileTier) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	if f.passphrase != nil {
		data, err = f.seal(data)
		if err != nil {
			return err
		}
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create data folder: %w: %w", cxerrors.ErrStorageUnavailable, err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w: %w", tmp, cxerrors.ErrStorageUnavailable, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w: %w", f.path, cxerrors.ErrStorageUnavailable, err)
	}
	return nil
}

// seal lays the file out as magic | salt | nonce | secretbox(data).
func (f *FileTier) seal(data []byte) ([]byte, error) {
	if f.salt == nil {
		f.salt = make([]byte, saltLength)
		if _, err := rand.Read(f.salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedMagic)+saltLength+nonceLength+len(data)+secretbox.Overhead)
	out = append(out, sealedMagic...)
	out = append(out, f.salt...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, data, &nonce, f.deriveKey(f.salt)), nil
}

func (f *FileTier) open(data []byte) ([]byte, error) {
	header := len(sealedMagic) + saltLength + nonceLength
	if len(data) < header+secretbox.Overhead || !bytes.HasPrefix(data, []byte(sealedMagic)) {
		return nil, cxerrors.Wrapf(cxerrors.ErrSealedStore, "%s is not a sealed store", f.path)
	}

	salt := data[len(sealedMagic) : len(sealedMagic)+saltLength]
	var nonce [nonceLength]byte
	copy(nonce[:], data[len(sealedMagic)+saltLength:header])

	plain, ok := secretbox.Open(nil, data[header:], &nonce, f.deriveKey(salt))
	if !ok {
		return nil, cxerrors.Wrapf(cxerrors.ErrSealedStore, "wrong passphrase for %s", f.path)
	}
	f.salt = append([]byte(nil), salt...)
	return plain, nil
}

// deriveKey caches the key for the most recent salt; argon2id is slow on purpose.
func (f *FileTier) deriveKey(salt []byte) *[keyLength]byte {
	if f.key != nil && bytes.Equal(f.keySalt, salt) {
		return f.key
	}
	derived := argon2.IDKey(f.passphrase, salt, 1, 64*1024, 4, keyLength)
	var key [keyLength]byte
	copy(key[:], derived)
	f.key = &key
	f.keySalt = append([]byte(nil), salt...)
	return f.key
}
