package driver

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"shadercheck/internal/shader"
	"shadercheck/internal/version"
)

// Current schema version - increment when CachePayload format changes
const diskCacheSchemaVersion uint16 = 1

const cacheFileName = "results.db"

var bucketResults = []byte("results")

// DiskCache хранит результаты проверки по хешу содержимого файла.
// Ключ учитывает версию схемы, сборку инструмента и отпечаток правил.
// Safe for concurrent use.
type DiskCache struct {
	db     *bbolt.DB
	policy string
}

// cachePolicy names the build and rule set whose results a cache entry holds.
func cachePolicy() string {
	info := version.Collect()
	return info.Version + "+" + info.GitCommit + "+" + shader.Fingerprint()
}

// CachedError is one validation error as stored on disk.
type CachedError struct {
	Line    int
	Kind    uint8
	Message string
	CodeEnd int
}

// CachePayload is the msgpack-encoded value stored per file.
type CachePayload struct {
	Schema     uint16
	ShaderType string
	EntryPoint string
	Errors     []CachedError
}

// OpenDiskCache opens (creating if needed) the cache database inside dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(dir, cacheFileName), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResults)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &DiskCache{db: db, policy: cachePolicy()}, nil
}

// Close releases the database file lock.
func (c *DiskCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// cacheKey mixes the content hash with the schema version and policy.
func cacheKey(policy string, content [32]byte) []byte {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)})
	_, _ = h.Write([]byte(policy))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	return h.Sum(nil)
}

// Put serializes and stores a payload for content.
func (c *DiskCache) Put(content [32]byte, payload *CachePayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).Put(cacheKey(c.policy, content), data)
	})
}

// Get reads the payload for content. Payloads from another schema are
// reported as misses.
func (c *DiskCache) Get(content [32]byte, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	var found bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketResults).Get(cacheKey(c.policy, content))
		if data == nil {
			return nil
		}
		// data живёт только внутри транзакции, msgpack копирует строки
		if err := msgpack.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode cache payload: %w", err)
		}
		found = out.Schema == diskCacheSchemaVersion
		return nil
	})
	return found, err
}

// Len returns the number of stored results.
func (c *DiskCache) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	_ = c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketResults).Stats().KeyN
		return nil
	})
	return n
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketResults); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketResults)
		return err
	})
}

func payloadFromResult(doc *shader.Document, res shader.Result) *CachePayload {
	p := &CachePayload{
		ShaderType: doc.ShaderType,
		EntryPoint: doc.EntryPoint,
		Errors:     make([]CachedError, 0, len(res.Errors)),
	}
	ends := codeEnds(doc)
	for _, e := range res.Errors {
		p.Errors = append(p.Errors, CachedError{
			Line:    e.Line,
			Kind:    uint8(e.Kind),
			Message: e.Message,
			CodeEnd: ends[e.Line],
		})
	}
	return p
}

func resultFromPayload(p *CachePayload) (shader.Result, map[int]int) {
	res := shader.Result{Errors: make([]shader.Error, 0, len(p.Errors))}
	ends := make(map[int]int, len(p.Errors))
	for _, e := range p.Errors {
		res.Errors = append(res.Errors, shader.Error{
			Line:    e.Line,
			Kind:    shader.ErrorKind(e.Kind),
			Message: e.Message,
		})
		ends[e.Line] = e.CodeEnd
	}
	res.Valid = len(res.Errors) == 0
	return res, ends
}

// codeEnds maps a statement line to its CodeEnd offset.
func codeEnds(doc *shader.Document) map[int]int {
	ends := make(map[int]int, len(doc.Statements))
	for _, st := range doc.Statements {
		ends[st.Line] = st.CodeEnd
	}
	return ends
}
