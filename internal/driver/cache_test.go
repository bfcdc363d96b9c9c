package driver

import (
	"crypto/sha256"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"shadercheck/internal/shader"
)

func openTestCache(t *testing.T) *DiskCache {
	t.Helper()
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	key := sha256.Sum256([]byte(brokenShader))

	var out CachePayload
	if hit, err := cache.Get(key, &out); err != nil || hit {
		t.Fatalf("expected miss on empty cache, got hit=%v err=%v", hit, err)
	}

	doc := shader.Classify(brokenShader)
	res := shader.ValidateDocument(doc)
	if err := cache.Put(key, payloadFromResult(doc, res)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	hit, err := cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	got, ends := resultFromPayload(&out)
	if !reflect.DeepEqual(got, res) {
		t.Errorf("result mismatch:\nwant %+v\ngot  %+v", res, got)
	}
	for _, e := range res.Errors {
		if ends[e.Line] != codeEnds(doc)[e.Line] {
			t.Errorf("code end for line %d: got %d", e.Line, ends[e.Line])
		}
	}
	if out.ShaderType != "spatial" || out.EntryPoint != "fragment" {
		t.Errorf("unexpected facts %q/%q", out.ShaderType, out.EntryPoint)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", cache.Len())
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if hit, _ := cache.Get(key, &out); hit || cache.Len() != 0 {
		t.Error("expected empty cache after DropAll")
	}
}

func TestDiskCacheValidResult(t *testing.T) {
	cache := openTestCache(t)
	key := sha256.Sum256([]byte(validShader))
	doc := shader.Classify(validShader)
	if err := cache.Put(key, payloadFromResult(doc, shader.ValidateDocument(doc))); err != nil {
		t.Fatal(err)
	}
	var out CachePayload
	if hit, err := cache.Get(key, &out); err != nil || !hit {
		t.Fatalf("expected hit, got %v %v", hit, err)
	}
	res, _ := resultFromPayload(&out)
	if !res.Valid || res.Errors == nil || len(res.Errors) != 0 {
		t.Errorf("expected valid result with empty non-nil errors, got %#v", res)
	}
}

func TestDiskCacheMissesAcrossPolicies(t *testing.T) {
	cache := openTestCache(t)
	if !strings.Contains(cache.policy, shader.Fingerprint()) {
		t.Fatalf("policy %q must include the rule fingerprint", cache.policy)
	}

	key := sha256.Sum256([]byte(brokenShader))
	doc := shader.Classify(brokenShader)
	if err := cache.Put(key, payloadFromResult(doc, shader.ValidateDocument(doc))); err != nil {
		t.Fatal(err)
	}

	// результаты старого набора правил не отдаются
	cache.policy += "-changed"
	var out CachePayload
	if hit, err := cache.Get(key, &out); err != nil || hit {
		t.Errorf("expected miss under another policy, got hit=%v err=%v", hit, err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	var out CachePayload
	if hit, err := cache.Get([32]byte{}, &out); hit || err != nil {
		t.Error("nil cache must miss")
	}
	if err := cache.Put([32]byte{}, &CachePayload{}); err != nil {
		t.Error(err)
	}
	if cache.Len() != 0 || cache.Close() != nil || cache.DropAll() != nil {
		t.Error("nil cache must be inert")
	}
}
