package testing

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/rgKV/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("StaleWrites", func(t *testing.T) {
			testStaleWrites(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("KeysInvalidMask", func(t *testing.T) {
			testKeysInvalidMask(t, factory())
		})

		t.Run("KeysConcurrentWrites", func(t *testing.T) {
			testKeysConcurrentWrites(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	database.Set(testKey, testValue1, 1)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	database.Set(testKey, testValue2, 2)

	result, exists = database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists = database.Get("nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrievedValue, _ := database.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := database.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}

	input := []byte("mutable")
	database.Set("mutable-key", input, 3)
	input[0] = 'X'
	stored, _ := database.Get("mutable-key")
	if !bytes.Equal(stored, []byte("mutable")) {
		t.Errorf("Set should copy the value, got %s", stored)
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	testKey := "delete-key"
	database.Set(testKey, []byte("delete-value"), 1)

	if _, exists := database.Get(testKey); !exists {
		t.Fatalf("Expected key %s to exist before Delete", testKey)
	}

	database.Delete(testKey, 2)

	if _, exists := database.Get(testKey); exists {
		t.Errorf("Expected key %s to be gone after Delete", testKey)
	}

	// deleting a missing key is a no-op
	database.Delete("nonexistent-key", 3)
	if _, exists := database.Get("nonexistent-key"); exists {
		t.Errorf("Delete of a missing key must not create it")
	}

	// the key can be written again after a delete
	database.Set(testKey, []byte("again"), 4)
	if v, exists := database.Get(testKey); !exists || !bytes.Equal(v, []byte("again")) {
		t.Errorf("Expected key %s to be writable after Delete", testKey)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureDelete)

	if database.Has("has-key") {
		t.Errorf("Expected Has to return false for a missing key")
	}

	database.Set("has-key", []byte("v"), 1)
	if !database.Has("has-key") {
		t.Errorf("Expected Has to return true after Set")
	}

	database.Delete("has-key", 2)
	if database.Has("has-key") {
		t.Errorf("Expected Has to return false after Delete")
	}
}

func testStaleWrites(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	database.Set("stale", []byte("new"), 10)
	database.Set("stale", []byte("old"), 5)

	if v, _ := database.Get("stale"); !bytes.Equal(v, []byte("new")) {
		t.Errorf("Stale write must be ignored, got %s", v)
	}

	database.Delete("stale", 7)
	if !database.Has("stale") {
		t.Errorf("Stale delete must be ignored")
	}

	if idx := database.WriteIdx(); idx != 10 {
		t.Errorf("Expected write index 10, got %d", idx)
	}
}

func testKeys(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureKeys)

	keys := []string{"hello:world:2012", "helloworld:2012", "helloworld:2012:test", "other"}
	for i, k := range keys {
		database.Set(k, []byte("1"), uint64(i+1))
	}

	all, err := database.Keys("*")
	if err != nil {
		t.Fatalf("Unexpected error from Keys: %v", err)
	}
	expected := append([]string(nil), keys...)
	sort.Strings(expected)
	if !equalKeys(all, expected) {
		t.Errorf("Keys(*) = %v, want %v", all, expected)
	}

	masked, err := database.Keys("hello:*:2012")
	if err != nil {
		t.Fatalf("Unexpected error from Keys: %v", err)
	}
	if !equalKeys(masked, []string{"hello:world:2012"}) {
		t.Errorf("Keys(hello:*:2012) = %v, want exactly one match", masked)
	}

	none, err := database.Keys("nothing-*")
	if err != nil {
		t.Fatalf("Unexpected error from Keys: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("Keys without matches should return an empty non-nil slice, got %#v", none)
	}
}

func testKeysInvalidMask(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureKeys)

	for _, mask := range []string{"[unclosed", "key\\"} {
		if _, err := database.Keys(mask); err == nil {
			t.Errorf("Expected an error for the invalid mask %q", mask)
		}
	}
}

func testKeysConcurrentWrites(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureDelete|db.FeatureKeys)

	for i := 0; i < 100; i++ {
		database.Set(fmt.Sprintf("stable-%03d", i), []byte("v"), uint64(i+1))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			key := fmt.Sprintf("volatile-%d", i%50)
			database.Set(key, []byte("v"), uint64(1000+i))
			database.Delete(key, uint64(1000+i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			keys, err := database.Keys("stable-*")
			if err != nil {
				t.Errorf("Unexpected error from Keys: %v", err)
				return
			}
			// keys that are never touched must always be reported
			if len(keys) != 100 {
				t.Errorf("Expected 100 stable keys, got %d", len(keys))
				return
			}
		}
	}()
	wg.Wait()
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	database2 := factory()

	// close the databases after the test
	defer database.Close()
	defer database2.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureKeys|db.FeatureSave|db.FeatureLoad)

	numEntries := 1000
	originalKeys := make([]string, numEntries)
	originalValues := make([][]byte, numEntries)

	for i := 0; i < numEntries; i++ {
		key := fmt.Sprintf("save-load-test-key-%d", i)
		value := []byte(fmt.Sprintf("save-load-test-value-%d", i))
		originalKeys[i] = key
		originalValues[i] = value

		database.Set(key, value, uint64(i+1))
	}

	// entries that exist only in the target must vanish on load
	database2.Set("pre-existing", []byte("x"), 1)

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}

	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	for i := 0; i < numEntries; i++ {
		actualValue, exists := database2.Get(originalKeys[i])
		if !exists {
			t.Errorf("Key %s not found after Load", originalKeys[i])
			continue
		}
		if !bytes.Equal(actualValue, originalValues[i]) {
			t.Errorf("Value mismatch for key %s: expected %s, got %s", originalKeys[i], originalValues[i], actualValue)
		}
	}

	if _, exists := database2.Get("pre-existing"); exists {
		t.Errorf("Load must replace the existing content")
	}

	keys, err := database2.Keys("*")
	if err != nil {
		t.Fatalf("Unexpected error from Keys: %v", err)
	}
	if len(keys) != numEntries {
		t.Errorf("Expected %d keys after Load, got %d", numEntries, len(keys))
	}

	if database2.WriteIdx() != uint64(numEntries) {
		t.Errorf("Expected write index %d after Load, got %d", numEntries, database2.WriteIdx())
	}

	if err := database2.Load(bytes.NewReader([]byte("garbage"))); err == nil {
		t.Errorf("Expected an error when loading garbage")
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureKeys)

	// empty key
	database.Set("", []byte("empty-key-value"), 1)
	if v, exists := database.Get(""); !exists || !bytes.Equal(v, []byte("empty-key-value")) {
		t.Errorf("Empty key should be storable")
	}

	// empty value
	database.Set("empty-value", []byte{}, 2)
	if v, exists := database.Get("empty-value"); !exists || len(v) != 0 {
		t.Errorf("Empty value should be storable")
	}

	// nil value
	database.Set("nil-value", nil, 3)
	if _, exists := database.Get("nil-value"); !exists {
		t.Errorf("Nil value should be storable")
	}

	// masks match unicode keys rune by rune
	database.Set("ключ:1", []byte("v"), 4)
	database.Set("ключ:2", []byte("v"), 5)
	keys, err := database.Keys("ключ:?")
	if err != nil {
		t.Fatalf("Unexpected error from Keys: %v", err)
	}
	if !equalKeys(keys, []string{"ключ:1", "ключ:2"}) {
		t.Errorf("Unicode mask mismatch, got %v", keys)
	}

	// binary values are kept as is
	binaryValue := []byte{0x00, 0xff, 0xfe, 0x80}
	database.Set("binary", binaryValue, 6)
	if v, _ := database.Get("binary"); !bytes.Equal(v, binaryValue) {
		t.Errorf("Binary value mismatch, got %v", v)
	}
}

func testInfo(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)

	for i := 0; i < 10; i++ {
		database.Set(fmt.Sprintf("info-%d", i), []byte("value"), uint64(i+1))
	}

	info := database.GetInfo()
	if info.KeyCount != 10 {
		t.Errorf("Expected KeyCount 10, got %d", info.KeyCount)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("Expected positive SizeBytes, got %d", info.SizeBytes)
	}
	if info.DbType == "" {
		t.Errorf("Expected DbType to be set")
	}
}
