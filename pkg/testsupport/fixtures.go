package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-finance-cache/cache"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// Fixture decodes a JSON fixture from testdata into a T.
func Fixture[T any](t *testing.T, filename string) T {
	t.Helper()

	var out T
	LoadFixtureJSON(t, FixturePath(filename), &out)
	return out
}

// Seed stores the decoded fixture at key, the way a completed fetch would,
// and returns it.
func Seed[T any](t *testing.T, c cache.QueryCache, key cache.Key, filename string) T {
	t.Helper()

	value := Fixture[T](t, filename)
	cache.SetQueryData(c, key, value)
	return value
}

// CompareWithGoldenJSON marshals actual and compares it with the golden file.
// A missing golden file is created from actual.
func CompareWithGoldenJSON(t *testing.T, filename string, actual any) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON for golden file %s: %v", filename, err)
	}
	data = append(data, '\n')

	path := GoldenPath(filename)
	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Logf("Golden file %s does not exist, creating it", path)
			writeGolden(t, path, data)
			return
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if string(data) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, data)
	}
}

func writeGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
