package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/openweather-client/internal/openweather"
	"go.uber.org/zap"
)

func testSnapshot(name string) *openweather.Snapshot {
	return &openweather.Snapshot{
		Weather:     openweather.Conditions{Main: "Haze", Description: "haze"},
		Temperature: openweather.Temperature{Temp: 278.65, FeelsLike: 274.06},
		Visibility:  8047,
		Wind:        openweather.Wind{Speed: 7.72},
		Datetime:    1710005627,
		Sys:         openweather.SunTimes{Sunrise: 1709983007, Sunset: 1710024977},
		Timezone:    -18000,
		Name:        name,
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 10, zap.NewNop())
	assert.Equal(t, 0, s.Len())
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("corrupted_test_data"), 0o644))

	s := Open(path, 10, zap.NewNop())
	assert.Equal(t, 0, s.Len())
}

func TestPutPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 10, zap.NewNop())
	s.Put("New York", testSnapshot("New York"))

	reloaded := Open(path, 10, zap.NewNop())
	entry, ok := reloaded.Get("New York")
	require.True(t, ok)
	require.NotNil(t, entry.Data)
	assert.Equal(t, testSnapshot("New York"), entry.Data)

	original, _ := s.Get("New York")
	assert.True(t, entry.Time.Equal(original.Time))
}

func TestReserveIsPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 10, zap.NewNop())
	s.Reserve("London")

	entry, ok := s.Get("London")
	require.True(t, ok)
	assert.Nil(t, entry.Data)

	// Reserving again must not reset the entry once data arrives.
	s.Put("London", testSnapshot("London"))
	s.Reserve("London")
	entry, _ = s.Get("London")
	assert.NotNil(t, entry.Data)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 3, zap.NewNop())
	s.Put("Minsk", testSnapshot("Minsk"))
	s.Put("London", testSnapshot("London"))
	s.Put("Tokyo", testSnapshot("Tokyo"))

	s.Put("Paris", testSnapshot("Paris"))

	assert.Equal(t, 3, s.Len())
	_, ok := s.Get("Minsk")
	assert.False(t, ok, "the oldest entry should have been evicted")
	for _, city := range []string{"London", "Tokyo", "Paris"} {
		_, ok := s.Get(city)
		assert.True(t, ok, "%s should still be cached", city)
	}
}

func TestLenNeverExceedsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 10, zap.NewNop())
	for i := 0; i < 15; i++ {
		city := fmt.Sprintf("City %d", i)
		s.Reserve(city)
		s.Put(city, testSnapshot(city))
	}

	assert.Equal(t, 10, s.Len())
}

func TestPutUpdatesFetchTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")

	s := Open(path, 10, zap.NewNop())
	s.Put("Vilnius", testSnapshot("Vilnius"))
	before, _ := s.Get("Vilnius")

	time.Sleep(5 * time.Millisecond)
	s.Put("Vilnius", testSnapshot("Vilnius"))
	after, _ := s.Get("Vilnius")

	assert.True(t, after.Time.After(before.Time))
}
