package cache

// DefaultSize is used when Config.Size is not positive.
const DefaultSize = 1024

// Config carries the settings shared by the service caches.
type Config struct {
	Size int
}

// EntriesPerCache returns the configured capacity of a single cache.
func (c Config) EntriesPerCache() int {
	if c.Size <= 0 {
		return DefaultSize
	}
	return c.Size
}
