package utils

import (
	"sync"
	"time"
)

// CacheKeyEmpleados es la llave del listado de empleados.
const CacheKeyEmpleados = "empleados_list"

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// Cache es un cache en memoria con TTL por llave. Solo sirve lecturas
// que toleran datos viejos dentro de la ventana; las lecturas fuertes
// (verificacion de PIN) van directo a la base.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: time.Now().Add(ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// GlobalCache es la instancia compartida del proceso.
var GlobalCache = NewCache()
