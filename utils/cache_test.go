package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache()
	c.Set("k", []string{"a", "b"}, time.Minute)

	v, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit")
	}
	lista, ok := v.([]string)
	if !ok || len(lista) != 2 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestCacheExpiracion(t *testing.T) {
	c := NewCache()
	c.Set("k", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewCache()
	c.Set("k", 1, time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after delete")
	}

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after clear")
	}
}

func TestCacheMissInexistente(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("nada"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}
