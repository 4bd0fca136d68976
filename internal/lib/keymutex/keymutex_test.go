package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	var km KeyMutex
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("account-1")
			defer km.Unlock("account-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyMutex_DifferentKeysDoNotBlock(t *testing.T) {
	var km KeyMutex
	km.Lock("account-1")
	defer km.Unlock("account-1")

	done := make(chan struct{})
	go func() {
		km.Lock("account-2")
		km.Unlock("account-2")
		close(done)
	}()

	<-done
}

func TestKeyMutex_UnlockUnknownKeyPanics(t *testing.T) {
	var km KeyMutex
	assert.Panics(t, func() {
		km.Unlock("never-locked")
	})
}
