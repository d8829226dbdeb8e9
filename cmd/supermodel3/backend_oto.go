//go:build !headless

package main

import "github.com/sm3core/supermodel3/internal/audio"

func newPlatformBackend(sampleRate int) (audio.Backend, error) {
	return audio.NewOtoBackend(sampleRate)
}
