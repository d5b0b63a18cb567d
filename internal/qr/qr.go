// Package qr renders the download page QR code.
package qr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize  = 256
	DefaultLevel = "M"
	maxSize      = 1024
)

// Generator renders PNG QR codes and keeps the last rendering per content,
// the download URL rarely changes.
type Generator struct {
	size  int
	level qrcode.RecoveryLevel

	mu    sync.Mutex
	cache map[string][]byte
}

// NewGenerator creates a generator. level is one of L, M, Q, H.
func NewGenerator(size int, level string) *Generator {
	if size <= 0 || size > maxSize {
		size = DefaultSize
	}

	return &Generator{
		size:  size,
		level: parseLevel(level),
		cache: make(map[string][]byte),
	}
}

func parseLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Size is the edge length of generated images in pixels.
func (g *Generator) Size() int { return g.size }

// PNG encodes content as a PNG image.
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: empty content")
	}

	g.mu.Lock()
	if png, ok := g.cache[content]; ok {
		g.mu.Unlock()
		return png, nil
	}
	g.mu.Unlock()

	code, err := qrcode.New(content, g.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := code.PNG(g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	g.mu.Lock()
	// only the current download URL is worth keeping
	if len(g.cache) >= 8 {
		clear(g.cache)
	}
	g.cache[content] = png
	g.mu.Unlock()

	return png, nil
}
