//go:build raspbian

package led

import (
	"sync"

	blinkt "github.com/alexellis/blinkt_go"

	"github.com/smazurov/ledsaver/internal/pattern"
)

// BlinktLEDType addresses the whole Pimoroni Blinkt! bar.
const BlinktLEDType = "blinkt"

const blinktPixels = 8

// blinktBar shows the color on every pixel of a Blinkt! bar.
type blinktBar struct {
	mu sync.Mutex
	bl blinkt.Blinkt
}

func newBlinkt(brightness float64) (Controller, error) {
	bl := blinkt.NewBlinkt(brightness)
	bl.Setup()
	return &blinktBar{bl: bl}, nil
}

func (b *blinktBar) Set(ledType string, color pattern.Color) error {
	if ledType != BlinktLEDType {
		return ErrLEDNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.bl.Clear()
	if color != pattern.Off {
		r, g, bl := color.RGB()
		for pixel := 0; pixel < blinktPixels; pixel++ {
			b.bl.SetPixel(pixel, int(r), int(g), int(bl))
		}
	}
	b.bl.Show()
	return nil
}

func (b *blinktBar) Available() []string {
	return []string{BlinktLEDType}
}

func (b *blinktBar) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bl.Clear()
	b.bl.Show()
	return nil
}
